// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package version provides build-time version information.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

const (
	// Name is the command name shown in version output.
	Name = "faust-avro-codegen"

	// Generator is the tool name stamped into the banner of generated modules.
	Generator = "avro_code_gen"
)

// Set at build time with -ldflags "-X .../internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		Version, Commit, Date = fromBuildInfo(info, Version, Commit, Date)
	}
}

// fromBuildInfo fills values still at their defaults from module and vcs
// build settings, so "go install module@version" binaries report a version.
func fromBuildInfo(info *debug.BuildInfo, version, commit, date string) (string, string, string) {
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if commit == "none" && len(setting.Value) >= 7 {
				commit = setting.Value[:7]
			}
		case "vcs.time":
			if date == "unknown" {
				date = setting.Value
			}
		}
	}
	return version, commit, date
}

// Info returns formatted version information.
func Info() string {
	return fmt.Sprintf("%s version %s (commit: %s, built: %s, go: %s, banner: %s)",
		Name, Version, Commit, Date, runtime.Version(), Generator)
}

// Short returns just the version string.
func Short() string {
	return Version
}
