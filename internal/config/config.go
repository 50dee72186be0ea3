// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package config handles code generator settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// PyprojectFileName holds settings under [tool.faust_avro_code_gen].
	PyprojectFileName = "pyproject.toml"

	// FileName is the standalone settings file written by init.
	FileName = "faust_avro_code_gen.toml"

	// EnvSchemaRegistryURL overrides schema_registry_url.
	EnvSchemaRegistryURL = "FAUST_AVRO_CODE_GEN_SCHEMA_REGISTRY_URL"

	// EnvFileName is the dotenv file consulted for overrides.
	EnvFileName = ".env"
)

// Default values.
const (
	DefaultSchemaDir            = "schemas"
	DefaultOutfile              = "models.py"
	DefaultSchemaRegistryURL    = "http://localhost:8081"
	DefaultFaustAppModelsModule = "models"
)

var (
	// ErrConfigNotFound indicates a settings file that does not exist or has no settings table.
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrInvalidConfig indicates a settings file that cannot be decoded or validated.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// searchOrder lists the files Resolve looks at, first match wins.
var searchOrder = []string{
	PyprojectFileName,
	FileName,
	"faust_avro_code_gen.yaml",
	"faust_avro_code_gen.yml",
}

// Settings configures where schemas are read from and where models go.
type Settings struct {
	SchemaDir            string `toml:"schema_dir" yaml:"schema_dir"`
	Outfile              string `toml:"outfile" yaml:"outfile"`
	SchemaRegistryURL    string `toml:"schema_registry_url" yaml:"schema_registry_url"`
	FaustAppModelsModule string `toml:"faust_app_models_module" yaml:"faust_app_models_module"`
}

type pyproject struct {
	Tool struct {
		Section *Settings `toml:"faust_avro_code_gen"`
	} `toml:"tool"`
}

// Default returns the settings used when no file configures the project.
func Default() *Settings {
	return &Settings{
		SchemaDir:            DefaultSchemaDir,
		Outfile:              DefaultOutfile,
		SchemaRegistryURL:    DefaultSchemaRegistryURL,
		FaustAppModelsModule: DefaultFaustAppModelsModule,
	}
}

// Resolve finds the settings for the project in dir.
//
// It reads the [tool.faust_avro_code_gen] table of pyproject.toml, else
// faust_avro_code_gen.toml, else faust_avro_code_gen.yaml or .yml, else
// falls back to Default. Keys a file leaves out take their default.
// Environment overrides are applied last, first from getenv and then
// from a .env file in dir. The returned path is the file the settings
// came from, or "" for defaults.
func Resolve(dir string, getenv func(string) string) (*Settings, string, error) {
	settings, source, err := find(dir)
	if err != nil {
		return nil, "", err
	}

	if err := settings.applyEnv(dir, getenv); err != nil {
		return nil, "", err
	}
	return settings, source, nil
}

func find(dir string) (*Settings, string, error) {
	for _, name := range searchOrder {
		path := filepath.Join(dir, name)
		s, err := LoadFile(path)
		switch {
		case errors.Is(err, ErrConfigNotFound):
			continue
		case err != nil:
			return nil, "", err
		}
		return s, path, nil
	}
	return Default(), "", nil
}

// LoadFile reads settings from path. The format follows the file name:
// pyproject.toml, any other .toml file, or .yaml/.yml.
// A missing file, or a pyproject.toml without a [tool.faust_avro_code_gen]
// table, yields ErrConfigNotFound.
func LoadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by caller
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	var s *Settings
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case filepath.Base(path) == PyprojectFileName:
		var p pyproject
		if err := toml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
		if p.Tool.Section == nil {
			return nil, fmt.Errorf("%w: no [tool.faust_avro_code_gen] table in %s", ErrConfigNotFound, path)
		}
		s = p.Tool.Section
	case ext == ".toml":
		s = &Settings{}
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	case ext == ".yaml" || ext == ".yml":
		s = &Settings{}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported settings file %s", ErrInvalidConfig, path)
	}

	s.applyDefaults()
	return s, nil
}

// Save writes the settings as TOML, or YAML for a .yaml/.yml path.
func (s *Settings) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err = enc.Encode(s); err == nil {
			err = enc.Close()
		}
		data = buf.Bytes()
	default:
		data, err = toml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return os.WriteFile(path, data, 0o644) //nolint:gosec // settings file is not secret
}

// Validate checks that every setting has a value.
func (s *Settings) Validate() error {
	var errs []error
	if s.SchemaDir == "" {
		errs = append(errs, errors.New("schema_dir is required"))
	}
	if s.Outfile == "" {
		errs = append(errs, errors.New("outfile is required"))
	}
	if s.SchemaRegistryURL == "" {
		errs = append(errs, errors.New("schema_registry_url is required"))
	}
	if s.FaustAppModelsModule == "" {
		errs = append(errs, errors.New("faust_app_models_module is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// SchemaPath returns SchemaDir resolved against dir.
func (s *Settings) SchemaPath(dir string) string {
	return resolvePath(dir, s.SchemaDir)
}

// OutfilePath returns Outfile resolved against dir.
func (s *Settings) OutfilePath(dir string) string {
	return resolvePath(dir, s.Outfile)
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func (s *Settings) applyDefaults() {
	d := Default()
	if s.SchemaDir == "" {
		s.SchemaDir = d.SchemaDir
	}
	if s.Outfile == "" {
		s.Outfile = d.Outfile
	}
	if s.SchemaRegistryURL == "" {
		s.SchemaRegistryURL = d.SchemaRegistryURL
	}
	if s.FaustAppModelsModule == "" {
		s.FaustAppModelsModule = d.FaustAppModelsModule
	}
}

func (s *Settings) applyEnv(dir string, getenv func(string) string) error {
	if getenv != nil {
		if url := getenv(EnvSchemaRegistryURL); url != "" {
			s.SchemaRegistryURL = url
			return nil
		}
	}

	env, err := godotenv.Read(filepath.Join(dir, EnvFileName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, EnvFileName, err)
	}
	if url := env[EnvSchemaRegistryURL]; url != "" {
		s.SchemaRegistryURL = url
	}
	return nil
}
