// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/commands"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/verify"
)

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, arguments, env lookup).
func Run(ctx context.Context, args []string, getenv func(string) string) error {
	rootCmd := commands.NewRootCmd(getenv, verify.NewRegistry)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
