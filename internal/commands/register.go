// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/session"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/verify"
)

// NewRootCmd creates and returns the root command for the CLI.
// getenv supplies environment overrides and newClient opens the schema
// registry client used by --verify.
func NewRootCmd(getenv func(string) string, newClient verify.ClientFactory) *cobra.Command {
	opts := &generateOptions{}

	rootCmd := &cobra.Command{
		Use:   "faust-avro-codegen",
		Short: "Generate Faust models from Avro schemas",
		Long: `Generate a Python module of Faust models from the Avro schemas in schema_dir.

Settings are read from the [tool.faust_avro_code_gen] table of pyproject.toml,
then faust_avro_code_gen.toml, then faust_avro_code_gen.yaml. The schema
registry URL can be overridden with FAUST_AVRO_CODE_GEN_SCHEMA_REGISTRY_URL.`,
		Example: `  # Generate models
  faust-avro-codegen

  # Generate models and check them against the schema registry
  faust-avro-codegen --verify`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE:       session.PreRunLoad(getenv),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, newClient, opts)
		},
	}

	rootCmd.Flags().BoolVarP(&opts.verify, "verify", "v", false, "Verify generated models against the schema registry")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
