// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/config"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/prompts"
)

type initOptions struct {
	settings       config.Settings
	format         string
	nonInteractive bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a faust_avro_code_gen settings file",
		Long: `Create a faust_avro_code_gen.toml (or .yaml) settings file in the current directory.
Projects that keep settings in pyproject.toml can skip this and add a
[tool.faust_avro_code_gen] table instead.`,
		Example: `  # Interactive mode
  faust-avro-codegen init

  # Non-interactive
  faust-avro-codegen init --schema-dir avro --outfile app/models.py --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.settings.SchemaDir, "schema-dir", "s", config.DefaultSchemaDir, "Directory holding *.avsc files")
	cmd.Flags().StringVarP(&opts.settings.Outfile, "outfile", "o", config.DefaultOutfile, "Generated Python module")
	cmd.Flags().StringVarP(&opts.settings.SchemaRegistryURL, "schema-registry-url", "r", config.DefaultSchemaRegistryURL, "Schema registry URL")
	cmd.Flags().StringVarP(&opts.settings.FaustAppModelsModule, "module", "m", config.DefaultFaustAppModelsModule, "Python module of the Faust app models")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "toml", "Settings file format (toml or yaml)")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	var name string
	switch opts.format {
	case "toml":
		name = config.FileName
	case "yaml":
		name = "faust_avro_code_gen.yaml"
	default:
		return fmt.Errorf("unsupported format %q (use toml or yaml)", opts.format)
	}

	path := filepath.Join(cwd, name)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists; project already initialized", name)
	}

	s := opts.settings
	if !opts.nonInteractive {
		if err := prompts.RunInitForm(&s); err != nil {
			return err
		}
	}

	if err := s.Validate(); err != nil {
		return err
	}
	if err := errors.Join(
		prompts.URLValidator(s.SchemaRegistryURL),
		prompts.ModuleValidator(s.FaustAppModelsModule),
	); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	if err := s.Save(path); err != nil {
		return fmt.Errorf("%s couldn't be saved: %w", name, err)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Settings", Value: name},
		{Label: "Schema directory", Value: s.SchemaDir},
		{Label: "Output file", Value: s.Outfile},
	}, "Initialization completed")
	return nil
}
