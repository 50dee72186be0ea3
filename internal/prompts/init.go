// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"github.com/charmbracelet/huh"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/config"
)

// RunInitForm runs the interactive form for the init command.
// Fields are prefilled from s and updated in place.
func RunInitForm(s *config.Settings) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Schema directory").
				Prompt(": ").
				Inline(true).
				Placeholder(config.DefaultSchemaDir).
				Value(&s.SchemaDir).
				Validate(requiredValidator("schema directory")),
			huh.NewInput().
				Title("Output file").
				Prompt(": ").
				Inline(true).
				Placeholder(config.DefaultOutfile).
				Value(&s.Outfile).
				Validate(requiredValidator("output file")),
			huh.NewInput().
				Title("Schema registry URL").
				Prompt(": ").
				Inline(true).
				Placeholder(config.DefaultSchemaRegistryURL).
				Value(&s.SchemaRegistryURL).
				Validate(URLValidator),
			huh.NewInput().
				Title("Faust models module").
				Prompt(": ").
				Inline(true).
				Placeholder(config.DefaultFaustAppModelsModule).
				Value(&s.FaustAppModelsModule).
				Validate(ModuleValidator),
		),
	).WithTheme(Theme()).Run()
}
