// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/generator"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/prompts"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/render"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/session"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/verify"
)

type generateOptions struct {
	verify bool
}

func runGenerate(cmd *cobra.Command, newClient verify.ClientFactory, opts *generateOptions) error {
	ctx, err := session.RequireFromCommand(cmd)
	if err != nil {
		return err
	}

	r, err := render.New()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verifyOpts := []verify.Option{verify.WithOutput(out)}
	if newClient != nil {
		verifyOpts = append(verifyOpts, verify.WithClientFactory(newClient))
	}
	g := generator.New(r, verify.New(ctx.Settings.SchemaRegistryURL, verifyOpts...))

	outfile := ctx.Settings.OutfilePath(ctx.Dir)
	if err := g.GenerateModule(ctx.Units, outfile); err != nil {
		return fmt.Errorf("failed to generate models: %w", err)
	}

	fields := []prompts.ResultField{
		{Label: "Models", Value: displayPath(ctx.Dir, outfile)},
		{Label: "Schemas", Value: strconv.Itoa(len(ctx.Units))},
	}
	if !opts.verify {
		prompts.PrintResult(out, fields, "Models generated")
		return nil
	}

	prompts.PrintResult(out, append(fields,
		prompts.ResultField{Label: "Module", Value: ctx.Settings.FaustAppModelsModule},
		prompts.ResultField{Label: "Registry", Value: ctx.Settings.SchemaRegistryURL},
	), "")
	if err := g.VerifySchemas(cmd.Context(), ctx.Units); err != nil {
		return err
	}
	prompts.PrintResult(out, nil, "Schemas verified")
	return nil
}

func displayPath(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil && filepath.IsLocal(rel) {
		return rel
	}
	return path
}
