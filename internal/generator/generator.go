// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package generator wires translation, rendering and verification together.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/codegen"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/verify"
)

// Renderer renders a codegen value to text.
type Renderer interface {
	Render(v any) (string, error)
}

// Verifier checks generated models against a schema registry.
type Verifier interface {
	Verify(ctx context.Context, subjects []verify.Subject) error
}

// Generator produces the models module and verifies its schemas.
type Generator struct {
	renderer Renderer
	verifier Verifier
}

// New creates a Generator.
func New(renderer Renderer, verifier Verifier) *Generator {
	return &Generator{renderer: renderer, verifier: verifier}
}

// Build translates every unit and folds the results in unit order.
func (g *Generator) Build(units []avsc.Unit) (codegen.Result, error) {
	results := make([]codegen.Result, 0, len(units))
	for _, unit := range units {
		res, err := codegen.Translate(unit)
		if err != nil {
			return codegen.Result{}, err
		}
		results = append(results, res)
	}
	return codegen.Fold(results...), nil
}

// GenerateModule renders all units into one Python module at outfile.
// The file is replaced atomically; on error any previous file is left as is.
func (g *Generator) GenerateModule(units []avsc.Unit, outfile string) error {
	res, err := g.Build(units)
	if err != nil {
		return err
	}

	text, err := g.renderer.Render(res)
	if err != nil {
		return fmt.Errorf("failed to render module: %w", err)
	}

	return writeFileAtomic(outfile, []byte(text))
}

// VerifySchemas verifies the model generated for each unit's top-level record.
func (g *Generator) VerifySchemas(ctx context.Context, units []avsc.Unit) error {
	subjects := make([]verify.Subject, 0, len(units))
	for _, unit := range units {
		res, err := codegen.Translate(unit)
		if err != nil {
			return err
		}
		name, _ := unit.RecordName()
		m, ok := res.Class(name)
		if !ok {
			return fmt.Errorf("%w: %s: no model for record %q", codegen.ErrUnsupportedSchema, unit.Name, name)
		}
		subjects = append(subjects, verify.Subject{Name: unit.Name, Model: m})
	}
	return g.verifier.Verify(ctx, subjects)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // generated source is world readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
