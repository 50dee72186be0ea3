// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/config"
)

var (
	// ErrInvalidConfig indicates a settings file exists but is invalid.
	ErrInvalidConfig = config.ErrInvalidConfig

	// ErrSchemaDirNotFound indicates the configured schema_dir doesn't exist.
	ErrSchemaDirNotFound = errors.New("schema directory not found")

	// ErrInvalidSchema indicates a schema file couldn't be loaded.
	ErrInvalidSchema = errors.New("invalid schema file")
)

// SchemaPattern matches the schema files inside schema_dir.
const SchemaPattern = "*.avsc"

// contextKey is used to store Context in context.Context.
type contextKey struct{}

// Context holds the resolved settings and the loaded schema units.
type Context struct {
	// Dir is the project directory settings were resolved from.
	Dir string

	// Settings is the resolved configuration.
	Settings *config.Settings

	// Source is the settings file used, empty when defaults apply.
	Source string

	// Units are the schema files in schema_dir, sorted by file name.
	Units []avsc.Unit
}

// Load resolves settings for dir, loads every schema unit and returns a
// new context.Context with the session Context stored in it.
func Load(ctx context.Context, dir string, getenv func(string) string) (context.Context, error) {
	settings, source, err := config.Resolve(dir, getenv)
	if err != nil {
		return nil, invalidConfig(err)
	}
	if err := settings.Validate(); err != nil {
		return nil, invalidConfig(err)
	}

	schemaDir := settings.SchemaPath(dir)
	info, err := os.Stat(schemaDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSchemaDirNotFound, schemaDir)
	}

	units, err := avsc.LoadDir(os.DirFS(schemaDir), SchemaPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	sessCtx := &Context{
		Dir:      dir,
		Settings: settings,
		Source:   source,
		Units:    units,
	}

	return context.WithValue(ctx, contextKey{}, sessCtx), nil
}

func invalidConfig(err error) error {
	if errors.Is(err, ErrInvalidConfig) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
}

// From extracts the session Context from a context.Context.
// Returns nil if no Context is stored.
func From(ctx context.Context) *Context {
	if sessCtx, ok := ctx.Value(contextKey{}).(*Context); ok {
		return sessCtx
	}
	return nil
}
