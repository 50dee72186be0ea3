// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package verify checks generated models against a schema registry.
package verify

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/codegen"
)

// ErrSchemaNotVerifiable indicates the registry rejected one or more schemas.
var ErrSchemaNotVerifiable = errors.New("schema not verifiable")

// Subject pairs a schema name with the model generated for it.
type Subject struct {
	Name  string
	Model codegen.Model
}

// Verifier submits derived model schemas to a schema registry.
type Verifier struct {
	url       string
	newClient ClientFactory
	out       io.Writer
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClientFactory replaces the Confluent client used by default.
func WithClientFactory(f ClientFactory) Option {
	return func(v *Verifier) {
		v.newClient = f
	}
}

// WithOutput sets where per-subject results are printed.
func WithOutput(w io.Writer) Option {
	return func(v *Verifier) {
		v.out = w
	}
}

// New returns a Verifier for the registry at registryURL.
func New(registryURL string, opts ...Option) *Verifier {
	v := &Verifier{
		url:       registryURL,
		newClient: NewRegistry,
		out:       io.Discard,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// URL returns the registry base URL.
func (v *Verifier) URL() string {
	return v.url
}

// Verify looks up every subject's derived schema in the registry.
// All subjects are attempted. If any fail, the returned error wraps
// ErrSchemaNotVerifiable together with each failure.
func (v *Verifier) Verify(ctx context.Context, subjects []Subject) (err error) {
	client, err := v.newClient(v.url)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaNotVerifiable, err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close schema registry client: %w", closeErr)
		}
	}()

	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#27ca3f")).Render("✓")
	fail := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f56")).Render("✗")

	var failures []error
	for _, s := range subjects {
		if ctxErr := ctx.Err(); ctxErr != nil {
			failures = append(failures, ctxErr)
			break
		}

		if subjectErr := v.verifyOne(client, s); subjectErr != nil {
			fmt.Fprintf(v.out, "%s %v\n", fail, subjectErr)
			failures = append(failures, subjectErr)
			continue
		}
		fmt.Fprintf(v.out, "%s %s\n", ok, SubjectName(s.Name))
	}

	if len(failures) > 0 {
		return errors.Join(append([]error{ErrSchemaNotVerifiable}, failures...)...)
	}
	return nil
}

func (v *Verifier) verifyOne(client Registry, s Subject) error {
	schema, err := Derive(s.Model)
	if err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	subject := SubjectName(s.Name)
	if _, err := client.GetID(subject, schemaregistry.SchemaInfo{Schema: schema}, false); err != nil {
		return fmt.Errorf("%s: %w", subject, err)
	}
	return nil
}
