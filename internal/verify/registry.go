// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package verify

import (
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/schemaregistry"
)

// Registry is the part of a schema registry client the verifier uses.
// schemaregistry.Client satisfies it.
type Registry interface {
	// GetID looks up schema under subject and returns its id.
	GetID(subject string, schema schemaregistry.SchemaInfo, normalize bool) (int, error)
	Close() error
}

// ClientFactory opens a registry client for one verification batch.
type ClientFactory func(url string) (Registry, error)

// NewRegistry opens a Confluent schema registry client for url.
// Each lookup is sent once; the client's retry loop is disabled.
// A "mock://" url returns an in-memory registry.
func NewRegistry(url string) (Registry, error) {
	conf := schemaregistry.NewConfig(url)
	conf.MaxRetries = 0
	client, err := schemaregistry.NewClient(conf)
	if err != nil {
		return nil, fmt.Errorf("failed to create schema registry client: %w", err)
	}
	return client, nil
}

// SubjectName returns the registry subject for a schema name.
func SubjectName(name string) string {
	return name + "-value"
}
