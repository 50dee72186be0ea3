// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package avsctest provides the Avro schema fixtures shared by package tests.
package avsctest

import (
	"embed"
	"io/fs"
	"testing"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.avsc
var fixtures embed.FS

// FS returns the fixture directory as a filesystem rooted at testdata.
func FS() fs.FS {
	sub, err := fs.Sub(fixtures, "testdata")
	if err != nil {
		panic(err)
	}
	return sub
}

// Raw returns the bytes of the named fixture, e.g. "user".
func Raw(t testing.TB, name string) []byte {
	t.Helper()
	data, err := fixtures.ReadFile("testdata/" + name + ".avsc")
	require.NoError(t, err)
	return data
}

// Unit loads the named fixture as a schema unit.
func Unit(t testing.TB, name string) avsc.Unit {
	t.Helper()
	unit, err := avsc.FromFile(name, Raw(t, name))
	require.NoError(t, err)
	return unit
}

// All returns the user and blog_post units in file name order.
func All(t testing.TB) []avsc.Unit {
	t.Helper()
	return []avsc.Unit{Unit(t, "blog_post"), Unit(t, "user")}
}

// Tree decodes an inline JSON document, failing the test on error.
func Tree(t testing.TB, doc string) any {
	t.Helper()
	tree, err := avsc.Decode([]byte(doc))
	require.NoError(t, err)
	return tree
}
