// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package avsc

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hamba/avro/v2"
)

// ErrInvalidSchema indicates a document that is not a valid Avro schema.
var ErrInvalidSchema = errors.New("invalid Avro schema")

// Unit is one named Avro schema document, usually one .avsc file.
type Unit struct {
	Name   string // file stem, e.g. "user"
	Schema any    // decoded document
}

// FromFile builds a Unit from a file stem and the file's contents.
func FromFile(stem string, data []byte) (Unit, error) {
	tree, err := Decode(data)
	if err != nil {
		return Unit{}, fmt.Errorf("%w: %s: %v", ErrInvalidSchema, stem, err)
	}
	return Unit{Name: stem, Schema: tree}, nil
}

// RecordName returns the short name of the unit's top-level record, if it
// has one. A full name such as "example.avro.User" yields "User".
func (u Unit) RecordName() (string, bool) {
	obj, ok := u.Schema.(Object)
	if !ok {
		return "", false
	}
	name, ok := String(obj, "name")
	if !ok {
		return "", false
	}
	return name[strings.LastIndex(name, ".")+1:], true
}

// Validate checks that the schema tree is a well-formed Avro schema.
// Every call parses with its own cache so units never see each other's names.
func Validate(tree any) error {
	doc, err := Compact(tree)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if _, err := avro.ParseWithCache(string(doc), "", &avro.SchemaCache{}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return nil
}

// LoadDir reads every file in fsys matching pattern (e.g. "*.avsc") as a Unit.
// Units are returned sorted by file name and validated.
func LoadDir(fsys fs.FS, pattern string) ([]Unit, error) {
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid schema pattern %q: %w", pattern, err)
	}

	units := make([]Unit, 0, len(matches))
	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		base := path.Base(name)
		unit, err := FromFile(strings.TrimSuffix(base, path.Ext(base)), data)
		if err != nil {
			return nil, err
		}
		if err := Validate(unit.Schema); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		units = append(units, unit)
	}
	return units, nil
}
