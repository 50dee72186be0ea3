// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package codegen

import (
	"slices"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Field is one attribute of a generated model.
type Field struct {
	Name       string  // Avro field name
	Type       string  // target type expression, e.g. "typing.List[Color]"
	Doc        *string // nil when the schema has no doc
	Default    any     // raw default value from the schema, kept verbatim
	HasDefault bool    // true if the schema carries a "default" key, even a null one
	Schema     any     // Avro type of the field with named types expanded
}

// Model is a generated class for one Avro record.
type Model struct {
	Name      string
	Namespace *string
	Example   any
	Fields    []Field
}

// Enum is an auxiliary class generated for one Avro enum.
type Enum struct {
	Name   string
	Values []string
}

// Result is everything generated from one or more schema units.
//
// Results form a monoid under Combine with Empty as the identity, so
// per-file results can be folded into one in any grouping.
type Result struct {
	Classes      []Model
	Dependencies []Enum
	Schemas      *orderedmap.OrderedMap[string, any] // schema unit name -> normalized tree
}

// Empty returns the identity Result.
func Empty() Result {
	return Result{Schemas: orderedmap.New[string, any]()}
}

// Combine concatenates classes and dependencies and merges schemas.
// On a schema name collision b's tree wins; the name keeps a's position.
func Combine(a, b Result) Result {
	schemas := orderedmap.New[string, any]()
	for _, m := range []*orderedmap.OrderedMap[string, any]{a.Schemas, b.Schemas} {
		if m == nil {
			continue
		}
		for pair := m.Oldest(); pair != nil; pair = pair.Next() {
			schemas.Set(pair.Key, pair.Value)
		}
	}

	return Result{
		Classes:      slices.Concat(a.Classes, b.Classes),
		Dependencies: slices.Concat(a.Dependencies, b.Dependencies),
		Schemas:      schemas,
	}
}

// Add returns Combine(r, other).
func (r Result) Add(other Result) Result {
	return Combine(r, other)
}

// Fold combines results left to right starting from Empty.
func Fold(results ...Result) Result {
	acc := Empty()
	for _, r := range results {
		acc = Combine(acc, r)
	}
	return acc
}

// SchemaNames returns the schema unit names in insertion order.
func (r Result) SchemaNames() []string {
	if r.Schemas == nil {
		return nil
	}
	names := make([]string, 0, r.Schemas.Len())
	for pair := r.Schemas.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Class returns the model with the given name.
func (r Result) Class(name string) (Model, bool) {
	for _, m := range r.Classes {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

func withClass(m Model) Result {
	r := Empty()
	r.Classes = []Model{m}
	return r
}

func withDependency(e Enum) Result {
	r := Empty()
	r.Dependencies = []Enum{e}
	return r
}

func withSchema(name string, tree any) Result {
	r := Empty()
	r.Schemas.Set(name, tree)
	return r
}
