// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package codegen translates Avro schema units into model declarations.
package codegen

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc"
)

// ErrUnsupportedSchema indicates an Avro construct the translator does not model.
var ErrUnsupportedSchema = errors.New("unsupported schema construct")

// namedType is a record or enum defined earlier in the same unit.
type namedType struct {
	name   string // short name
	schema any    // expanded definition, or the name while the record is still open
}

// open reports whether the record is still being translated.
func (n *namedType) open() bool {
	_, ok := n.schema.(string)
	return ok
}

// translateContext holds mutable state while translating one unit.
type translateContext struct {
	resolver TypeResolver
	named    map[string]*namedType // keyed by full name
	enums    map[string]bool       // short names already lifted into dependencies
}

// Translate converts a schema unit into Python model declarations.
func Translate(unit avsc.Unit) (Result, error) {
	return TranslateWith(unit, PythonResolver{})
}

// TranslateWith converts a schema unit using the given resolver.
// The unit's top-level schema must be a record.
func TranslateWith(unit avsc.Unit, resolver TypeResolver) (Result, error) {
	root, ok := unit.Schema.(avsc.Object)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s: top-level schema must be a record", ErrUnsupportedSchema, unit.Name)
	}
	if typ, _ := avsc.String(root, "type"); typ != "record" {
		return Result{}, fmt.Errorf("%w: %s: top-level schema must be a record, got %q", ErrUnsupportedSchema, unit.Name, typ)
	}

	ctx := &translateContext{
		resolver: resolver,
		named:    make(map[string]*namedType),
		enums:    make(map[string]bool),
	}

	res, _, _, err := ctx.record(root, "")
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", unit.Name, err)
	}

	return res.Add(withSchema(unit.Name, avsc.Normalize(unit.Schema))), nil
}

// record emits the models for a record and everything nested in its fields.
// Nested models come before the record that uses them.
func (c *translateContext) record(obj avsc.Object, enclosingNS string) (Result, string, any, error) {
	name, ok := avsc.String(obj, "name")
	if !ok || name == "" {
		return Result{}, "", nil, fmt.Errorf("%w: record without a name", ErrUnsupportedSchema)
	}

	ns := enclosingNS
	if declared, ok := avsc.String(obj, "namespace"); ok {
		ns = declared
	}
	short, full := splitName(name, ns)
	if i := strings.LastIndex(full, "."); i >= 0 {
		ns = full[:i]
	}
	var namespace *string
	if ns != "" {
		namespace = &ns
	}

	def := &namedType{name: short, schema: full}
	c.named[full] = def

	rawFields, _ := obj.Get("fields")
	fieldList, ok := rawFields.([]any)
	if !ok {
		return Result{}, "", nil, fmt.Errorf("%w: record %q has no fields list", ErrUnsupportedSchema, name)
	}

	acc := Empty()
	fields := make([]Field, 0, len(fieldList))
	expandedFields := make([]any, 0, len(fieldList))
	for _, raw := range fieldList {
		fieldObj, ok := raw.(avsc.Object)
		if !ok {
			return Result{}, "", nil, fmt.Errorf("%w: record %q has a malformed field", ErrUnsupportedSchema, name)
		}
		f, nested, expanded, err := c.field(fieldObj, ns)
		if err != nil {
			return Result{}, "", nil, fmt.Errorf("record %q: %w", name, err)
		}
		acc = acc.Add(nested)
		fields = append(fields, f)
		expandedFields = append(expandedFields, expanded)
	}

	// dataclasses require fields without defaults to come first.
	sort.SliceStable(fields, func(i, j int) bool {
		return !fields[i].HasDefault && fields[j].HasDefault
	})

	model := Model{
		Name:      short,
		Namespace: namespace,
		Fields:    fields,
	}
	if example, ok := obj.Get("example"); ok {
		model.Example = example
	}

	expanded := avsc.NewObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == "fields" {
			expanded.Set("fields", expandedFields)
			continue
		}
		expanded.Set(pair.Key, pair.Value)
	}
	def.schema = expanded

	return acc.Add(withClass(model)), c.resolver.NamedType(short), expanded, nil
}

// field translates one record field. The returned expanded value is the
// field object with its type expanded.
func (c *translateContext) field(obj avsc.Object, ns string) (Field, Result, any, error) {
	name, ok := avsc.String(obj, "name")
	if !ok {
		return Field{}, Result{}, nil, fmt.Errorf("%w: field without a name", ErrUnsupportedSchema)
	}
	typeNode, ok := obj.Get("type")
	if !ok {
		return Field{}, Result{}, nil, fmt.Errorf("%w: field %q has no type", ErrUnsupportedSchema, name)
	}

	res, typ, schema, err := c.resolve(typeNode, ns)
	if err != nil {
		return Field{}, Result{}, nil, fmt.Errorf("field %q: %w", name, err)
	}

	f := Field{
		Name:   name,
		Type:   typ,
		Schema: schema,
	}
	if doc, ok := avsc.String(obj, "doc"); ok {
		f.Doc = &doc
	}
	if def, ok := obj.Get("default"); ok {
		f.HasDefault = true
		f.Default = def
	}

	expanded := avsc.NewObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == "type" {
			expanded.Set("type", schema)
			continue
		}
		expanded.Set(pair.Key, pair.Value)
	}

	return f, res, expanded, nil
}

// resolve maps any Avro type node to a target type string.
func (c *translateContext) resolve(node any, ns string) (Result, string, any, error) {
	switch t := node.(type) {
	case string:
		if typ, ok := c.resolver.PrimitiveType(t, ""); ok {
			return Empty(), typ, t, nil
		}
		if def, ok := c.lookup(t, ns); ok {
			if def.open() {
				return Empty(), c.resolver.ForwardType(def.name), def.schema, nil
			}
			return Empty(), c.resolver.NamedType(def.name), def.schema, nil
		}
		return Result{}, "", nil, fmt.Errorf("%w: type %q", ErrUnsupportedSchema, t)
	case []any:
		return c.union(t, ns)
	case avsc.Object:
		return c.complex(t, ns)
	default:
		return Result{}, "", nil, fmt.Errorf("%w: type node %v", ErrUnsupportedSchema, node)
	}
}

func (c *translateContext) complex(obj avsc.Object, ns string) (Result, string, any, error) {
	typeNode, ok := obj.Get("type")
	if !ok {
		return Result{}, "", nil, fmt.Errorf("%w: type object without \"type\"", ErrUnsupportedSchema)
	}
	typ, ok := typeNode.(string)
	if !ok {
		return c.resolve(typeNode, ns)
	}

	switch typ {
	case "record":
		return c.record(obj, ns)
	case "enum":
		return c.enum(obj, ns)
	case "array":
		items, ok := obj.Get("items")
		if !ok {
			return Result{}, "", nil, fmt.Errorf("%w: array without items", ErrUnsupportedSchema)
		}
		res, elem, schema, err := c.resolve(items, ns)
		if err != nil {
			return Result{}, "", nil, err
		}
		return res, c.resolver.ArrayType(elem), replaceKey(obj, "items", schema), nil
	case "map":
		values, ok := obj.Get("values")
		if !ok {
			return Result{}, "", nil, fmt.Errorf("%w: map without values", ErrUnsupportedSchema)
		}
		res, elem, schema, err := c.resolve(values, ns)
		if err != nil {
			return Result{}, "", nil, err
		}
		return res, c.resolver.MapType(elem), replaceKey(obj, "values", schema), nil
	}

	logical, _ := avsc.String(obj, "logicalType")
	if mapped, ok := c.resolver.PrimitiveType(typ, logical); ok {
		return Empty(), mapped, obj, nil
	}
	return Result{}, "", nil, fmt.Errorf("%w: type %q", ErrUnsupportedSchema, typ)
}

// union maps [T, "null"] and ["null", T] to the same optional type.
func (c *translateContext) union(branches []any, ns string) (Result, string, any, error) {
	if len(branches) == 2 {
		for i, b := range branches {
			if b == "null" {
				res, inner, schema, err := c.resolve(branches[1-i], ns)
				if err != nil {
					return Result{}, "", nil, err
				}
				expanded := []any{"null", "null"}
				expanded[1-i] = schema
				return res, c.resolver.OptionalType(inner), expanded, nil
			}
		}
	}
	if len(branches) == 0 {
		return Result{}, "", nil, fmt.Errorf("%w: empty union", ErrUnsupportedSchema)
	}

	acc := Empty()
	types := make([]string, 0, len(branches))
	expanded := make([]any, 0, len(branches))
	for _, b := range branches {
		res, typ, schema, err := c.resolve(b, ns)
		if err != nil {
			return Result{}, "", nil, err
		}
		acc = acc.Add(res)
		types = append(types, typ)
		expanded = append(expanded, schema)
	}
	return acc, c.resolver.UnionType(types), expanded, nil
}

// enum lifts an enum into the dependencies, once per name.
func (c *translateContext) enum(obj avsc.Object, ns string) (Result, string, any, error) {
	name, ok := avsc.String(obj, "name")
	if !ok || name == "" {
		return Result{}, "", nil, fmt.Errorf("%w: enum without a name", ErrUnsupportedSchema)
	}
	if declared, ok := avsc.String(obj, "namespace"); ok {
		ns = declared
	}
	short, full := splitName(name, ns)

	if c.enums[short] {
		if def, ok := c.named[full]; ok {
			return Empty(), c.resolver.NamedType(short), def.schema, nil
		}
		return Empty(), c.resolver.NamedType(short), obj, nil
	}

	rawSymbols, _ := obj.Get("symbols")
	list, ok := rawSymbols.([]any)
	if !ok {
		return Result{}, "", nil, fmt.Errorf("%w: enum %q has no symbols", ErrUnsupportedSchema, name)
	}
	values := make([]string, 0, len(list))
	for _, s := range list {
		sym, ok := s.(string)
		if !ok {
			return Result{}, "", nil, fmt.Errorf("%w: enum %q has a non-string symbol", ErrUnsupportedSchema, name)
		}
		values = append(values, sym)
	}

	c.enums[short] = true
	c.named[full] = &namedType{name: short, schema: obj}

	return withDependency(Enum{Name: short, Values: values}), c.resolver.NamedType(short), obj, nil
}

// lookup finds a previously defined named type by full or relative name.
func (c *translateContext) lookup(name, ns string) (*namedType, bool) {
	if !strings.Contains(name, ".") && ns != "" {
		if def, ok := c.named[ns+"."+name]; ok {
			return def, true
		}
	}
	def, ok := c.named[name]
	return def, ok
}

// splitName returns the short and full names of a named type.
func splitName(name, ns string) (string, string) {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:], name
	}
	if ns == "" {
		return name, name
	}
	return name, ns + "." + name
}

func replaceKey(obj avsc.Object, key string, value any) avsc.Object {
	out := avsc.NewObject()
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == key {
			out.Set(key, value)
			continue
		}
		out.Set(pair.Key, pair.Value)
	}
	return out
}
