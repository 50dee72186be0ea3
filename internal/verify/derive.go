// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package verify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/codegen"
)

// docPlaceholder is the doc the generated models report for undocumented fields.
const docPlaceholder = "None"

// Derive rebuilds the Avro schema a generated model class reports and
// returns it as compact JSON.
//
// Records are written as type, name, fields, namespace. Fields are written
// as doc, default, name, type in the model's field order. Named types are
// defined at first use and referenced by name afterwards.
func Derive(m codegen.Model) (string, error) {
	tree := deriveModel(m)
	if err := avsc.Validate(tree); err != nil {
		return "", fmt.Errorf("derived schema for %s: %w", m.Name, err)
	}
	out, err := avsc.Compact(tree)
	if err != nil {
		return "", fmt.Errorf("derived schema for %s: %w", m.Name, err)
	}
	return string(out), nil
}

// deriver tracks the named types already defined in one schema.
type deriver struct {
	defined map[string]bool
}

func deriveModel(m codegen.Model) avsc.Object {
	d := &deriver{defined: make(map[string]bool)}

	ns := ""
	if m.Namespace != nil {
		ns = *m.Namespace
	}
	d.defined[qualify(m.Name, ns)] = true

	fields := make([]any, 0, len(m.Fields))
	for _, f := range m.Fields {
		fields = append(fields, derivedField(f.Name, f.Doc, f.Default, f.HasDefault, d.node(f.Schema, ns)))
	}

	record := avsc.NewObject()
	record.Set("type", "record")
	record.Set("name", m.Name)
	record.Set("fields", fields)
	if m.Namespace != nil {
		record.Set("namespace", *m.Namespace)
	}
	return record
}

func derivedField(name string, doc *string, def any, hasDefault bool, typ any) avsc.Object {
	f := avsc.NewObject()
	if doc != nil {
		f.Set("doc", *doc)
	} else {
		f.Set("doc", docPlaceholder)
	}
	if hasDefault {
		f.Set("default", def)
	}
	f.Set("name", name)
	f.Set("type", typ)
	return f
}

func (d *deriver) node(node any, ns string) any {
	switch t := node.(type) {
	case []any:
		out := make([]any, len(t))
		for i, branch := range t {
			out[i] = d.node(branch, ns)
		}
		return out
	case avsc.Object:
		return d.object(t, ns)
	default:
		return node
	}
}

func (d *deriver) object(obj avsc.Object, ns string) any {
	typeNode, _ := obj.Get("type")
	typ, ok := typeNode.(string)
	if !ok {
		return d.node(typeNode, ns)
	}

	switch typ {
	case "record", "enum":
		name, _ := avsc.String(obj, "name")
		declared, hasNS := avsc.String(obj, "namespace")
		if hasNS {
			ns = declared
		}
		full := qualify(name, ns)
		if d.defined[full] {
			if hasNS {
				return full
			}
			return name
		}
		d.defined[full] = true
		if typ == "enum" {
			return derivedEnum(obj, name, declared, hasNS)
		}
		return d.record(obj, name, ns, declared, hasNS)
	case "array":
		items, _ := obj.Get("items")
		out := avsc.NewObject()
		out.Set("type", "array")
		out.Set("items", d.node(items, ns))
		return out
	case "map":
		values, _ := obj.Get("values")
		out := avsc.NewObject()
		out.Set("type", "map")
		out.Set("values", d.node(values, ns))
		return out
	default:
		return obj
	}
}

func derivedEnum(obj avsc.Object, name, namespace string, hasNS bool) avsc.Object {
	symbols, _ := obj.Get("symbols")
	out := avsc.NewObject()
	out.Set("type", "enum")
	out.Set("name", name)
	out.Set("symbols", symbols)
	if hasNS {
		out.Set("namespace", namespace)
	}
	return out
}

// record derives a nested record from its expanded definition, ordering
// fields the same way the generated class does.
func (d *deriver) record(obj avsc.Object, name, ns, namespace string, hasNS bool) avsc.Object {
	raw, _ := obj.Get("fields")
	list, _ := raw.([]any)

	type entry struct {
		obj        avsc.Object
		hasDefault bool
	}
	entries := make([]entry, 0, len(list))
	for _, f := range list {
		fo, ok := f.(avsc.Object)
		if !ok {
			continue
		}
		_, hasDefault := fo.Get("default")
		entries = append(entries, entry{obj: fo, hasDefault: hasDefault})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return !entries[i].hasDefault && entries[j].hasDefault
	})

	fields := make([]any, 0, len(entries))
	for _, e := range entries {
		fname, _ := avsc.String(e.obj, "name")
		var doc *string
		if s, ok := avsc.String(e.obj, "doc"); ok {
			doc = &s
		}
		def, _ := e.obj.Get("default")
		typ, _ := e.obj.Get("type")
		fields = append(fields, derivedField(fname, doc, def, e.hasDefault, d.node(typ, ns)))
	}

	out := avsc.NewObject()
	out.Set("type", "record")
	out.Set("name", name)
	out.Set("fields", fields)
	if hasNS {
		out.Set("namespace", namespace)
	}
	return out
}

func qualify(name, ns string) string {
	if ns == "" || strings.Contains(name, ".") {
		return name
	}
	return ns + "." + name
}
