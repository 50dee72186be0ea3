// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package render turns code generation results into Python source text.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"text/template"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/codegen"
	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/version"
)

//go:embed templates/*.tmpl
var tmplFS embed.FS

// ErrUnrenderable indicates a value the renderer has no template for.
var ErrUnrenderable = errors.New("unrenderable value")

// docPlaceholder is written when a field has no doc.
const docPlaceholder = "None"

// Renderer renders codegen values through embedded templates.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(tmplFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render renders an Enum, Model or Result, by value or by pointer.
func (r *Renderer) Render(v any) (string, error) {
	switch t := v.(type) {
	case codegen.Enum:
		return r.execute("enum", t)
	case *codegen.Enum:
		if t != nil {
			return r.Render(*t)
		}
	case codegen.Model:
		return r.renderModel(t)
	case *codegen.Model:
		if t != nil {
			return r.Render(*t)
		}
	case codegen.Result:
		return r.renderResult(t)
	case *codegen.Result:
		if t != nil {
			return r.Render(*t)
		}
	}
	return "", fmt.Errorf("%w: %T", ErrUnrenderable, v)
}

type fieldView struct {
	Name  string
	Type  string
	Value string
}

type modelView struct {
	Name      string
	Fields    []fieldView
	Example   string
	Namespace string
}

type resultView struct {
	Generator    string
	Dependencies []string
	Classes      []string
}

func (r *Renderer) renderModel(m codegen.Model) (string, error) {
	view := modelView{
		Name:   m.Name,
		Fields: make([]fieldView, 0, len(m.Fields)),
	}
	for _, f := range m.Fields {
		value, err := fieldValue(f)
		if err != nil {
			return "", fmt.Errorf("model %s: field %q: %w", m.Name, f.Name, err)
		}
		view.Fields = append(view.Fields, fieldView{Name: f.Name, Type: f.Type, Value: value})
	}
	if m.Example != nil {
		example, err := avsc.Compact(m.Example)
		if err != nil {
			return "", fmt.Errorf("model %s: example: %w", m.Name, err)
		}
		view.Example = "# example: " + string(example)
	}
	if m.Namespace != nil {
		view.Namespace = strconv.Quote(*m.Namespace)
	}
	return r.execute("model", view)
}

func (r *Renderer) renderResult(res codegen.Result) (string, error) {
	view := resultView{
		Generator:    version.Generator,
		Dependencies: make([]string, 0, len(res.Dependencies)),
		Classes:      make([]string, 0, len(res.Classes)),
	}
	for _, dep := range res.Dependencies {
		out, err := r.Render(dep)
		if err != nil {
			return "", err
		}
		view.Dependencies = append(view.Dependencies, out)
	}
	for _, class := range res.Classes {
		out, err := r.Render(class)
		if err != nil {
			return "", err
		}
		view.Classes = append(view.Classes, out)
	}
	return r.execute("result", view)
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// fieldValue renders the right-hand side of a dataclass field declaration.
func fieldValue(f codegen.Field) (string, error) {
	doc := docPlaceholder
	if f.Doc != nil {
		doc = *f.Doc
	}
	metadata := `{"doc": ` + strconv.Quote(doc)

	if !f.HasDefault {
		return "field(metadata=" + metadata + "})", nil
	}

	lit, err := pyLiteral(f.Default)
	if err != nil {
		return "", err
	}
	metadata += `, "default": ` + lit + "}"

	switch f.Default.(type) {
	case []any, avsc.Object:
		// mutable defaults must go through a factory
		return "field(metadata=" + metadata + ", default_factory=lambda: " + lit + ")", nil
	default:
		return "field(metadata=" + metadata + ", default=" + lit + ")", nil
	}
}
