// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package avsc provides Avro schema document loading and tree utilities.
package avsc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/goccy/go-json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that remembers the order its keys were written in.
type Object = *orderedmap.OrderedMap[string, any]

// NewObject returns an empty Object.
func NewObject() Object {
	return orderedmap.New[string, any]()
}

// Decode parses a JSON document into a tree of Object, []any, string,
// json.Number, bool and nil values. Object key order is preserved.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	v, err := decodeValue(dec, tok)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if d, ok := keyTok.(json.Delim); ok && d == '}' {
				return obj, nil
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key %v", keyTok)
			}
			valTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			val, err := decodeValue(dec, valTok)
			if err != nil {
				return nil, err
			}
			obj.Set(key, val)
		}
	case '[':
		arr := []any{}
		for {
			elemTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			if d, ok := elemTok.(json.Delim); ok && d == ']' {
				return arr, nil
			}
			elem, err := decodeValue(dec, elemTok)
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

// Normalize returns a deep copy of v with every object's keys sorted.
// Array element order is kept as is.
func Normalize(v any) any {
	switch t := v.(type) {
	case Object:
		keys := make([]string, 0, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			keys = append(keys, pair.Key)
		}
		slices.Sort(keys)

		out := NewObject()
		for _, k := range keys {
			val, _ := t.Get(k)
			out.Set(k, Normalize(val))
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = Normalize(elem)
		}
		return out
	default:
		return v
	}
}

// Compact encodes v as JSON without insignificant whitespace.
// Objects are written in key insertion order and HTML characters are not escaped.
func Compact(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case Object:
		buf.WriteByte('{')
		first := true
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeScalar(buf, pair.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeValue(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case []string:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeScalar(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return writeScalar(buf, v)
	}
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	var scalar bytes.Buffer
	enc := json.NewEncoder(&scalar)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %T: %w", v, err)
	}
	buf.Write(bytes.TrimRight(scalar.Bytes(), "\n"))
	return nil
}

// String returns the string stored under key, if any.
func String(obj Object, key string) (string, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
