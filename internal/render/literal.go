// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/bboggs-streambit/faust-avro-model-codegen/internal/avsc"
)

// pyLiteral renders a decoded JSON value as a Python literal.
func pyLiteral(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "None", nil
	case bool:
		if t {
			return "True", nil
		}
		return "False", nil
	case json.Number:
		return t.String(), nil
	case string:
		return strconv.Quote(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	case []any:
		items := make([]string, 0, len(t))
		for _, elem := range t {
			lit, err := pyLiteral(elem)
			if err != nil {
				return "", err
			}
			items = append(items, lit)
		}
		return "[" + strings.Join(items, ", ") + "]", nil
	case avsc.Object:
		items := make([]string, 0, t.Len())
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			lit, err := pyLiteral(pair.Value)
			if err != nil {
				return "", err
			}
			items = append(items, strconv.Quote(pair.Key)+": "+lit)
		}
		return "{" + strings.Join(items, ", ") + "}", nil
	default:
		return "", fmt.Errorf("%w: default value of type %T", ErrUnrenderable, v)
	}
}
