// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package codegen

import (
	"strconv"
	"strings"
)

// TypeResolver converts Avro types to target-language type strings.
type TypeResolver interface {
	// PrimitiveType maps an Avro primitive and optional logical type to a target type.
	// It reports false for primitives the target cannot represent.
	// Unknown logical types must fall back to the primitive.
	PrimitiveType(avroType, logicalType string) (string, bool)

	// ArrayType wraps an element type string in a collection type.
	ArrayType(elemType string) string

	// MapType wraps a value type string in a string-keyed mapping type.
	MapType(valueType string) string

	// OptionalType wraps a type for a two-branch union with null.
	OptionalType(inner string) string

	// UnionType joins the branches of any other union.
	UnionType(branches []string) string

	// NamedType returns the type string for a record or enum name.
	NamedType(name string) string

	// ForwardType returns the type string for a record referenced from
	// inside its own definition, before the class exists.
	ForwardType(name string) string
}

// PythonResolver maps Avro to dataclasses-avroschema annotations.
type PythonResolver struct{}

func (PythonResolver) PrimitiveType(avroType, logicalType string) (string, bool) {
	switch {
	case avroType == "long" && logicalType == "timestamp-millis":
		return "datetime.datetime", true
	case avroType == "int" && logicalType == "date":
		return "datetime.date", true
	case avroType == "int" && logicalType == "time-millis":
		return "datetime.time", true
	}

	switch avroType {
	case "string":
		return "str", true
	case "int":
		return "types.Int32", true
	case "long":
		return "int", true
	case "float":
		return "types.Float32", true
	case "double":
		return "float", true
	case "boolean":
		return "bool", true
	case "null":
		return "None", true
	default:
		return "", false
	}
}

func (PythonResolver) ArrayType(elemType string) string {
	return "typing.List[" + elemType + "]"
}

func (PythonResolver) MapType(valueType string) string {
	return "typing.Dict[str, " + valueType + "]"
}

func (PythonResolver) OptionalType(inner string) string {
	return "typing.Optional[" + inner + "]"
}

func (PythonResolver) UnionType(branches []string) string {
	return "typing.Union[" + strings.Join(branches, ", ") + "]"
}

func (PythonResolver) NamedType(name string) string {
	return name
}

func (PythonResolver) ForwardType(name string) string {
	return "typing.Type[" + strconv.Quote(name) + "]"
}
