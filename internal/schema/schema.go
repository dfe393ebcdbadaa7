// Package schema reflects Go input structs into Anthropic tool input schemas.
package schema

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/invopop/jsonschema"
)

// Generate produces an anthropic.ToolInputSchemaParam from a Go struct type T,
// using its json and jsonschema struct tags.
func Generate[T any]() anthropic.ToolInputSchemaParam {
	var zero T
	reflected := jsonschema.Reflect(&zero)
	root := resolveRoot(reflected)

	return anthropic.ToolInputSchemaParam{
		Properties: propertyMap(root),
		Required:   root.Required,
	}
}

// resolveRoot follows the $ref/$defs indirection invopop/jsonschema wraps
// around the reflected type and returns the object schema itself.
func resolveRoot(s *jsonschema.Schema) *jsonschema.Schema {
	if s.Ref == "" || s.Definitions == nil {
		return s
	}
	for _, def := range s.Definitions {
		if def.Type == "object" {
			return def
		}
	}
	return s
}

// propertyMap flattens an object schema's ordered properties into the plain
// map[string]any shape the Anthropic API expects.
func propertyMap(s *jsonschema.Schema) map[string]any {
	if s.Properties == nil {
		return nil
	}
	props := make(map[string]any)
	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		props[pair.Key] = fieldSchema(pair.Value)
	}
	return props
}

// fieldSchema converts one property schema into a serializable map,
// recursing into nested objects and array items.
func fieldSchema(s *jsonschema.Schema) map[string]any {
	m := make(map[string]any)

	if s.Type != "" {
		m["type"] = s.Type
	}
	if s.Description != "" {
		m["description"] = s.Description
	}
	if s.Default != nil {
		m["default"] = s.Default
	}
	if len(s.Enum) > 0 {
		m["enum"] = s.Enum
	}

	// Pointer fields reflect as anyOf [T, null]; surface the non-null type.
	for _, sub := range s.AnyOf {
		if sub.Type != "null" && sub.Type != "" {
			m["type"] = sub.Type
			break
		}
	}

	if s.Properties != nil {
		m["type"] = "object"
		m["properties"] = propertyMap(s)
		if len(s.Required) > 0 {
			m["required"] = s.Required
		}
	}

	if s.Items != nil {
		m["items"] = fieldSchema(s.Items)
	}

	return m
}
