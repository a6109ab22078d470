// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package schema

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/weaviate/weaviate/entities/models"
)

// weaviatePrimitives maps Weaviate primitive data types onto the closed
// DataType set. Weaviate "date" carries a full RFC 3339 timestamp, so it
// maps to datetime; "uuid" has no counterpart and degrades to string.
var weaviatePrimitives = map[string]DataType{
	"text":    DataTypeString,
	"string":  DataTypeString,
	"int":     DataTypeInteger,
	"number":  DataTypeFloat,
	"boolean": DataTypeBoolean,
	"date":    DataTypeDateTime,
	"uuid":    DataTypeString,
}

// weaviateOptions collects the optional enrichments the discovery layer can
// supply alongside a schema dump.
type weaviateOptions struct {
	counts   map[string]int64
	ranges   map[string]map[string]Range
	patterns []SuggestedPattern
}

// WeaviateOption configures FromWeaviateSchema.
type WeaviateOption func(*weaviateOptions)

// WithClassCounts supplies per-class object counts (from an Aggregate
// query) as cardinality hints. Classes absent from the map get
// CountUnknown.
func WithClassCounts(counts map[string]int64) WeaviateOption {
	return func(o *weaviateOptions) {
		o.counts = counts
	}
}

// WithPropertyRanges supplies observed min/max per class and property
// (outer key: class name, inner key: property name). Ranges attach only to
// ordered property types.
func WithPropertyRanges(ranges map[string]map[string]Range) WeaviateOption {
	return func(o *weaviateOptions) {
		o.ranges = ranges
	}
}

// WithSuggestedPatterns supplies advisory traversal patterns to carry into
// the schema.
func WithSuggestedPatterns(patterns []SuggestedPattern) WeaviateOption {
	return func(o *weaviateOptions) {
		o.patterns = patterns
	}
}

// FromWeaviateSchema converts a Weaviate schema dump into a GraphSchema.
//
// Description:
//
//	Each class becomes an entity type (id = class name). Primitive
//	properties become typed PropertyInfo entries; array and non-filterable
//	types (blob, geoCoordinates, phoneNumber) are dropped. Cross-reference
//	properties, whose DataType lists class names instead of a primitive,
//	become directed relationship types: from the owning class to every
//	referenced class. When several classes declare a reference property
//	with the same name, the relationships merge into one type with the
//	union of from-labels and to-labels, in declaration order.
//
//	The dump is trusted to be internally consistent, as the schema
//	endpoint returns it; only structurally unusable input (nil schema,
//	class without a name) is rejected.
//
// Inputs:
//
//	ws - the schema dump as returned by the Weaviate schema endpoint.
//	opts - optional enrichments from the discovery layer.
//
// Outputs:
//
//	*GraphSchema - the frozen schema.
//	error - wraps ErrInvalidSchema on unusable input.
func FromWeaviateSchema(ws *models.Schema, opts ...WeaviateOption) (*GraphSchema, error) {
	if ws == nil {
		return nil, fmt.Errorf("%w: nil weaviate schema", ErrInvalidSchema)
	}

	var options weaviateOptions
	for _, opt := range opts {
		opt(&options)
	}

	var entities []*EntityType
	var relationships []*RelationshipType
	relationshipIndex := make(map[string]*RelationshipType)

	for _, class := range ws.Classes {
		if class == nil {
			continue
		}
		if class.Class == "" {
			return nil, fmt.Errorf("%w: class with empty name", ErrInvalidSchema)
		}

		entity := &EntityType{
			ID:          class.Class,
			Name:        class.Class,
			Description: class.Description,
			Count:       CountUnknown,
		}
		if count, ok := options.counts[class.Class]; ok {
			entity.Count = count
		}

		for _, prop := range class.Properties {
			if prop == nil || prop.Name == "" || len(prop.DataType) == 0 {
				continue
			}

			if refs, isRef := referencedClasses(prop.DataType); isRef {
				rel, seen := relationshipIndex[prop.Name]
				if !seen {
					rel = &RelationshipType{
						Name:        prop.Name,
						Description: prop.Description,
					}
					relationshipIndex[prop.Name] = rel
					relationships = append(relationships, rel)
				}
				rel.FromLabels = appendUnique(rel.FromLabels, class.Class)
				for _, ref := range refs {
					rel.ToLabels = appendUnique(rel.ToLabels, ref)
				}
				continue
			}

			dt, ok := weaviatePrimitives[prop.DataType[0]]
			if !ok {
				// blob, geoCoordinates, phoneNumber, array types: not filterable.
				continue
			}

			info := PropertyInfo{
				Name:        prop.Name,
				Description: prop.Description,
				DataType:    dt,
			}
			if dt.Ordered() {
				if r, ok := options.ranges[class.Class][prop.Name]; ok {
					info.Range = &r
				}
			}
			entity.Properties = append(entity.Properties, info)
		}

		entities = append(entities, entity)
	}

	return NewGraphSchema(entities, relationships, options.patterns)
}

// referencedClasses reports whether a property DataType is a cross-reference
// and returns the referenced class names. Weaviate encodes references as a
// list of class names, each starting with an uppercase letter; primitives
// are a single lowercase type name.
func referencedClasses(dataType []string) ([]string, bool) {
	if len(dataType) == 0 {
		return nil, false
	}
	for _, dt := range dataType {
		if dt == "" || !startsUpper(dt) || strings.HasSuffix(dt, "[]") {
			return nil, false
		}
	}
	return dataType, true
}

// startsUpper reports whether the first rune of s is uppercase.
func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}

// appendUnique appends s to labels unless already present, preserving order.
func appendUnique(labels []string, s string) []string {
	for _, l := range labels {
		if l == s {
			return labels
		}
	}
	return append(labels, s)
}
