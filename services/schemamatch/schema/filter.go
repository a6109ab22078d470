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

import "fmt"

// EntityFilter is one validated property condition on an entity type,
// ready for a downstream query generator.
//
// EntityFilters are only produced by the filter validator; a filter in the
// wild therefore always references the property by its canonical schema
// name with a value already narrowed to the property's data type.
type EntityFilter struct {
	// EntityTypeID identifies the entity type the filter applies to.
	EntityTypeID string `json:"entity_type_id"`

	// PropertyName is the canonical schema name of the property,
	// never the caller's raw text.
	PropertyName string `json:"property_name"`

	// Operator is the comparison to apply.
	Operator Operator `json:"operator"`

	// Value is the comparison value, narrowed to the property's data type.
	// Absent for is_null.
	Value Value `json:"value"`

	// OutOfObservedRange marks a comparison value falling entirely outside
	// the property's observed range. Ranges are advisory, so the filter is
	// still valid; the flag exists for caller visibility.
	OutOfObservedRange bool `json:"out_of_observed_range,omitempty"`
}

// String renders the filter for logs and error messages.
func (f *EntityFilter) String() string {
	suffix := ""
	if f.OutOfObservedRange {
		suffix = " (out of observed range)"
	}
	return fmt.Sprintf("%s.%s %s %s%s", f.EntityTypeID, f.PropertyName, f.Operator, f.Value, suffix)
}
