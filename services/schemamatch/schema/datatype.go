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
)

// DataType is the declared type of a property value. The set is closed:
// the filter validator switches over it exhaustively.
type DataType string

const (
	// DataTypeString is free text.
	DataTypeString DataType = "string"

	// DataTypeInteger is a whole number.
	DataTypeInteger DataType = "integer"

	// DataTypeFloat is a floating-point number.
	DataTypeFloat DataType = "float"

	// DataTypeBoolean is true/false.
	DataTypeBoolean DataType = "boolean"

	// DataTypeDate is a calendar date without a time component.
	DataTypeDate DataType = "date"

	// DataTypeDateTime is a timestamp with date and time components.
	DataTypeDateTime DataType = "datetime"
)

// dataTypeAliases maps spellings seen in schema dumps and LLM output to
// canonical data types.
var dataTypeAliases = map[string]DataType{
	"string":    DataTypeString,
	"str":       DataTypeString,
	"text":      DataTypeString,
	"integer":   DataTypeInteger,
	"int":       DataTypeInteger,
	"long":      DataTypeInteger,
	"float":     DataTypeFloat,
	"double":    DataTypeFloat,
	"number":    DataTypeFloat,
	"boolean":   DataTypeBoolean,
	"bool":      DataTypeBoolean,
	"date":      DataTypeDate,
	"datetime":  DataTypeDateTime,
	"timestamp": DataTypeDateTime,
}

// ParseDataType maps a free-form type name to a canonical DataType.
// Matching is case-insensitive and accepts common aliases ("int", "text",
// "double", "timestamp", ...).
func ParseDataType(s string) (DataType, error) {
	if dt, ok := dataTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return dt, nil
	}
	return "", fmt.Errorf("unknown data type %q", s)
}

// IsValid reports whether dt is one of the canonical data types.
func (dt DataType) IsValid() bool {
	switch dt {
	case DataTypeString, DataTypeInteger, DataTypeFloat, DataTypeBoolean, DataTypeDate, DataTypeDateTime:
		return true
	default:
		return false
	}
}

// Ordered reports whether values of this type have a total order, which is
// what makes range comparisons (greater_than, less_than, ...) meaningful.
func (dt DataType) Ordered() bool {
	switch dt {
	case DataTypeInteger, DataTypeFloat, DataTypeDate, DataTypeDateTime:
		return true
	default:
		return false
	}
}

// Numeric reports whether the type carries a numeric value.
func (dt DataType) Numeric() bool {
	return dt == DataTypeInteger || dt == DataTypeFloat
}

// Temporal reports whether the type carries a point in time.
func (dt DataType) Temporal() bool {
	return dt == DataTypeDate || dt == DataTypeDateTime
}

// String returns the canonical name of the data type.
func (dt DataType) String() string {
	return string(dt)
}
