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

// Operator is a filter comparison operator. Which operators are legal for a
// given property is decided by the filter validator's compatibility table,
// not here.
type Operator string

const (
	// OperatorEquals matches values equal to the filter value.
	OperatorEquals Operator = "equals"

	// OperatorNotEquals matches values different from the filter value.
	OperatorNotEquals Operator = "not_equals"

	// OperatorContains matches string values containing the filter value
	// as a substring.
	OperatorContains Operator = "contains"

	// OperatorGreaterThan matches ordered values strictly above the filter value.
	OperatorGreaterThan Operator = "greater_than"

	// OperatorLessThan matches ordered values strictly below the filter value.
	OperatorLessThan Operator = "less_than"

	// OperatorGreaterOrEqual matches ordered values at or above the filter value.
	OperatorGreaterOrEqual Operator = "greater_or_equal"

	// OperatorLessOrEqual matches ordered values at or below the filter value.
	OperatorLessOrEqual Operator = "less_or_equal"

	// OperatorInSet matches values equal to any element of a set.
	OperatorInSet Operator = "in_set"

	// OperatorIsNull matches absent values. The filter value is ignored.
	OperatorIsNull Operator = "is_null"
)

// operatorAliases maps spellings commonly produced by humans and LLMs to
// canonical operators.
var operatorAliases = map[string]Operator{
	"equals":           OperatorEquals,
	"equal":            OperatorEquals,
	"eq":               OperatorEquals,
	"==":               OperatorEquals,
	"=":                OperatorEquals,
	"not_equals":       OperatorNotEquals,
	"not_equal":        OperatorNotEquals,
	"neq":              OperatorNotEquals,
	"!=":               OperatorNotEquals,
	"contains":         OperatorContains,
	"like":             OperatorContains,
	"greater_than":     OperatorGreaterThan,
	"gt":               OperatorGreaterThan,
	">":                OperatorGreaterThan,
	"less_than":        OperatorLessThan,
	"lt":               OperatorLessThan,
	"<":                OperatorLessThan,
	"greater_or_equal": OperatorGreaterOrEqual,
	"gte":              OperatorGreaterOrEqual,
	">=":               OperatorGreaterOrEqual,
	"less_or_equal":    OperatorLessOrEqual,
	"lte":              OperatorLessOrEqual,
	"<=":               OperatorLessOrEqual,
	"in_set":           OperatorInSet,
	"in":               OperatorInSet,
	"is_null":          OperatorIsNull,
	"null":             OperatorIsNull,
	"is_none":          OperatorIsNull,
}

// ParseOperator maps a free-form operator spelling to a canonical Operator.
// Matching is case-insensitive and accepts common aliases ("==", "gte",
// "in", ...).
func ParseOperator(s string) (Operator, error) {
	if op, ok := operatorAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

// IsValid reports whether op is one of the canonical operators.
func (op Operator) IsValid() bool {
	switch op {
	case OperatorEquals, OperatorNotEquals, OperatorContains,
		OperatorGreaterThan, OperatorLessThan,
		OperatorGreaterOrEqual, OperatorLessOrEqual,
		OperatorInSet, OperatorIsNull:
		return true
	default:
		return false
	}
}

// Comparison reports whether op compares against an ordered value
// (greater_than, less_than, greater_or_equal, less_or_equal). Comparison
// operators are the ones subject to observed-range annotation.
func (op Operator) Comparison() bool {
	switch op {
	case OperatorGreaterThan, OperatorLessThan, OperatorGreaterOrEqual, OperatorLessOrEqual:
		return true
	default:
		return false
	}
}

// String returns the canonical name of the operator.
func (op Operator) String() string {
	return string(op)
}
