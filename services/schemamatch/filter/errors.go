// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package filter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
)

// Sentinel errors for filter validation. Callers branch with errors.Is;
// the matcher error that caused a property resolution failure stays in the
// chain, so errors.Is also sees match.ErrNoMatch or match.ErrAmbiguous.
var (
	// ErrUnknownProperty indicates the property name did not resolve
	// against the entity's declared properties. A stale schema reference
	// or a caller typo; never silently coerced.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrAmbiguousProperty indicates the property name tied between two or
	// more declared properties. The caller supplies the disambiguation.
	ErrAmbiguousProperty = errors.New("ambiguous property")

	// ErrIncompatibleOperator indicates the operator is not in the allowed
	// set for the property's data type. Returned as an
	// *IncompatibleOperatorError carrying the allowed set.
	ErrIncompatibleOperator = errors.New("operator incompatible with property type")

	// ErrIncompatibleValue indicates the filter value cannot be narrowed
	// to the property's data type.
	ErrIncompatibleValue = errors.New("value incompatible with property type")
)

// IncompatibleOperatorError reports an operator applied outside its allowed
// set, with enough context for the caller to repair the request.
type IncompatibleOperatorError struct {
	// EntityTypeID identifies the entity the filter targeted.
	EntityTypeID string

	// PropertyName is the resolved canonical property name.
	PropertyName string

	// DataType is the property's declared type.
	DataType schema.DataType

	// Operator is the rejected operator.
	Operator schema.Operator

	// Allowed holds the operators valid for DataType, in table order.
	Allowed []schema.Operator
}

// Error implements the error interface.
func (e *IncompatibleOperatorError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, op := range e.Allowed {
		allowed[i] = string(op)
	}
	return fmt.Sprintf("%s.%s is %s and does not support %s (allowed: %s)",
		e.EntityTypeID, e.PropertyName, e.DataType, e.Operator, strings.Join(allowed, ", "))
}

// Unwrap lets errors.Is(err, ErrIncompatibleOperator) succeed.
func (e *IncompatibleOperatorError) Unwrap() error {
	return ErrIncompatibleOperator
}
