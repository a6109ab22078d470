// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package querygen renders validated filters and paths into Weaviate
// GraphQL building blocks: where clauses and nested field selections. It
// performs no I/O; the caller owns the client and executes the query.
package querygen

import (
	"errors"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate/filters"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
)

// Sentinel errors for query rendering. Filters and paths arriving here
// have already passed validation, so hitting one of these usually means a
// hand-built value rather than validator output.
var (
	// ErrNoFilters indicates WhereAll was called with nothing to combine.
	ErrNoFilters = errors.New("no filters to combine")

	// ErrUnsupportedValue indicates a filter value kind that has no
	// Weaviate rendering for its operator.
	ErrUnsupportedValue = errors.New("unsupported filter value")

	// ErrIncomingHop indicates a path hop traversed against the reference
	// direction. Weaviate GraphQL only walks cross-references forward, so
	// such paths cannot render as a field selection.
	ErrIncomingHop = errors.New("incoming hop cannot render as a field selection")
)

// Where renders one validated EntityFilter as a Weaviate where clause.
//
// Operators map one to one: contains becomes a Like over *value*,
// in_set becomes ContainsAny over the set elements, is_null becomes the
// IsNull operator with valueBoolean true. Scalar values render through
// the setter matching their kind (text, int, number, boolean, date).
func Where(f *schema.EntityFilter) (*filters.WhereBuilder, error) {
	if f == nil {
		return nil, fmt.Errorf("where: %w: nil filter", ErrUnsupportedValue)
	}

	b := filters.Where().WithPath([]string{f.PropertyName})

	switch f.Operator {
	case schema.OperatorEquals:
		return withScalar(b.WithOperator(filters.Equal), f)
	case schema.OperatorNotEquals:
		return withScalar(b.WithOperator(filters.NotEqual), f)
	case schema.OperatorGreaterThan:
		return withScalar(b.WithOperator(filters.GreaterThan), f)
	case schema.OperatorLessThan:
		return withScalar(b.WithOperator(filters.LessThan), f)
	case schema.OperatorGreaterOrEqual:
		return withScalar(b.WithOperator(filters.GreaterThanEqual), f)
	case schema.OperatorLessOrEqual:
		return withScalar(b.WithOperator(filters.LessThanEqual), f)
	case schema.OperatorContains:
		s, ok := f.Value.AsString()
		if !ok {
			return nil, fmt.Errorf("where %s: contains needs a string, got %s: %w",
				f.PropertyName, f.Value.Kind(), ErrUnsupportedValue)
		}
		return b.WithOperator(filters.Like).WithValueText("*" + s + "*"), nil
	case schema.OperatorInSet:
		return withSet(b.WithOperator(filters.ContainsAny), f)
	case schema.OperatorIsNull:
		return b.WithOperator(filters.IsNull).WithValueBoolean(true), nil
	default:
		return nil, fmt.Errorf("where %s: operator %q: %w", f.PropertyName, f.Operator, ErrUnsupportedValue)
	}
}

// WhereAll combines validated filters into a single where clause. One
// filter renders directly; several are joined with And.
func WhereAll(fs []*schema.EntityFilter) (*filters.WhereBuilder, error) {
	switch len(fs) {
	case 0:
		return nil, ErrNoFilters
	case 1:
		return Where(fs[0])
	}

	operands := make([]*filters.WhereBuilder, 0, len(fs))
	for _, f := range fs {
		w, err := Where(f)
		if err != nil {
			return nil, err
		}
		operands = append(operands, w)
	}
	return filters.Where().WithOperator(filters.And).WithOperands(operands), nil
}

// withScalar attaches a scalar comparison value through the setter
// matching its kind.
func withScalar(b *filters.WhereBuilder, f *schema.EntityFilter) (*filters.WhereBuilder, error) {
	v := f.Value
	if s, ok := v.AsString(); ok {
		return b.WithValueText(s), nil
	}
	if i, ok := v.AsInt(); ok {
		return b.WithValueInt(i), nil
	}
	if n, ok := v.AsFloat(); ok {
		return b.WithValueNumber(n), nil
	}
	if x, ok := v.AsBool(); ok {
		return b.WithValueBoolean(x), nil
	}
	if t, ok := v.AsTime(); ok {
		return b.WithValueDate(t), nil
	}
	return nil, fmt.Errorf("where %s: %s value: %w", f.PropertyName, v.Kind(), ErrUnsupportedValue)
}

// withSet attaches set elements as a typed value list. The validator
// narrows every element to the property type, so the first element's kind
// decides the setter.
func withSet(b *filters.WhereBuilder, f *schema.EntityFilter) (*filters.WhereBuilder, error) {
	elems, ok := f.Value.AsSet()
	if !ok || len(elems) == 0 {
		return nil, fmt.Errorf("where %s: in_set needs a non-empty set, got %s: %w",
			f.PropertyName, f.Value.Kind(), ErrUnsupportedValue)
	}

	switch elems[0].Kind() {
	case schema.ValueKindString:
		vals := make([]string, len(elems))
		for i, e := range elems {
			s, ok := e.AsString()
			if !ok {
				return nil, mixedSetErr(f, e)
			}
			vals[i] = s
		}
		return b.WithValueText(vals...), nil
	case schema.ValueKindInt:
		vals := make([]int64, len(elems))
		for i, e := range elems {
			n, ok := e.AsInt()
			if !ok {
				return nil, mixedSetErr(f, e)
			}
			vals[i] = n
		}
		return b.WithValueInt(vals...), nil
	case schema.ValueKindFloat:
		vals := make([]float64, len(elems))
		for i, e := range elems {
			n, ok := e.AsFloat()
			if !ok {
				return nil, mixedSetErr(f, e)
			}
			vals[i] = n
		}
		return b.WithValueNumber(vals...), nil
	default:
		return nil, fmt.Errorf("where %s: in_set over %s elements: %w",
			f.PropertyName, elems[0].Kind(), ErrUnsupportedValue)
	}
}

func mixedSetErr(f *schema.EntityFilter, elem schema.Value) error {
	return fmt.Errorf("where %s: mixed element kinds in set (%s): %w",
		f.PropertyName, elem.Kind(), ErrUnsupportedValue)
}
