// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package filter validates candidate entity filters against the declared
// property types of a matched entity: the property name resolves through
// the name matcher, the operator must be in the allowed set for the
// property's data type, and the value narrows to that type or the filter
// is rejected. Observed ranges are advisory; comparison values outside
// them annotate the filter instead of failing it.
package filter

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/match"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
)

// operatorTable is the authoritative operator compatibility table. Order
// within a row is presentation order for IncompatibleOperatorError.
//
// in_set is deliberately absent from the temporal rows.
var operatorTable = map[schema.DataType][]schema.Operator{
	schema.DataTypeString: {
		schema.OperatorEquals, schema.OperatorNotEquals, schema.OperatorContains,
		schema.OperatorInSet, schema.OperatorIsNull,
	},
	schema.DataTypeInteger: {
		schema.OperatorEquals, schema.OperatorNotEquals,
		schema.OperatorGreaterThan, schema.OperatorLessThan,
		schema.OperatorGreaterOrEqual, schema.OperatorLessOrEqual,
		schema.OperatorInSet, schema.OperatorIsNull,
	},
	schema.DataTypeFloat: {
		schema.OperatorEquals, schema.OperatorNotEquals,
		schema.OperatorGreaterThan, schema.OperatorLessThan,
		schema.OperatorGreaterOrEqual, schema.OperatorLessOrEqual,
		schema.OperatorInSet, schema.OperatorIsNull,
	},
	schema.DataTypeBoolean: {
		schema.OperatorEquals, schema.OperatorNotEquals, schema.OperatorIsNull,
	},
	schema.DataTypeDate: {
		schema.OperatorEquals, schema.OperatorNotEquals,
		schema.OperatorGreaterThan, schema.OperatorLessThan,
		schema.OperatorGreaterOrEqual, schema.OperatorLessOrEqual,
		schema.OperatorIsNull,
	},
	schema.DataTypeDateTime: {
		schema.OperatorEquals, schema.OperatorNotEquals,
		schema.OperatorGreaterThan, schema.OperatorLessThan,
		schema.OperatorGreaterOrEqual, schema.OperatorLessOrEqual,
		schema.OperatorIsNull,
	},
}

// AllowedOperators returns the operators valid for dt, in table order.
// Unknown data types have no allowed operators. The returned slice must
// not be modified.
func AllowedOperators(dt schema.DataType) []schema.Operator {
	return operatorTable[dt]
}

// operatorAllowed reports whether op is in the allowed set for dt.
func operatorAllowed(dt schema.DataType, op schema.Operator) bool {
	for _, allowed := range operatorTable[dt] {
		if op == allowed {
			return true
		}
	}
	return false
}

// Validator turns loose (property name, operator, value) requests into
// validated EntityFilters. A Validator is stateless apart from its matcher
// and safe for concurrent use.
type Validator struct {
	matcher *match.Matcher
}

// NewValidator returns a Validator resolving property names through m.
// A nil m uses a matcher with default scoring parameters.
func NewValidator(m *match.Matcher) *Validator {
	if m == nil {
		m = match.NewMatcher()
	}
	return &Validator{matcher: m}
}

// ValidateFilter resolves propertyName against entity's declared
// properties and checks op and value against the resolved property's data
// type.
//
// Resolution failures surface as ErrUnknownProperty (no match) or
// ErrAmbiguousProperty (tied match), with the matcher error kept in the
// chain. A disallowed operator fails with *IncompatibleOperatorError; an
// unnarrowable value fails with ErrIncompatibleValue. For is_null any
// supplied value is discarded, never rejected.
//
// The returned filter references the property by its canonical schema
// name. Comparison values outside the property's observed range mark the
// filter OutOfObservedRange rather than failing it.
func (v *Validator) ValidateFilter(entity *schema.EntityType, propertyName string, op schema.Operator, value schema.Value) (*schema.EntityFilter, error) {
	if entity == nil {
		return nil, fmt.Errorf("validate filter: %w: nil entity type", schema.ErrUnknownEntity)
	}

	pool := make([]match.Element, len(entity.Properties))
	for i, p := range entity.Properties {
		pool[i] = match.Element{ID: p.Name, Name: p.Name, Description: p.Description}
	}

	res, err := v.matcher.Match(propertyName, pool, match.KindProperty)
	switch {
	case errors.Is(err, match.ErrAmbiguous):
		return nil, fmt.Errorf("entity %s: %w: %w", entity.ID, ErrAmbiguousProperty, err)
	case errors.Is(err, match.ErrNoMatch), errors.Is(err, match.ErrNoCandidates):
		return nil, fmt.Errorf("entity %s: %w: %w", entity.ID, ErrUnknownProperty, err)
	case err != nil:
		return nil, err
	}

	prop, ok := entity.Property(res.Best.Name)
	if !ok {
		// The matcher answered from this pool; a miss here means the
		// entity was mutated mid-call.
		return nil, fmt.Errorf("entity %s: %w: %q", entity.ID, ErrUnknownProperty, res.Best.Name)
	}

	if !operatorAllowed(prop.DataType, op) {
		return nil, &IncompatibleOperatorError{
			EntityTypeID: entity.ID,
			PropertyName: prop.Name,
			DataType:     prop.DataType,
			Operator:     op,
			Allowed:      AllowedOperators(prop.DataType),
		}
	}

	f := &schema.EntityFilter{
		EntityTypeID: entity.ID,
		PropertyName: prop.Name,
		Operator:     op,
	}

	switch op {
	case schema.OperatorIsNull:
		// Existence check; the filter carries no comparison value.
	case schema.OperatorInSet:
		set, err := coerceSet(value, prop.DataType)
		if err != nil {
			return nil, fmt.Errorf("entity %s: property %s: %w", entity.ID, prop.Name, err)
		}
		f.Value = set
	default:
		scalar, err := coerceScalar(value, prop.DataType)
		if err != nil {
			return nil, fmt.Errorf("entity %s: property %s: %w", entity.ID, prop.Name, err)
		}
		f.Value = scalar
		if op.Comparison() && prop.Range != nil && outsideRange(scalar, prop.Range) {
			f.OutOfObservedRange = true
		}
	}

	return f, nil
}

// coerceScalar narrows v to the declared data type.
//
// Narrowing accepts the loose forms JSON input produces: integer
// properties accept floats with a zero fractional part, float properties
// accept integers, and temporal properties accept RFC 3339 strings or bare
// YYYY-MM-DD dates (parsed at UTC midnight). Everything else must already
// hold the matching kind.
func coerceScalar(v schema.Value, dt schema.DataType) (schema.Value, error) {
	switch dt {
	case schema.DataTypeString:
		if _, ok := v.AsString(); ok {
			return v, nil
		}
	case schema.DataTypeInteger:
		if _, ok := v.AsInt(); ok {
			return v, nil
		}
		if f, ok := v.AsFloat(); ok {
			if f != math.Trunc(f) {
				return schema.Value{}, fmt.Errorf("%w: %s has a fractional part, property is %s", ErrIncompatibleValue, v, dt)
			}
			// float64(MaxInt64) rounds up to 2^63, so >= catches the
			// conversion overflow edge.
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return schema.Value{}, fmt.Errorf("%w: %s overflows %s", ErrIncompatibleValue, v, dt)
			}
			return schema.IntValue(int64(f)), nil
		}
	case schema.DataTypeFloat:
		if _, ok := v.AsFloat(); ok {
			return v, nil
		}
		if i, ok := v.AsInt(); ok {
			return schema.FloatValue(float64(i)), nil
		}
	case schema.DataTypeBoolean:
		if _, ok := v.AsBool(); ok {
			return v, nil
		}
	case schema.DataTypeDate, schema.DataTypeDateTime:
		if _, ok := v.AsTime(); ok {
			return v, nil
		}
		if s, ok := v.AsString(); ok {
			t, err := parseTemporal(s)
			if err != nil {
				return schema.Value{}, fmt.Errorf("%w: %s is not RFC 3339 or YYYY-MM-DD, property is %s", ErrIncompatibleValue, v, dt)
			}
			return schema.TimeValue(t), nil
		}
	}
	return schema.Value{}, fmt.Errorf("%w: %s where property is %s", ErrIncompatibleValue, v, dt)
}

// coerceSet narrows v to a set of the declared data type. A scalar value
// coerces to a one-element set; an empty set is rejected because it can
// match nothing.
func coerceSet(v schema.Value, dt schema.DataType) (schema.Value, error) {
	elems, ok := v.AsSet()
	if !ok {
		if v.IsAbsent() {
			return schema.Value{}, fmt.Errorf("%w: in_set requires a value", ErrIncompatibleValue)
		}
		scalar, err := coerceScalar(v, dt)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.SetValue(scalar), nil
	}

	if len(elems) == 0 {
		return schema.Value{}, fmt.Errorf("%w: in_set requires a non-empty set", ErrIncompatibleValue)
	}
	coerced := make([]schema.Value, len(elems))
	for i, e := range elems {
		ce, err := coerceScalar(e, dt)
		if err != nil {
			return schema.Value{}, err
		}
		coerced[i] = ce
	}
	return schema.SetValue(coerced...), nil
}

// parseTemporal parses RFC 3339 text, falling back to a bare date at UTC
// midnight.
func parseTemporal(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// outsideRange reports whether a narrowed comparison value falls entirely
// outside the observed [Min, Max]. Bounds that do not compare with the
// value (mixed or non-ordered kinds) never annotate.
func outsideRange(v schema.Value, r *schema.Range) bool {
	belowMin, ok := lessThan(v, r.Min)
	if !ok {
		return false
	}
	aboveMax, ok := lessThan(r.Max, v)
	if !ok {
		return false
	}
	return belowMin || aboveMax
}

// lessThan reports a < b for ordered Value kinds, with ok false when the
// two kinds do not compare. Integers and floats compare numerically with
// each other; times compare as instants.
func lessThan(a, b schema.Value) (less, ok bool) {
	af, aNum := numericOf(a)
	bf, bNum := numericOf(b)
	if aNum && bNum {
		return af < bf, true
	}
	at, aTime := a.AsTime()
	bt, bTime := b.AsTime()
	if aTime && bTime {
		return at.Before(bt), true
	}
	return false, false
}

// numericOf widens int and float kinds to float64 for range comparison.
func numericOf(v schema.Value) (float64, bool) {
	if i, ok := v.AsInt(); ok {
		return float64(i), true
	}
	if f, ok := v.AsFloat(); ok {
		return f, true
	}
	return 0, false
}
