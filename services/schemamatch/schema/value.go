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
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ValueKind identifies which variant a Value holds.
type ValueKind int

const (
	// ValueKindAbsent is the zero Value: no value supplied.
	ValueKindAbsent ValueKind = iota

	// ValueKindString holds free text.
	ValueKindString

	// ValueKindInt holds a whole number.
	ValueKindInt

	// ValueKindFloat holds a floating-point number.
	ValueKindFloat

	// ValueKindBool holds true/false.
	ValueKindBool

	// ValueKindTime holds a point in time.
	ValueKindTime

	// ValueKindSet holds an ordered collection of scalar Values.
	ValueKindSet
)

// valueKindNames maps ValueKind values to their string representations.
var valueKindNames = map[ValueKind]string{
	ValueKindAbsent: "absent",
	ValueKindString: "string",
	ValueKindInt:    "int",
	ValueKindFloat:  "float",
	ValueKindBool:   "bool",
	ValueKindTime:   "time",
	ValueKindSet:    "set",
}

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	if name, ok := valueKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Value is a tagged variant over the closed data-type set. Filter values
// arrive from callers as loosely-typed input (JSON from an LLM, user text);
// Value pins them to one of a fixed set of kinds so the validator can switch
// exhaustively instead of type-asserting an open-ended any.
//
// The zero Value is the absent value. Values are immutable once constructed;
// the accessors are strict (no coercion), conversion between kinds is the
// filter validator's job.
type Value struct {
	kind ValueKind
	str  string
	i64  int64
	f64  float64
	b    bool
	t    time.Time
	set  []Value
}

// AbsentValue returns the absent Value. Equivalent to the zero Value;
// provided for readability at call sites.
func AbsentValue() Value {
	return Value{}
}

// StringValue returns a Value holding s.
func StringValue(s string) Value {
	return Value{kind: ValueKindString, str: s}
}

// IntValue returns a Value holding i.
func IntValue(i int64) Value {
	return Value{kind: ValueKindInt, i64: i}
}

// FloatValue returns a Value holding f.
func FloatValue(f float64) Value {
	return Value{kind: ValueKindFloat, f64: f}
}

// BoolValue returns a Value holding b.
func BoolValue(b bool) Value {
	return Value{kind: ValueKindBool, b: b}
}

// TimeValue returns a Value holding t.
func TimeValue(t time.Time) Value {
	return Value{kind: ValueKindTime, t: t}
}

// SetValue returns a Value holding the given elements in order.
// Elements must be scalars; nesting sets is not supported.
func SetValue(elems ...Value) Value {
	copied := make([]Value, len(elems))
	copy(copied, elems)
	return Value{kind: ValueKindSet, set: copied}
}

// ValueFromAny converts a loosely-typed value into a Value. It accepts the
// types encoding/json produces (string, float64, bool, nil, []any) plus the
// native Go scalar types callers are likely to hold.
//
// JSON numbers decode as float64, so whole numbers arrive as ValueKindFloat;
// the filter validator narrows them back to integers where the schema says so.
func ValueFromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return AbsentValue(), nil
	case Value:
		return x, nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return IntValue(int64(x)), nil
	case int32:
		return IntValue(int64(x)), nil
	case int64:
		return IntValue(x), nil
	case float32:
		return FloatValue(float64(x)), nil
	case float64:
		return FloatValue(x), nil
	case time.Time:
		return TimeValue(x), nil
	case []any:
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			ev, err := ValueFromAny(e)
			if err != nil {
				return Value{}, err
			}
			if ev.Kind() == ValueKindSet {
				return Value{}, fmt.Errorf("nested sets are not supported")
			}
			elems = append(elems, ev)
		}
		return SetValue(elems...), nil
	case []string:
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			elems = append(elems, StringValue(e))
		}
		return SetValue(elems...), nil
	case []int:
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			elems = append(elems, IntValue(int64(e)))
		}
		return SetValue(elems...), nil
	case []float64:
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			elems = append(elems, FloatValue(e))
		}
		return SetValue(elems...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Kind returns which variant the Value holds.
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsAbsent reports whether no value is held.
func (v Value) IsAbsent() bool {
	return v.kind == ValueKindAbsent
}

// AsString returns the held string. ok is false unless the kind is string.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == ValueKindString
}

// AsInt returns the held integer. ok is false unless the kind is int.
func (v Value) AsInt() (int64, bool) {
	return v.i64, v.kind == ValueKindInt
}

// AsFloat returns the held float. ok is false unless the kind is float.
func (v Value) AsFloat() (float64, bool) {
	return v.f64, v.kind == ValueKindFloat
}

// AsBool returns the held bool. ok is false unless the kind is bool.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == ValueKindBool
}

// AsTime returns the held time. ok is false unless the kind is time.
func (v Value) AsTime() (time.Time, bool) {
	return v.t, v.kind == ValueKindTime
}

// AsSet returns the held elements. ok is false unless the kind is set.
// The returned slice must not be modified.
func (v Value) AsSet() ([]Value, bool) {
	return v.set, v.kind == ValueKindSet
}

// Equal reports whether two Values hold the same kind and the same content.
// Times compare with time.Time.Equal, so the same instant in different zones
// is equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ValueKindAbsent:
		return true
	case ValueKindString:
		return v.str == other.str
	case ValueKindInt:
		return v.i64 == other.i64
	case ValueKindFloat:
		return v.f64 == other.f64
	case ValueKindBool:
		return v.b == other.b
	case ValueKindTime:
		return v.t.Equal(other.t)
	case ValueKindSet:
		if len(v.set) != len(other.set) {
			return false
		}
		for i := range v.set {
			if !v.set[i].Equal(other.set[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the Value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case ValueKindAbsent:
		return "<absent>"
	case ValueKindString:
		return fmt.Sprintf("%q", v.str)
	case ValueKindInt:
		return fmt.Sprintf("%d", v.i64)
	case ValueKindFloat:
		return fmt.Sprintf("%g", v.f64)
	case ValueKindBool:
		return fmt.Sprintf("%t", v.b)
	case ValueKindTime:
		return v.t.Format(time.RFC3339)
	case ValueKindSet:
		parts := make([]string, len(v.set))
		for i, e := range v.set {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// MarshalJSON renders the natural JSON form of the value: null for absent,
// the scalar itself otherwise, RFC 3339 text for times, an array for sets.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueKindAbsent:
		return []byte("null"), nil
	case ValueKindString:
		return json.Marshal(v.str)
	case ValueKindInt:
		return json.Marshal(v.i64)
	case ValueKindFloat:
		return json.Marshal(v.f64)
	case ValueKindBool:
		return json.Marshal(v.b)
	case ValueKindTime:
		return json.Marshal(v.t.Format(time.RFC3339Nano))
	case ValueKindSet:
		return json.Marshal(v.set)
	default:
		return nil, fmt.Errorf("cannot marshal value kind %s", v.kind)
	}
}

// UnmarshalJSON parses the natural JSON form via ValueFromAny. The mapping
// is lossy in two places: JSON numbers always decode to the float kind, and
// RFC 3339 text decodes to the string kind. The filter validator re-narrows
// both against the property's declared data type.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ValueFromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
