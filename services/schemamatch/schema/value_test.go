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
	"testing"
	"time"
)

func TestValueConstructorsAndAccessors(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("zero value is absent", func(t *testing.T) {
		var v Value
		if !v.IsAbsent() {
			t.Error("zero Value should be absent")
		}
		if v.Kind() != ValueKindAbsent {
			t.Errorf("Kind() = %v, want absent", v.Kind())
		}
	})

	t.Run("string", func(t *testing.T) {
		v := StringValue("hello")
		s, ok := v.AsString()
		if !ok || s != "hello" {
			t.Errorf("AsString() = (%q, %v), want (hello, true)", s, ok)
		}
		if _, ok := v.AsInt(); ok {
			t.Error("AsInt() should fail for string kind")
		}
	})

	t.Run("int", func(t *testing.T) {
		v := IntValue(42)
		i, ok := v.AsInt()
		if !ok || i != 42 {
			t.Errorf("AsInt() = (%d, %v), want (42, true)", i, ok)
		}
		if _, ok := v.AsFloat(); ok {
			t.Error("AsFloat() should fail for int kind, accessors do not coerce")
		}
	})

	t.Run("time", func(t *testing.T) {
		v := TimeValue(now)
		got, ok := v.AsTime()
		if !ok || !got.Equal(now) {
			t.Errorf("AsTime() = (%v, %v), want (%v, true)", got, ok, now)
		}
	})

	t.Run("set copies its elements", func(t *testing.T) {
		elems := []Value{IntValue(1), IntValue(2)}
		v := SetValue(elems...)
		elems[0] = IntValue(99)
		set, ok := v.AsSet()
		if !ok || len(set) != 2 {
			t.Fatalf("AsSet() = (%v, %v)", set, ok)
		}
		if got, _ := set[0].AsInt(); got != 1 {
			t.Errorf("set element mutated through caller slice: got %d, want 1", got)
		}
	})
}

func TestValueFromAny(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    Value
		wantErr bool
	}{
		{name: "nil", input: nil, want: AbsentValue()},
		{name: "string", input: "x", want: StringValue("x")},
		{name: "bool", input: true, want: BoolValue(true)},
		{name: "int", input: 7, want: IntValue(7)},
		{name: "int64", input: int64(7), want: IntValue(7)},
		{name: "json number stays float", input: float64(7), want: FloatValue(7)},
		{name: "float32", input: float32(1.5), want: FloatValue(1.5)},
		{name: "any slice", input: []any{"a", "b"}, want: SetValue(StringValue("a"), StringValue("b"))},
		{name: "string slice", input: []string{"a"}, want: SetValue(StringValue("a"))},
		{name: "int slice", input: []int{1, 2}, want: SetValue(IntValue(1), IntValue(2))},
		{name: "float slice", input: []float64{1.5}, want: SetValue(FloatValue(1.5))},
		{name: "value passthrough", input: IntValue(3), want: IntValue(3)},
		{name: "nested set rejected", input: []any{[]any{"a"}}, wantErr: true},
		{name: "unsupported type", input: struct{}{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValueFromAny(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ValueFromAny(%v) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ValueFromAny(%v) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ValueFromAny(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	utc := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	est := utc.In(time.FixedZone("EST", -5*3600))

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "absent equals absent", a: AbsentValue(), b: Value{}, want: true},
		{name: "same int", a: IntValue(1), b: IntValue(1), want: true},
		{name: "different int", a: IntValue(1), b: IntValue(2), want: false},
		{name: "int vs float never equal", a: IntValue(1), b: FloatValue(1), want: false},
		{name: "same instant different zone", a: TimeValue(utc), b: TimeValue(est), want: true},
		{name: "same set", a: SetValue(IntValue(1)), b: SetValue(IntValue(1)), want: true},
		{name: "set order matters", a: SetValue(IntValue(1), IntValue(2)), b: SetValue(IntValue(2), IntValue(1)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("%v.Equal(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestValueJSON(t *testing.T) {
	t.Run("marshal forms", func(t *testing.T) {
		tests := []struct {
			name  string
			value Value
			want  string
		}{
			{name: "absent", value: AbsentValue(), want: `null`},
			{name: "string", value: StringValue("x"), want: `"x"`},
			{name: "int", value: IntValue(5), want: `5`},
			{name: "bool", value: BoolValue(false), want: `false`},
			{name: "set", value: SetValue(IntValue(1), IntValue(2)), want: `[1,2]`},
		}
		for _, tt := range tests {
			got, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatalf("%s: marshal error: %v", tt.name, err)
			}
			if string(got) != tt.want {
				t.Errorf("%s: marshal = %s, want %s", tt.name, got, tt.want)
			}
		}
	})

	t.Run("numbers decode to float kind", func(t *testing.T) {
		var v Value
		if err := json.Unmarshal([]byte(`5`), &v); err != nil {
			t.Fatal(err)
		}
		if v.Kind() != ValueKindFloat {
			t.Errorf("Kind() = %v, want float (JSON numbers are float64)", v.Kind())
		}
	})

	t.Run("filter round trip keeps the scalar", func(t *testing.T) {
		f := EntityFilter{
			EntityTypeID: "Person",
			PropertyName: "age",
			Operator:     OperatorGreaterThan,
			Value:        IntValue(30),
		}
		data, err := json.Marshal(&f)
		if err != nil {
			t.Fatal(err)
		}
		var back EntityFilter
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatal(err)
		}
		got, ok := back.Value.AsFloat()
		if !ok || got != 30 {
			t.Errorf("round-tripped value = %v, want float 30", back.Value)
		}
	})
}
