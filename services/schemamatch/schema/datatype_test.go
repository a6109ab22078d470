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

import "testing"

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DataType
		wantErr bool
	}{
		{name: "canonical string", input: "string", want: DataTypeString},
		{name: "text alias", input: "text", want: DataTypeString},
		{name: "int alias", input: "int", want: DataTypeInteger},
		{name: "number alias", input: "number", want: DataTypeFloat},
		{name: "double alias", input: "double", want: DataTypeFloat},
		{name: "bool alias", input: "bool", want: DataTypeBoolean},
		{name: "timestamp alias", input: "timestamp", want: DataTypeDateTime},
		{name: "case insensitive", input: "Integer", want: DataTypeInteger},
		{name: "surrounding whitespace", input: "  date ", want: DataTypeDate},
		{name: "unknown type", input: "complex128", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDataType(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDataType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDataType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDataTypePredicates(t *testing.T) {
	tests := []struct {
		dt       DataType
		ordered  bool
		numeric  bool
		temporal bool
	}{
		{DataTypeString, false, false, false},
		{DataTypeInteger, true, true, false},
		{DataTypeFloat, true, true, false},
		{DataTypeBoolean, false, false, false},
		{DataTypeDate, true, false, true},
		{DataTypeDateTime, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.dt.String(), func(t *testing.T) {
			if !tt.dt.IsValid() {
				t.Errorf("IsValid() = false for canonical type %v", tt.dt)
			}
			if got := tt.dt.Ordered(); got != tt.ordered {
				t.Errorf("Ordered() = %v, want %v", got, tt.ordered)
			}
			if got := tt.dt.Numeric(); got != tt.numeric {
				t.Errorf("Numeric() = %v, want %v", got, tt.numeric)
			}
			if got := tt.dt.Temporal(); got != tt.temporal {
				t.Errorf("Temporal() = %v, want %v", got, tt.temporal)
			}
		})
	}

	if DataType("decimal").IsValid() {
		t.Error("IsValid() = true for unknown data type")
	}
}
