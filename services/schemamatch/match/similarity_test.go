// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package match

import (
	"strings"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Person", "person"},
		{"underscores to spaces", "WORKS_AT", "works at"},
		{"hyphens to spaces", "works-at", "works at"},
		{"separator runs fold", "first__  second", "first second"},
		{"leading separators dropped", "_leading", "leading"},
		{"trailing separators dropped", "trailing_ ", "trailing"},
		{"mixed separators", "  Works-At  ", "works at"},
		{"tabs are separators", "a\tb", "a b"},
		{"other punctuation kept", "v2.name", "v2.name"},
		{"unicode lowercasing", "Ω-Reactor", "ω reactor"},
		{"empty", "", ""},
		{"separators only", "_-_ ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"identical", "abc", "abc", 0},
		{"empty left", "", "abc", 3},
		{"empty right", "abc", "", 3},
		{"both empty", "", "", 0},
		{"single insertion", "compny", "company", 1},
		{"classic kitten", "kitten", "sitting", 3},
		{"disjoint", "person", "company", 6},
		{"symmetric", "company", "compny", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levenshtein(tt.a, tt.b); got != tt.want {
				t.Errorf("levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestSimilarityGoldenVectors pins the scoring formula. The values are
// exact: (maxLen - distance) / maxLen divides two integers that convert
// exactly to float64, so == comparison is correct here.
func TestSimilarityGoldenVectors(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "company", "company", 1},
		{"both empty", "", "", 1},
		{"one empty", "", "abc", 0},
		{"near miss", "compny", "company", 6.0 / 7.0},
		{"disjoint", "person", "company", 1.0 / 7.0},
		{"kitten sitting", "kitten", "sitting", 4.0 / 7.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

// TestSimilarityThresholdBoundary verifies that scores landing exactly on
// the acceptance threshold compare as documented: 11/20 is exactly 0.55,
// and 549/1000 is exactly 0.549, strictly below it.
func TestSimilarityThresholdBoundary(t *testing.T) {
	onThreshold := similarity(
		strings.Repeat("a", 20),
		strings.Repeat("a", 11)+strings.Repeat("b", 9),
	)
	if onThreshold != 0.55 {
		t.Fatalf("similarity with distance 9 over length 20 = %v, want exactly 0.55", onThreshold)
	}
	if onThreshold < DefaultThreshold {
		t.Errorf("score %v compares below threshold %v, want inclusive acceptance", onThreshold, DefaultThreshold)
	}

	belowThreshold := similarity(
		strings.Repeat("a", 1000),
		strings.Repeat("a", 549)+strings.Repeat("b", 451),
	)
	if belowThreshold != 0.549 {
		t.Fatalf("similarity with distance 451 over length 1000 = %v, want exactly 0.549", belowThreshold)
	}
	if belowThreshold >= DefaultThreshold {
		t.Errorf("score %v compares at or above threshold %v, want rejection", belowThreshold, DefaultThreshold)
	}
}

func TestTokenOverlap(t *testing.T) {
	tests := []struct {
		name        string
		candidate   string
		description string
		want        float64
	}{
		{"all tokens present", "people", "employs people", 1},
		{"punctuation stripped", "people", "employs people.", 1},
		{"half present", "annual revenue", "the company annual report", 0.5},
		{"none present", "velocity", "a registered business", 0},
		{"empty candidate", "", "some text", 0},
		{"empty description", "name", "", 0},
		{"punctuation only description", "name", "... !!!", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tokenOverlap(tt.candidate, tt.description); got != tt.want {
				t.Errorf("tokenOverlap(%q, %q) = %v, want %v", tt.candidate, tt.description, got, tt.want)
			}
		})
	}
}
