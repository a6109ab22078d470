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
	"errors"
	"strings"
	"testing"
)

func TestMatchEmptyPool(t *testing.T) {
	res, err := NewMatcher().Match("person", nil, KindEntity)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("Match with empty pool: err = %v, want ErrNoCandidates", err)
	}
	if res != nil {
		t.Errorf("Match with empty pool returned result %+v, want nil", res)
	}
}

func TestMatchExactShortCircuit(t *testing.T) {
	pool := []Element{
		{ID: "PER", Name: "Person"},
		{ID: "PNL", Name: "Personnel"},
	}

	res, err := NewMatcher().Match("PERSON", pool, KindEntity)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Best.ID != "PER" || res.Best.Score != 1 {
		t.Errorf("Best = %+v, want Person with score 1", res.Best)
	}
	if res.Ambiguous {
		t.Error("exact match reported ambiguous")
	}
	if len(res.Candidates) != 1 {
		t.Errorf("Candidates = %v, want the single winner", res.Candidates)
	}
}

// TestMatchExactAfterNormalization verifies that separator spelling does not
// defeat the exact-match short circuit.
func TestMatchExactAfterNormalization(t *testing.T) {
	pool := []Element{{ID: "WA", Name: "WORKS_AT"}}

	res, err := NewMatcher().Match("works at", pool, KindRelationship)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Best.ID != "WA" || res.Best.Score != 1 {
		t.Errorf("Best = %+v, want WORKS_AT with score 1", res.Best)
	}
}

// TestMatchExactDuplicateNames pins the pool-order rule for identically
// named elements: the first one wins.
func TestMatchExactDuplicateNames(t *testing.T) {
	pool := []Element{
		{ID: "P1", Name: "Person"},
		{ID: "P2", Name: "person"},
	}

	res, err := NewMatcher().Match("PERSON", pool, KindEntity)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Best.ID != "P1" {
		t.Errorf("Best.ID = %q, want first pool element P1", res.Best.ID)
	}
}

func TestMatchFuzzyBest(t *testing.T) {
	pool := []Element{
		{ID: "PER", Name: "Person"},
		{ID: "COM", Name: "Company"},
		{ID: "CIT", Name: "City"},
	}

	res, err := NewMatcher().Match("compny", pool, KindEntity)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if res.Best.ID != "COM" {
		t.Errorf("Best.ID = %q, want COM", res.Best.ID)
	}
	if want := 6.0 / 7.0; res.Best.Score != want {
		t.Errorf("Best.Score = %v, want %v", res.Best.Score, want)
	}
	if res.Ambiguous || len(res.Candidates) != 1 {
		t.Errorf("result = %+v, want a single unambiguous winner", res)
	}
}

func TestMatchNoMatch(t *testing.T) {
	pool := []Element{{ID: "COM", Name: "Company"}}

	res, err := NewMatcher().Match("person", pool, KindEntity)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("Match: err = %v, want ErrNoMatch", err)
	}
	if res != nil {
		t.Errorf("rejected match returned result %+v, want nil", res)
	}
}

// TestMatchThresholdBoundary verifies inclusive acceptance: a best score of
// exactly the threshold passes, one a thousandth below it does not.
func TestMatchThresholdBoundary(t *testing.T) {
	candidate := strings.Repeat("a", 20)
	pool := []Element{{ID: "ON", Name: strings.Repeat("a", 11) + strings.Repeat("b", 9)}}

	res, err := NewMatcher().Match(candidate, pool, KindEntity)
	if err != nil {
		t.Fatalf("Match at threshold: %v", err)
	}
	if res.Best.Score != 0.55 {
		t.Errorf("Best.Score = %v, want exactly 0.55", res.Best.Score)
	}

	candidate = strings.Repeat("a", 1000)
	pool = []Element{{ID: "OFF", Name: strings.Repeat("a", 549) + strings.Repeat("b", 451)}}

	if _, err := NewMatcher().Match(candidate, pool, KindEntity); !errors.Is(err, ErrNoMatch) {
		t.Errorf("Match below threshold: err = %v, want ErrNoMatch", err)
	}
}

// TestMatchDescriptionSignal exercises the down-weighted description path.
// With the default threshold the 0.4-capped description score can never
// carry a match on its own; with a lowered threshold it can.
func TestMatchDescriptionSignal(t *testing.T) {
	pool := []Element{
		{ID: "ORG", Name: "Org", Description: "A registered business that employs people."},
		{ID: "LOC", Name: "Loc", Description: "A place."},
	}

	if _, err := NewMatcher().Match("employs people", pool, KindEntity); !errors.Is(err, ErrNoMatch) {
		t.Fatalf("default threshold: err = %v, want ErrNoMatch", err)
	}

	res, err := NewMatcher(WithThreshold(0.35)).Match("employs people", pool, KindEntity)
	if err != nil {
		t.Fatalf("lowered threshold: %v", err)
	}
	if res.Best.ID != "ORG" {
		t.Errorf("Best.ID = %q, want ORG", res.Best.ID)
	}
	if want := DefaultDescriptionWeight * 1.0; res.Best.Score != want {
		t.Errorf("Best.Score = %v, want %v from full description overlap", res.Best.Score, want)
	}
}

func TestMatchAmbiguousContainment(t *testing.T) {
	pool := []Element{
		{ID: "A1", Name: "abzc"},
		{ID: "A2", Name: "abcd"},
	}

	res, err := NewMatcher().Match("abc", pool, KindEntity)
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("Match: err = %v, want ErrAmbiguous", err)
	}
	if res == nil || !res.Ambiguous {
		t.Fatalf("ambiguous match returned %+v, want Result with Ambiguous set", res)
	}
	if res.Best.ID != "A2" {
		t.Errorf("Best.ID = %q, want A2 (name contains the candidate)", res.Best.ID)
	}
	if got := candidateIDs(res); got != "A2,A1" {
		t.Errorf("ranked candidates = %s, want A2,A1", got)
	}
	for _, c := range res.Candidates {
		if c.Score != 0.75 {
			t.Errorf("candidate %s score = %v, want 0.75", c.ID, c.Score)
		}
	}
}

func TestMatchAmbiguousShorterName(t *testing.T) {
	pool := []Element{
		{ID: "DB", Name: "database"},
		{ID: "DS", Name: "dataset"},
	}

	res, err := NewMatcher(WithAmbiguityTolerance(0.1)).Match("data", pool, KindEntity)
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("Match: err = %v, want ErrAmbiguous", err)
	}
	if res.Best.ID != "DS" {
		t.Errorf("Best.ID = %q, want DS (shorter name, both contain the candidate)", res.Best.ID)
	}
	if got := candidateIDs(res); got != "DS,DB" {
		t.Errorf("ranked candidates = %s, want DS,DB", got)
	}
}

func TestMatchAmbiguousPoolOrder(t *testing.T) {
	pool := []Element{
		{ID: "G1", Name: "grape"},
		{ID: "G2", Name: "graph"},
	}

	res, err := NewMatcher().Match("grap", pool, KindEntity)
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("Match: err = %v, want ErrAmbiguous", err)
	}
	if got := candidateIDs(res); got != "G1,G2" {
		t.Errorf("ranked candidates = %s, want pool order G1,G2", got)
	}
}

// TestMatchTieBandIgnoresThreshold pins the rule that the acceptance
// threshold applies to the top score only: a runner-up inside the tolerance
// band ties even when its own score is below the threshold.
func TestMatchTieBandIgnoresThreshold(t *testing.T) {
	candidate := strings.Repeat("a", 100)
	pool := []Element{
		{ID: "T1", Name: strings.Repeat("a", 55) + strings.Repeat("b", 45)},
		{ID: "T2", Name: strings.Repeat("a", 54) + strings.Repeat("b", 46)},
	}

	res, err := NewMatcher().Match(candidate, pool, KindEntity)
	if !errors.Is(err, ErrAmbiguous) {
		t.Fatalf("Match: err = %v, want ErrAmbiguous", err)
	}
	if got := candidateIDs(res); got != "T1,T2" {
		t.Fatalf("ranked candidates = %s, want T1,T2", got)
	}
	if res.Candidates[0].Score != 0.55 || res.Candidates[1].Score != 0.54 {
		t.Errorf("scores = %v/%v, want 0.55/0.54",
			res.Candidates[0].Score, res.Candidates[1].Score)
	}
}

func TestMatchDeterminism(t *testing.T) {
	pool := []Element{
		{ID: "DB", Name: "database"},
		{ID: "DS", Name: "dataset"},
	}
	m := NewMatcher(WithAmbiguityTolerance(0.1))

	first, firstErr := m.Match("data", pool, KindEntity)
	for i := 0; i < 100; i++ {
		res, err := m.Match("data", pool, KindEntity)
		if !errors.Is(err, ErrAmbiguous) || !errors.Is(firstErr, ErrAmbiguous) {
			t.Fatalf("iteration %d: err = %v, want ErrAmbiguous", i, err)
		}
		if res.Best != first.Best {
			t.Fatalf("iteration %d: Best = %+v, want %+v", i, res.Best, first.Best)
		}
		if len(res.Candidates) != len(first.Candidates) {
			t.Fatalf("iteration %d: %d candidates, want %d", i, len(res.Candidates), len(first.Candidates))
		}
		for j := range res.Candidates {
			if res.Candidates[j] != first.Candidates[j] {
				t.Fatalf("iteration %d: candidate %d = %+v, want %+v",
					i, j, res.Candidates[j], first.Candidates[j])
			}
		}
	}
}

func candidateIDs(res *Result) string {
	ids := make([]string, len(res.Candidates))
	for i, c := range res.Candidates {
		ids[i] = c.ID
	}
	return strings.Join(ids, ",")
}
