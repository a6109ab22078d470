// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package match scores free-text names against pools of schema elements
// using normalized-edit-distance similarity with a down-weighted
// description signal. Matching is deterministic: identical inputs always
// produce identical results, and a tie inside the ambiguity tolerance is
// reported, never guessed through.
package match

import (
	"fmt"
	"sort"
	"strings"
)

// Kind labels the vocabulary a candidate is matched against. The value is
// part of wrapped error text and of cache keys, so the strings are stable.
type Kind string

const (
	KindEntity       Kind = "entity"
	KindProperty     Kind = "property"
	KindRelationship Kind = "relationship"
)

// Element is one member of a match pool: the identity the caller gets back,
// the display name that is scored, and optional prose whose token overlap
// with the candidate contributes a down-weighted secondary score.
type Element struct {
	ID          string
	Name        string
	Description string
}

// Candidate is one scored pool element. Score is in [0, 1]; 1 means the
// normalized names were identical.
type Candidate struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Result is the outcome of an accepted or ambiguous match.
//
// Best is the winning candidate. Candidates holds the ranked tied set when
// Ambiguous is true and exactly Best otherwise. An ambiguous Result is
// returned together with ErrAmbiguous: callers that only check the error
// fail safe, callers that want to disambiguate have the ranked set.
type Result struct {
	Best       Candidate   `json:"best"`
	Candidates []Candidate `json:"candidates"`
	Ambiguous  bool        `json:"ambiguous"`
}

// Default scoring parameters. The defaults are starting points, not
// requirements; all three are configurable per Matcher.
const (
	// DefaultThreshold is the minimum score the best candidate must reach
	// for a match to be accepted. The comparison is inclusive: a best
	// score of exactly the threshold is accepted.
	DefaultThreshold = 0.55

	// DefaultAmbiguityTolerance is how close to the top score a runner-up
	// must land to count as tied with it.
	DefaultAmbiguityTolerance = 0.02

	// DefaultDescriptionWeight scales the description overlap score before
	// it competes with the name similarity. Below 1 so the name signal
	// always dominates an equal description signal.
	DefaultDescriptionWeight = 0.4
)

// Matcher scores free-text names against pools of schema elements. The
// zero value is not usable; construct with NewMatcher. A Matcher is
// immutable after construction and safe for concurrent use.
type Matcher struct {
	threshold         float64
	ambiguityTol      float64
	descriptionWeight float64
}

// Option configures a Matcher during construction.
type Option func(*Matcher)

// WithThreshold sets the acceptance threshold. Values at or below 0 accept
// every best candidate; values above 1 reject everything except an exact
// name match.
func WithThreshold(t float64) Option {
	return func(m *Matcher) { m.threshold = t }
}

// WithAmbiguityTolerance sets the tie width. A negative tolerance behaves
// like zero: only candidates scoring exactly the top score tie.
func WithAmbiguityTolerance(t float64) Option {
	return func(m *Matcher) { m.ambiguityTol = t }
}

// WithDescriptionWeight sets the factor applied to the description overlap
// score. Zero disables description scoring entirely.
func WithDescriptionWeight(w float64) Option {
	return func(m *Matcher) { m.descriptionWeight = w }
}

// NewMatcher returns a Matcher with the default scoring parameters, then
// applies opts in order.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		threshold:         DefaultThreshold,
		ambiguityTol:      DefaultAmbiguityTolerance,
		descriptionWeight: DefaultDescriptionWeight,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// scoredElement pairs a pool element with its score and the normalized
// form of its name, kept for tie-break ranking.
type scoredElement struct {
	idx   int
	el    Element
	norm  string
	score float64
}

// Match scores candidate against every element of pool and returns the
// accepted match.
//
// A case-insensitive exact name match short-circuits with a score of 1.
// Otherwise every element scores
//
//	max(nameSimilarity, descriptionWeight * descriptionOverlap)
//
// and the best score must reach the threshold, or Match fails with
// ErrNoMatch. When two or more elements score within the ambiguity
// tolerance of the top, Match returns the ranked tied set together with
// ErrAmbiguous; it never guesses among ties. An empty pool fails with
// ErrNoCandidates.
//
// Match is a pure function of its inputs: identical candidate and pool
// always produce the identical Result. Pool order is the final tie-breaker,
// so callers must present pools in a stable order (schema declaration
// order, never map iteration order).
func (m *Matcher) Match(candidate string, pool []Element, kind Kind) (*Result, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("match %s %q: %w", kind, candidate, ErrNoCandidates)
	}

	norm := NormalizeName(candidate)

	// Exact name match wins outright. The first of several identically
	// named elements wins, per the pool-order tie-break.
	for _, el := range pool {
		if NormalizeName(el.Name) == norm {
			best := Candidate{ID: el.ID, Name: el.Name, Score: 1}
			return &Result{Best: best, Candidates: []Candidate{best}}, nil
		}
	}

	scored := make([]scoredElement, len(pool))
	for i, el := range pool {
		nameNorm := NormalizeName(el.Name)
		score := similarity(norm, nameNorm)
		if el.Description != "" && m.descriptionWeight > 0 {
			d := m.descriptionWeight * tokenOverlap(norm, NormalizeName(el.Description))
			if d > score {
				score = d
			}
		}
		scored[i] = scoredElement{idx: i, el: el, norm: nameNorm, score: score}
	}

	top := scored[0]
	for _, se := range scored[1:] {
		if se.score > top.score {
			top = se
		}
	}
	if top.score < m.threshold {
		return nil, fmt.Errorf("match %s %q: best candidate %q scored %.3f, threshold %.3f: %w",
			kind, candidate, top.el.Name, top.score, m.threshold, ErrNoMatch)
	}

	// The tied set is every element within the tolerance band of the top
	// score. The threshold applies to the top score only; a runner-up
	// inside the band ties even if its own score is below the threshold.
	tied := make([]scoredElement, 0, 1)
	for _, se := range scored {
		if se.score >= top.score-m.ambiguityTol {
			tied = append(tied, se)
		}
	}

	if len(tied) == 1 {
		best := Candidate{ID: top.el.ID, Name: top.el.Name, Score: top.score}
		return &Result{Best: best, Candidates: []Candidate{best}}, nil
	}

	rankTied(norm, tied)
	candidates := make([]Candidate, len(tied))
	for i, se := range tied {
		candidates[i] = Candidate{ID: se.el.ID, Name: se.el.Name, Score: se.score}
	}
	res := &Result{Best: candidates[0], Candidates: candidates, Ambiguous: true}
	return res, fmt.Errorf("match %s %q: %d candidates within %.3f of top score %.3f: %w",
		kind, candidate, len(tied), m.ambiguityTol, top.score, ErrAmbiguous)
}

// rankTied orders a tied set for presentation: elements whose normalized
// name contains the candidate as a substring first, then shorter names,
// then pool order. Scores inside the band do not participate in the
// ranking.
func rankTied(candidate string, tied []scoredElement) {
	sort.Slice(tied, func(i, j int) bool {
		a, b := tied[i], tied[j]
		aContains := strings.Contains(a.norm, candidate)
		bContains := strings.Contains(b.norm, candidate)
		if aContains != bContains {
			return aContains
		}
		if len(a.norm) != len(b.norm) {
			return len(a.norm) < len(b.norm)
		}
		return a.idx < b.idx
	})
}
