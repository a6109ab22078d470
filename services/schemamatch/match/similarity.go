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

import "strings"

// NormalizeName prepares a name for similarity scoring: lowercase, leading
// and trailing whitespace trimmed, and runs of separator characters (space,
// tab, underscore, hyphen) folded into a single space. "WORKS_AT" and
// "works at" normalize identically; other punctuation is kept and
// participates in the edit distance.
//
// Exported because external result caches key on the normalized candidate:
// two spellings that normalize identically always score identically.
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range strings.ToLower(s) {
		if r == ' ' || r == '\t' || r == '_' || r == '-' {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte(' ')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// similarity returns the normalized Levenshtein similarity of two already
// normalized strings in [0, 1].
//
// The value is computed as (maxLen - distance) / maxLen rather than
// 1 - distance/maxLen: the former divides two exact integers, so ratios
// like 11/20 land exactly on the float literal 0.55 and threshold
// comparisons at the boundary behave as documented.
func similarity(a, b string) float64 {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein(a, b)
	return float64(maxLen-dist) / float64(maxLen)
}

// tokenOverlap returns the fraction of candidate tokens present in the
// description's token set, in [0, 1]. Used as the description similarity:
// descriptions are prose, so edit distance against them is meaningless,
// while shared words are a real signal.
func tokenOverlap(candidate, description string) float64 {
	candTokens := tokens(candidate)
	if len(candTokens) == 0 {
		return 0
	}

	descTokens := tokens(description)
	if len(descTokens) == 0 {
		return 0
	}
	descSet := make(map[string]struct{}, len(descTokens))
	for _, tok := range descTokens {
		descSet[tok] = struct{}{}
	}

	matched := 0
	for _, tok := range candTokens {
		if _, ok := descSet[tok]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(candTokens))
}

// wordPunct is the punctuation stripped from token edges so that prose
// like "Employs people." still yields the token "people".
const wordPunct = ".,;:!?()[]{}\"'`"

// tokens splits s on whitespace and strips surrounding punctuation,
// dropping tokens that were punctuation only.
func tokens(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, wordPunct)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// levenshtein computes the edit distance between two strings.
//
// Uses space-optimized dynamic programming with two rows instead of a full
// matrix, reducing space complexity from O(mn) to O(min(m,n)).
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Ensure a is the shorter string for space optimization
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)

	// Distance from the empty prefix
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		for i := 1; i <= len(a); i++ {
			if a[i-1] == b[j-1] {
				curr[i] = prev[i-1]
			} else {
				curr[i] = 1 + minOf3(prev[i-1], prev[i], curr[i-1])
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// minOf3 returns the minimum of three integers.
func minOf3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
