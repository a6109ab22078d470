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

import "errors"

// Sentinel errors for name matching. All are expected, recoverable outcomes
// of matching uncertain input; callers branch with errors.Is.
var (
	// ErrNoCandidates indicates the matcher was invoked with an empty pool.
	// A caller bug: there is nothing to match against, and the matcher
	// never retries internally.
	ErrNoCandidates = errors.New("no candidates to match against")

	// ErrNoMatch indicates the best score fell below the acceptance
	// threshold. Recoverable: lower the threshold, refine the candidate
	// text, or surface the miss to a human or an LLM.
	ErrNoMatch = errors.New("no match above threshold")

	// ErrAmbiguous indicates two or more elements tied for the top score
	// within the ambiguity tolerance. The accompanying Result carries the
	// full tied set in ranked order; the caller supplies the
	// disambiguation, the matcher never guesses.
	ErrAmbiguous = errors.New("ambiguous match")
)
