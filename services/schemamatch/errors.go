// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package schemamatch

import "errors"

// Engine construction and precondition errors. Callers branch with
// errors.Is; matching, validation, and path errors come from the
// subpackages and keep their own sentinels.
var (
	// ErrNilHolder indicates New was called without a snapshot holder.
	ErrNilHolder = errors.New("holder must not be nil")

	// ErrNoSchema indicates nothing has been published to the holder yet.
	// Operations fail fast instead of matching against an empty pool;
	// retry after the discovery collaborator publishes a snapshot.
	ErrNoSchema = errors.New("no schema published")
)
