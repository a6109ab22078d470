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

import "errors"

// Sentinel errors for schema lookups and structural validation. Callers
// should test with errors.Is; every error returned by this package wraps
// one of these.
var (
	// ErrInvalidSchema indicates the schema input was structurally unusable
	// (nil input, empty entity name, duplicate entity id).
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrUnknownEntity indicates a referenced entity id or name is not
	// present in the schema. Usually a stale reference after a snapshot
	// swap, or a caller typo.
	ErrUnknownEntity = errors.New("unknown entity type")

	// ErrUnknownRelationship indicates a referenced relationship name is
	// not present in the schema.
	ErrUnknownRelationship = errors.New("unknown relationship type")

	// ErrInvalidPath indicates a relationship path whose hops are not
	// label-compatible under the schema being validated against.
	ErrInvalidPath = errors.New("invalid relationship path")
)
