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
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SnapshotID names one published schema snapshot. Because matching is a
// pure function of (input, snapshot), the id doubles as the pool identity
// for external result caches.
type SnapshotID string

// NoSnapshot is the zero SnapshotID, returned while no schema has been
// published yet.
const NoSnapshot SnapshotID = ""

// snapshotEntry pairs a frozen schema with its identity. Swapped as a unit
// so readers never observe a schema under one id and metadata under another.
type snapshotEntry struct {
	schema      *GraphSchema
	id          SnapshotID
	publishedAt time.Time
}

// Holder publishes immutable schema snapshots to concurrent readers.
//
// The discovery collaborator owns the write side: it constructs a complete
// GraphSchema and publishes it wholesale. Readers always see either the
// previous or the new complete snapshot, never a partial one, because the
// swap is a single atomic pointer store.
//
// Thread Safety: all methods are safe for concurrent use.
type Holder struct {
	cur atomic.Pointer[snapshotEntry]
}

// NewHolder returns an empty Holder. Current returns (nil, NoSnapshot)
// until the first Publish.
func NewHolder() *Holder {
	return &Holder{}
}

// Publish replaces the current snapshot with s and mints a fresh id for it.
//
// Description:
//
//	Publishing the same *GraphSchema twice mints two distinct ids; the id
//	names the publication, not the pointer. Publish never mutates s.
//
// Inputs:
//
//	s - the frozen schema to publish. Must be non-nil.
//
// Outputs:
//
//	SnapshotID - the id minted for this publication.
//	error - wraps ErrInvalidSchema when s is nil.
func (h *Holder) Publish(s *GraphSchema) (SnapshotID, error) {
	if s == nil {
		return NoSnapshot, fmt.Errorf("%w: cannot publish nil schema", ErrInvalidSchema)
	}
	entry := &snapshotEntry{
		schema:      s,
		id:          SnapshotID(uuid.NewString()),
		publishedAt: time.Now(),
	}
	h.cur.Store(entry)
	return entry.id, nil
}

// Current returns the published snapshot and its id, or (nil, NoSnapshot)
// when nothing has been published.
func (h *Holder) Current() (*GraphSchema, SnapshotID) {
	entry := h.cur.Load()
	if entry == nil {
		return nil, NoSnapshot
	}
	return entry.schema, entry.id
}

// PublishedAt returns when the current snapshot was published, or the zero
// time when nothing has been published.
func (h *Holder) PublishedAt() time.Time {
	entry := h.cur.Load()
	if entry == nil {
		return time.Time{}
	}
	return entry.publishedAt
}
