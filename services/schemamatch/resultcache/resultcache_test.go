// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resultcache

import (
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/match"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
)

func testResult() *match.Result {
	return &match.Result{
		Best: match.Candidate{ID: "c1", Name: "Person", Score: 0.857},
		Candidates: []match.Candidate{
			{ID: "c1", Name: "Person", Score: 0.857},
		},
	}
}

func openInMemory(t *testing.T) *Cache {
	t.Helper()
	c, err := New(InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dir is required")
}

func TestConfigFactories(t *testing.T) {
	t.Run("DefaultConfig is persistent", func(t *testing.T) {
		cfg := DefaultConfig("/var/cache/schemamatch")
		assert.Equal(t, "/var/cache/schemamatch", cfg.Dir)
		assert.False(t, cfg.InMemory)
		assert.Equal(t, time.Hour, cfg.TTL)
		assert.False(t, cfg.SyncWrites)
	})

	t.Run("InMemoryConfig has InMemory", func(t *testing.T) {
		cfg := InMemoryConfig()
		assert.True(t, cfg.InMemory)
		assert.Empty(t, cfg.Dir)
	})
}

func TestGetMissThenHit(t *testing.T) {
	c := openInMemory(t)
	snap := schema.SnapshotID("snap-1")

	res, found, err := c.Get(snap, match.KindEntity, "person")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, res)

	require.NoError(t, c.Set(snap, match.KindEntity, "person", testResult()))

	res, found, err = c.Get(snap, match.KindEntity, "person")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testResult(), res)
}

func TestSetNilResult(t *testing.T) {
	c := openInMemory(t)

	err := c.Set(schema.SnapshotID("snap-1"), match.KindEntity, "person", nil)
	require.ErrorIs(t, err, ErrNilResult)
}

func TestKeyNormalizesCandidate(t *testing.T) {
	c := openInMemory(t)
	snap := schema.SnapshotID("snap-1")

	require.NoError(t, c.Set(snap, match.KindRelationship, "WORKS_AT", testResult()))

	// Spelling variants of the same lookup share an entry.
	_, found, err := c.Get(snap, match.KindRelationship, "works at")
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = c.Get(snap, match.KindRelationship, "  Works-At  ")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSnapshotIsolation(t *testing.T) {
	c := openInMemory(t)

	require.NoError(t, c.Set(schema.SnapshotID("snap-1"), match.KindEntity, "person", testResult()))

	// A new snapshot id never sees the old snapshot's entries.
	_, found, err := c.Get(schema.SnapshotID("snap-2"), match.KindEntity, "person")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKindIsolation(t *testing.T) {
	c := openInMemory(t)
	snap := schema.SnapshotID("snap-1")

	require.NoError(t, c.Set(snap, match.KindEntity, "person", testResult()))

	_, found, err := c.Get(snap, match.KindProperty, "person")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	snap := schema.SnapshotID("snap-1")

	c, err := New(DefaultConfig(dir))
	require.NoError(t, err)
	require.NoError(t, c.Set(snap, match.KindEntity, "person", testResult()))
	require.NoError(t, c.Close())

	c2, err := New(DefaultConfig(dir))
	require.NoError(t, err)
	defer c2.Close()

	res, found, err := c2.Get(snap, match.KindEntity, "person")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, testResult(), res)
}

func TestGetAfterCloseReturnsError(t *testing.T) {
	c, err := New(InMemoryConfig())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, found, err := c.Get(schema.SnapshotID("snap-1"), match.KindEntity, "person")
	require.Error(t, err)
	assert.False(t, found)
}

func TestTTLApplied(t *testing.T) {
	t.Run("entries carry expiry when TTL set", func(t *testing.T) {
		c := openInMemory(t)
		snap := schema.SnapshotID("snap-1")

		require.NoError(t, c.Set(snap, match.KindEntity, "person", testResult()))

		err := c.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(cacheKey(snap, match.KindEntity, "person"))
			require.NoError(t, err)
			assert.NotZero(t, item.ExpiresAt())
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("zero TTL disables expiry", func(t *testing.T) {
		cfg := InMemoryConfig()
		cfg.TTL = 0
		c, err := New(cfg)
		require.NoError(t, err)
		defer c.Close()

		snap := schema.SnapshotID("snap-1")
		require.NoError(t, c.Set(snap, match.KindEntity, "person", testResult()))

		err = c.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get(cacheKey(snap, match.KindEntity, "person"))
			require.NoError(t, err)
			assert.Zero(t, item.ExpiresAt())
			return nil
		})
		require.NoError(t, err)
	})
}

func TestRoundTripPreservesAmbiguity(t *testing.T) {
	c := openInMemory(t)
	snap := schema.SnapshotID("snap-1")

	stored := &match.Result{
		Best: match.Candidate{ID: "a2", Name: "abzc", Score: 0.75},
		Candidates: []match.Candidate{
			{ID: "a2", Name: "abzc", Score: 0.75},
			{ID: "a1", Name: "abcd", Score: 0.75},
		},
		Ambiguous: true,
	}
	require.NoError(t, c.Set(snap, match.KindEntity, "abc", stored))

	res, found, err := c.Get(snap, match.KindEntity, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, res.Ambiguous)
	assert.Len(t, res.Candidates, 2)
	assert.Equal(t, stored, res)
}
