// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resultcache persists accepted match results in BadgerDB.
//
// Matching is deterministic per schema snapshot, so a result for
// (snapshot, kind, candidate) never goes stale: the snapshot id in the key
// retires every entry the moment a new schema is published. Entries are
// TTL-bounded only to cap disk growth from retired snapshots.
//
// The cache is strictly advisory. Callers treat every error as a miss and
// recompute; only accepted results are ever stored.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
// This package follows Apache 2.0 guidelines for attribution and usage.
package resultcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/match"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
)

// ErrNilResult is returned by Set when called without a result.
var ErrNilResult = errors.New("nil result")

// Config holds configuration for the result cache.
type Config struct {
	// Dir is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Dir string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// TTL bounds the lifetime of cache entries. Zero disables expiry.
	TTL time.Duration

	// SyncWrites enables synchronous writes. Off by default: every entry
	// is recomputable, so durability buys nothing here.
	SyncWrites bool

	// Logger is the logger for BadgerDB operations.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns a persistent-cache configuration rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir: dir,
		TTL: time.Hour,
	}
}

// InMemoryConfig returns configuration optimized for testing.
func InMemoryConfig() Config {
	return Config{
		InMemory: true,
		TTL:      time.Hour,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Cache is a BadgerDB-backed store of accepted match results.
//
// Thread Safety: safe for concurrent use.
type Cache struct {
	db  *badger.DB
	ttl time.Duration
}

// New opens the cache store described by cfg.
//
// The directory is created if it doesn't exist. Callers must Close the
// returned cache when done.
func New(cfg Config) (*Cache, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("dir is required for a persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil) // Disable BadgerDB's internal logging
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return &Cache{db: db, ttl: cfg.TTL}, nil
}

// Close releases the underlying store.
func (c *Cache) Close() error {
	return c.db.Close()
}

// cacheKey builds the storage key for one cached result. Candidate names
// are normalized so spelling variants of the same lookup share an entry.
func cacheKey(snapshot schema.SnapshotID, kind match.Kind, candidate string) []byte {
	return []byte(fmt.Sprintf("match/%s/%s/%s", snapshot, kind, match.NormalizeName(candidate)))
}

// Get looks up a cached result.
//
// The second return reports whether the entry was found; an absent key is
// not an error. Errors mean the store itself failed and the caller should
// recompute.
func (c *Cache) Get(snapshot schema.SnapshotID, kind match.Kind, candidate string) (*match.Result, bool, error) {
	var res match.Result
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(snapshot, kind, candidate))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &res)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s/%s: %w", kind, candidate, err)
	}
	return &res, true, nil
}

// Set stores an accepted result under (snapshot, kind, candidate).
//
// Entries expire after the configured TTL. Storing a nil result returns
// ErrNilResult; rejections are never cached because their taxonomy errors
// carry context a replay could not reconstruct.
func (c *Cache) Set(snapshot schema.SnapshotID, kind match.Kind, candidate string, res *match.Result) error {
	if res == nil {
		return ErrNilResult
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("cache encode %s/%s: %w", kind, candidate, err)
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(cacheKey(snapshot, kind, candidate), payload)
		if c.ttl > 0 {
			entry = entry.WithTTL(c.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache set %s/%s: %w", kind, candidate, err)
	}
	return nil
}
