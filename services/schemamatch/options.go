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

import (
	"log/slog"
	"runtime"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianGraph/pkg/logging"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/match"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/pathfind"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/telemetry"
)

// Initialized in init(); shared by every engine construction.
var optionsValidate *validator.Validate

func init() {
	optionsValidate = validator.New()
}

// ResultCache is the advisory cache the match operations consult before
// scoring. resultcache.Cache implements it; any keyed store honoring the
// same contract works. The engine treats cache errors as misses and
// never fails an operation on one.
type ResultCache interface {
	Get(snapshot schema.SnapshotID, kind match.Kind, candidate string) (*match.Result, bool, error)
	Set(snapshot schema.SnapshotID, kind match.Kind, candidate string, res *match.Result) error
}

// settings collects every engine tunable. Fields are exported for
// validator reflection; the type stays unexported so construction goes
// through the functional options.
type settings struct {
	Threshold          float64 `validate:"gte=0,lte=1"`
	AmbiguityTolerance float64 `validate:"gte=0,lte=1"`
	DescriptionWeight  float64 `validate:"gte=0,lte=1"`
	// The hop bounds mirror pathfind.MinMaxHops and pathfind.MaxMaxHops.
	MaxHops          int    `validate:"gte=1,lte=16"`
	BatchConcurrency int    `validate:"gte=1"`
	TracerName       string `validate:"required"`

	Logger  *slog.Logger
	Metrics *telemetry.Metrics
	Cache   ResultCache
}

func defaultSettings() settings {
	return settings{
		Threshold:          match.DefaultThreshold,
		AmbiguityTolerance: match.DefaultAmbiguityTolerance,
		DescriptionWeight:  match.DefaultDescriptionWeight,
		MaxHops:            pathfind.DefaultMaxHops,
		BatchConcurrency:   runtime.GOMAXPROCS(0),
		TracerName:         "schemamatch",
		Logger:             logging.NewNop(),
	}
}

// Option configures an Engine during construction.
type Option func(*settings)

// WithThreshold sets the minimum score the best candidate must reach for
// a match to be accepted. The comparison is inclusive.
func WithThreshold(t float64) Option {
	return func(s *settings) { s.Threshold = t }
}

// WithAmbiguityTolerance sets how close to the top score a runner-up
// must land to count as tied with it.
func WithAmbiguityTolerance(t float64) Option {
	return func(s *settings) { s.AmbiguityTolerance = t }
}

// WithDescriptionWeight sets the factor applied to the description
// overlap score. Zero disables description scoring entirely.
func WithDescriptionWeight(w float64) Option {
	return func(s *settings) { s.DescriptionWeight = w }
}

// WithMaxHops sets the default search depth for path resolution. A
// per-call maxHops above zero overrides it.
func WithMaxHops(n int) Option {
	return func(s *settings) { s.MaxHops = n }
}

// WithBatchConcurrency caps how many batch items match concurrently.
// Defaults to runtime.GOMAXPROCS(0).
func WithBatchConcurrency(n int) Option {
	return func(s *settings) { s.BatchConcurrency = n }
}

// WithLogger sets the logger engine operations write through. Nil
// restores the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l == nil {
			l = logging.NewNop()
		}
		s.Logger = l
	}
}

// WithMetrics sets the telemetry bundle engine operations record to.
// The engine works without one; nil disables recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *settings) { s.Metrics = m }
}

// WithTracerName overrides the tracer name engine spans start under.
func WithTracerName(name string) Option {
	return func(s *settings) { s.TracerName = name }
}

// WithResultCache plugs an advisory result cache into the entity and
// relationship match operations. Only successful results are stored;
// read and write failures are logged at warn and treated as misses.
func WithResultCache(c ResultCache) Option {
	return func(s *settings) { s.Cache = c }
}
