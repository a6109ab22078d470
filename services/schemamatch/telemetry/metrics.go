// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics contains pre-defined metrics for the schema matching engine.
//
// Description:
//
//	Provides standard counters and histograms for match operations, filter
//	validation, path resolution, and the result cache. All metrics use the
//	"schemamatch_" prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// --- Match Metrics ---

	// MatchesTotal counts match operations by kind and outcome
	// (matched, no_match, ambiguous, no_candidates).
	MatchesTotal metric.Int64Counter

	// MatchDuration records match operation duration in seconds.
	MatchDuration metric.Float64Histogram

	// MatchScore records the winning score distribution for accepted matches.
	MatchScore metric.Float64Histogram

	// --- Filter Metrics ---

	// FilterValidationsTotal counts filter validations by outcome.
	FilterValidationsTotal metric.Int64Counter

	// RangeAnnotationsTotal counts filters flagged as outside the
	// observed property range.
	RangeAnnotationsTotal metric.Int64Counter

	// --- Path Metrics ---

	// PathResolutionsTotal counts path resolutions by outcome.
	PathResolutionsTotal metric.Int64Counter

	// PathHops records the hop count distribution of resolved paths.
	PathHops metric.Int64Histogram

	// PatternFallbacksTotal counts resolutions that fell back to a
	// suggested pattern after the structural search failed.
	PatternFallbacksTotal metric.Int64Counter

	// --- Cache Metrics ---

	// CacheHitsTotal counts result cache hits by kind.
	CacheHitsTotal metric.Int64Counter

	// CacheMissesTotal counts result cache misses by kind.
	CacheMissesTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
//
// Description:
//
//	Registers all pre-defined metrics with the provided meter.
//	Returns an error if any metric registration fails.
//
// Inputs:
//
//	meter - The OTel meter to use for metric registration.
//
// Outputs:
//
//	*Metrics - The metrics instance with all counters and histograms initialized.
//	error - Non-nil if metric registration fails.
//
// Example:
//
//	meter := otel.Meter("schemamatch")
//	metrics, err := telemetry.NewMetrics(meter)
//	if err != nil {
//	    return fmt.Errorf("create metrics: %w", err)
//	}
//	metrics.MatchesTotal.Add(ctx, 1, ...)
//
// Thread Safety: Safe for concurrent use after creation.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	// --- Match Metrics ---
	m.MatchesTotal, err = meter.Int64Counter(
		"schemamatch_matches_total",
		metric.WithDescription("Total match operations by kind and outcome"),
		metric.WithUnit("{match}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create matches_total: %w", err)
	}

	m.MatchDuration, err = meter.Float64Histogram(
		"schemamatch_match_duration_seconds",
		metric.WithDescription("Match operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create match_duration: %w", err)
	}

	m.MatchScore, err = meter.Float64Histogram(
		"schemamatch_match_score",
		metric.WithDescription("Winning score distribution for accepted matches"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1),
	)
	if err != nil {
		return nil, fmt.Errorf("create match_score: %w", err)
	}

	// --- Filter Metrics ---
	m.FilterValidationsTotal, err = meter.Int64Counter(
		"schemamatch_filter_validations_total",
		metric.WithDescription("Total filter validations by outcome"),
		metric.WithUnit("{validation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create filter_validations_total: %w", err)
	}

	m.RangeAnnotationsTotal, err = meter.Int64Counter(
		"schemamatch_range_annotations_total",
		metric.WithDescription("Filters flagged as outside the observed property range"),
		metric.WithUnit("{filter}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create range_annotations_total: %w", err)
	}

	// --- Path Metrics ---
	m.PathResolutionsTotal, err = meter.Int64Counter(
		"schemamatch_path_resolutions_total",
		metric.WithDescription("Total path resolutions by outcome"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create path_resolutions_total: %w", err)
	}

	m.PathHops, err = meter.Int64Histogram(
		"schemamatch_path_hops",
		metric.WithDescription("Hop count distribution of resolved paths"),
		metric.WithUnit("{hop}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 4, 8, 16),
	)
	if err != nil {
		return nil, fmt.Errorf("create path_hops: %w", err)
	}

	m.PatternFallbacksTotal, err = meter.Int64Counter(
		"schemamatch_pattern_fallbacks_total",
		metric.WithDescription("Path resolutions that fell back to a suggested pattern"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create pattern_fallbacks_total: %w", err)
	}

	// --- Cache Metrics ---
	m.CacheHitsTotal, err = meter.Int64Counter(
		"schemamatch_cache_hits_total",
		metric.WithDescription("Result cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache_hits_total: %w", err)
	}

	m.CacheMissesTotal, err = meter.Int64Counter(
		"schemamatch_cache_misses_total",
		metric.WithDescription("Result cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cache_misses_total: %w", err)
	}

	return m, nil
}
