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
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/filter"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/match"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/pathfind"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/telemetry"
)

// Engine resolves loose entity, property, and relationship references
// against the current schema snapshot and validates filter conditions
// and relationship paths for downstream query generation.
//
// An Engine is immutable after construction and safe for concurrent use.
// It holds no mutable state of its own: all operations read one snapshot
// from the holder at entry and work against it, so a Publish during an
// operation affects the next call, never the running one.
type Engine struct {
	holder  *schema.Holder
	matcher *match.Matcher
	filters *filter.Validator
	paths   *pathfind.Resolver
	cfg     settings
}

// New builds an Engine over holder. The holder is the engine's only
// schema source; operations fail with ErrNoSchema until something is
// published to it. Options are validated after they apply; an
// out-of-range tunable fails construction.
func New(holder *schema.Holder, opts ...Option) (*Engine, error) {
	if holder == nil {
		return nil, ErrNilHolder
	}

	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := optionsValidate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("engine options: %w", err)
	}

	matcher := match.NewMatcher(
		match.WithThreshold(cfg.Threshold),
		match.WithAmbiguityTolerance(cfg.AmbiguityTolerance),
		match.WithDescriptionWeight(cfg.DescriptionWeight),
	)

	return &Engine{
		holder:  holder,
		matcher: matcher,
		filters: filter.NewValidator(matcher),
		paths:   pathfind.NewResolver(pathfind.WithMaxHops(cfg.MaxHops)),
		cfg:     cfg,
	}, nil
}

// NewWithSchema wraps s in a fresh holder and builds an Engine over it.
// Convenience for embedders with a static schema; everything else should
// share a holder with the discovery collaborator.
func NewWithSchema(s *schema.GraphSchema, opts ...Option) (*Engine, error) {
	holder := schema.NewHolder()
	if _, err := holder.Publish(s); err != nil {
		return nil, err
	}
	return New(holder, opts...)
}

// Snapshot returns the schema snapshot and id the next operation will
// use, or (nil, NoSnapshot) while nothing is published.
func (e *Engine) Snapshot() (*schema.GraphSchema, schema.SnapshotID) {
	return e.holder.Current()
}

// MatchEntity resolves a loose entity name against the entity types of
// the current snapshot. See match.Matcher.Match for the scoring and
// ambiguity contract.
func (e *Engine) MatchEntity(ctx context.Context, name string) (*match.Result, error) {
	ctx, span := telemetry.StartSpan(ctx, e.cfg.TracerName, "schemamatch.match_entity",
		trace.WithAttributes(attribute.String("candidate", name)),
	)
	defer span.End()

	s, id, err := e.snapshot(span)
	if err != nil {
		return nil, fmt.Errorf("match entity %q: %w", name, err)
	}
	return e.matchCached(ctx, span, id, match.KindEntity, name, entityPool(s))
}

// MatchRelationship resolves a loose relationship name against the
// relationship types of the current snapshot.
func (e *Engine) MatchRelationship(ctx context.Context, name string) (*match.Result, error) {
	ctx, span := telemetry.StartSpan(ctx, e.cfg.TracerName, "schemamatch.match_relationship",
		trace.WithAttributes(attribute.String("candidate", name)),
	)
	defer span.End()

	s, id, err := e.snapshot(span)
	if err != nil {
		return nil, fmt.Errorf("match relationship %q: %w", name, err)
	}
	return e.matchCached(ctx, span, id, match.KindRelationship, name, relationshipPool(s))
}

// MatchProperty resolves the entity name first, then the property name
// within the resolved entity's declared properties. An ambiguous entity
// resolution propagates match.ErrAmbiguous before any property scoring.
func (e *Engine) MatchProperty(ctx context.Context, entityName, propertyName string) (*match.Result, error) {
	ctx, span := telemetry.StartSpan(ctx, e.cfg.TracerName, "schemamatch.match_property",
		trace.WithAttributes(
			attribute.String("entity", entityName),
			attribute.String("candidate", propertyName),
		),
	)
	defer span.End()

	s, id, err := e.snapshot(span)
	if err != nil {
		return nil, fmt.Errorf("match property %q.%q: %w", entityName, propertyName, err)
	}

	entity, err := e.resolveEntity(ctx, span, s, id, entityName)
	if err != nil {
		return nil, err
	}
	// Property pools are entity-scoped, so they bypass the result cache.
	return e.score(ctx, span, match.KindProperty, propertyName, propertyPool(entity))
}

// ValidateFilter resolves the entity by name, then delegates to the
// filter validator: property resolution, operator compatibility, value
// narrowing, and the advisory range annotation. See
// filter.Validator.ValidateFilter for the full contract.
func (e *Engine) ValidateFilter(ctx context.Context, entityName, propertyName string, op schema.Operator, value schema.Value) (*schema.EntityFilter, error) {
	ctx, span := telemetry.StartSpan(ctx, e.cfg.TracerName, "schemamatch.validate_filter",
		trace.WithAttributes(
			attribute.String("entity", entityName),
			attribute.String("property", propertyName),
			attribute.String("operator", string(op)),
		),
	)
	defer span.End()

	logger := telemetry.LoggerWithTrace(ctx, e.cfg.Logger)

	s, id, err := e.snapshot(span)
	if err != nil {
		return nil, fmt.Errorf("validate filter %s.%s: %w", entityName, propertyName, err)
	}

	entity, err := e.resolveEntity(ctx, span, s, id, entityName)
	if err != nil {
		if m := e.cfg.Metrics; m != nil {
			m.FilterValidationsTotal.Add(ctx, 1,
				metric.WithAttributes(attribute.String("outcome", "entity_unresolved")))
		}
		return nil, err
	}

	f, err := e.filters.ValidateFilter(entity, propertyName, op, value)
	if m := e.cfg.Metrics; m != nil {
		m.FilterValidationsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", filterOutcome(err))))
	}
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Debug("filter rejected",
			"entity", entity.Name, "property", propertyName, "operator", string(op), "error", err)
		return nil, err
	}

	if f.OutOfObservedRange {
		telemetry.AddSpanEvent(span, "out_of_observed_range")
		if m := e.cfg.Metrics; m != nil {
			m.RangeAnnotationsTotal.Add(ctx, 1)
		}
	}
	logger.Debug("filter validated",
		"entity", entity.Name, "filter", f.String())
	telemetry.SetSpanOK(span)
	return f, nil
}

// ResolvePath finds the shortest relationship chain between two entity
// type ids in the current snapshot. maxHops at or below zero uses the
// engine default. See pathfind.Resolver.ResolvePath for the search and
// fallback contract.
func (e *Engine) ResolvePath(ctx context.Context, sourceID, targetID string, maxHops int) (*schema.RelationshipPath, error) {
	ctx, span := telemetry.StartSpan(ctx, e.cfg.TracerName, "schemamatch.resolve_path",
		trace.WithAttributes(
			attribute.String("source", sourceID),
			attribute.String("target", targetID),
			attribute.Int("max_hops", maxHops),
		),
	)
	defer span.End()

	s, _, err := e.snapshot(span)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s -> %s: %w", sourceID, targetID, err)
	}
	return e.resolve(ctx, span, s, sourceID, targetID, maxHops)
}

// ResolvePathByName matches both endpoint names against the entity types
// first, then resolves the path between the winning ids. An ambiguous
// endpoint propagates match.ErrAmbiguous before any search.
func (e *Engine) ResolvePathByName(ctx context.Context, sourceName, targetName string, maxHops int) (*schema.RelationshipPath, error) {
	ctx, span := telemetry.StartSpan(ctx, e.cfg.TracerName, "schemamatch.resolve_path_by_name",
		trace.WithAttributes(
			attribute.String("source", sourceName),
			attribute.String("target", targetName),
			attribute.Int("max_hops", maxHops),
		),
	)
	defer span.End()

	s, id, err := e.snapshot(span)
	if err != nil {
		return nil, fmt.Errorf("resolve path %s -> %s: %w", sourceName, targetName, err)
	}

	source, err := e.resolveEntity(ctx, span, s, id, sourceName)
	if err != nil {
		return nil, err
	}
	target, err := e.resolveEntity(ctx, span, s, id, targetName)
	if err != nil {
		return nil, err
	}
	return e.resolve(ctx, span, s, source.ID, target.ID, maxHops)
}

// snapshot loads the current snapshot, recording the failure on the span
// when nothing is published yet.
func (e *Engine) snapshot(span trace.Span) (*schema.GraphSchema, schema.SnapshotID, error) {
	s, id := e.holder.Current()
	if s == nil {
		telemetry.RecordError(span, ErrNoSchema)
		return nil, schema.NoSnapshot, ErrNoSchema
	}
	return s, id, nil
}

// matchCached consults the advisory cache around score. Cache failures
// degrade to recomputation; only successful results are stored, so a
// cached entry never carries an ambiguity the caller missed.
func (e *Engine) matchCached(ctx context.Context, span trace.Span, id schema.SnapshotID, kind match.Kind, candidate string, pool []match.Element) (*match.Result, error) {
	if e.cfg.Cache == nil {
		return e.score(ctx, span, kind, candidate, pool)
	}

	logger := telemetry.LoggerWithTrace(ctx, e.cfg.Logger)
	kindAttr := attribute.String("kind", string(kind))

	cached, ok, err := e.cfg.Cache.Get(id, kind, candidate)
	switch {
	case err != nil:
		logger.Warn("result cache read failed, recomputing",
			"kind", string(kind), "candidate", candidate, "error", err)
	case ok:
		telemetry.AddSpanEvent(span, "cache_hit", kindAttr)
		if m := e.cfg.Metrics; m != nil {
			m.CacheHitsTotal.Add(ctx, 1, metric.WithAttributes(kindAttr))
		}
		telemetry.SetSpanOK(span)
		return cached, nil
	default:
		if m := e.cfg.Metrics; m != nil {
			m.CacheMissesTotal.Add(ctx, 1, metric.WithAttributes(kindAttr))
		}
	}

	res, err := e.score(ctx, span, kind, candidate, pool)
	if err != nil {
		return res, err
	}

	if err := e.cfg.Cache.Set(id, kind, candidate, res); err != nil {
		logger.Warn("result cache write failed",
			"kind", string(kind), "candidate", candidate, "error", err)
	}
	return res, nil
}

// score runs the matcher and records the outcome on the span, the
// logger, and the metrics bundle. The matcher error passes through
// unwrapped; it already names the kind and candidate.
func (e *Engine) score(ctx context.Context, span trace.Span, kind match.Kind, candidate string, pool []match.Element) (*match.Result, error) {
	logger := telemetry.LoggerWithTrace(ctx, e.cfg.Logger)

	start := time.Now()
	res, err := e.matcher.Match(candidate, pool, kind)
	elapsed := time.Since(start)

	outcome := matchOutcome(err)
	if m := e.cfg.Metrics; m != nil {
		kindAttr := attribute.String("kind", string(kind))
		m.MatchesTotal.Add(ctx, 1,
			metric.WithAttributes(kindAttr, attribute.String("outcome", outcome)))
		m.MatchDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(kindAttr))
		if err == nil {
			m.MatchScore.Record(ctx, res.Best.Score, metric.WithAttributes(kindAttr))
		}
	}

	if err != nil {
		telemetry.RecordError(span, err)
		logger.Debug("match rejected",
			"kind", string(kind), "candidate", candidate, "outcome", outcome, "error", err)
		// res is non-nil for ambiguity: the ranked tied set travels with
		// the error.
		return res, err
	}

	telemetry.SetSpanAttributes(span,
		attribute.String("resolved", res.Best.Name),
		attribute.Float64("score", res.Best.Score),
	)
	telemetry.SetSpanOK(span)
	logger.Debug("match accepted",
		"kind", string(kind), "candidate", candidate,
		"resolved", res.Best.Name, "score", res.Best.Score)
	return res, nil
}

// resolveEntity matches name against the snapshot's entity types and
// returns the winning EntityType. Shared by every operation that takes
// an entity name; internal resolution never guesses among ties.
func (e *Engine) resolveEntity(ctx context.Context, span trace.Span, s *schema.GraphSchema, id schema.SnapshotID, name string) (*schema.EntityType, error) {
	res, err := e.matchCached(ctx, span, id, match.KindEntity, name, entityPool(s))
	if err != nil {
		return nil, err
	}
	entity, ok := s.EntityByID(res.Best.ID)
	if !ok {
		// Unreachable while the pool and the cache key both derive from s.
		return nil, fmt.Errorf("resolve entity %q: id %q: %w", name, res.Best.ID, schema.ErrUnknownEntity)
	}
	return entity, nil
}

// resolve delegates to the path resolver and records the outcome.
func (e *Engine) resolve(ctx context.Context, span trace.Span, s *schema.GraphSchema, sourceID, targetID string, maxHops int) (*schema.RelationshipPath, error) {
	logger := telemetry.LoggerWithTrace(ctx, e.cfg.Logger)

	path, err := e.paths.ResolvePath(s, sourceID, targetID, maxHops)
	if m := e.cfg.Metrics; m != nil {
		m.PathResolutionsTotal.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", pathOutcome(path, err))))
	}
	if err != nil {
		telemetry.RecordError(span, err)
		logger.Debug("path resolution failed",
			"source", sourceID, "target", targetID, "error", err)
		return nil, err
	}

	if m := e.cfg.Metrics; m != nil {
		m.PathHops.Record(ctx, int64(len(path.Hops)))
		if path.FromSuggestedPattern {
			m.PatternFallbacksTotal.Add(ctx, 1)
		}
	}
	if path.FromSuggestedPattern {
		telemetry.AddSpanEvent(span, "pattern_fallback")
	}
	telemetry.SetSpanAttributes(span, attribute.Int("hops", len(path.Hops)))
	telemetry.SetSpanOK(span)
	logger.Debug("path resolved",
		"source", sourceID, "target", targetID,
		"hops", len(path.Hops), "from_pattern", path.FromSuggestedPattern)
	return path, nil
}

// entityPool builds the match pool from the snapshot's entity types in
// declaration order. Pool order is the matcher's final tie-breaker.
func entityPool(s *schema.GraphSchema) []match.Element {
	entities := s.Entities()
	pool := make([]match.Element, len(entities))
	for i, et := range entities {
		pool[i] = match.Element{ID: et.ID, Name: et.Name, Description: et.Description}
	}
	return pool
}

// relationshipPool builds the match pool from the snapshot's relationship
// types. The name doubles as the id.
func relationshipPool(s *schema.GraphSchema) []match.Element {
	rels := s.Relationships()
	pool := make([]match.Element, len(rels))
	for i, rt := range rels {
		pool[i] = match.Element{ID: rt.Name, Name: rt.Name, Description: rt.Description}
	}
	return pool
}

// propertyPool builds the match pool from one entity's declared
// properties in declaration order.
func propertyPool(entity *schema.EntityType) []match.Element {
	pool := make([]match.Element, len(entity.Properties))
	for i := range entity.Properties {
		p := &entity.Properties[i]
		pool[i] = match.Element{ID: p.Name, Name: p.Name, Description: p.Description}
	}
	return pool
}

// matchOutcome maps a matcher error to the metrics outcome label.
func matchOutcome(err error) string {
	switch {
	case err == nil:
		return "matched"
	case errors.Is(err, match.ErrAmbiguous):
		return "ambiguous"
	case errors.Is(err, match.ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, match.ErrNoMatch):
		return "no_match"
	default:
		return "error"
	}
}

// filterOutcome maps a validator error to the metrics outcome label.
func filterOutcome(err error) string {
	switch {
	case err == nil:
		return "validated"
	case errors.Is(err, filter.ErrUnknownProperty):
		return "unknown_property"
	case errors.Is(err, filter.ErrAmbiguousProperty):
		return "ambiguous_property"
	case errors.Is(err, filter.ErrIncompatibleOperator):
		return "incompatible_operator"
	case errors.Is(err, filter.ErrIncompatibleValue):
		return "incompatible_value"
	default:
		return "error"
	}
}

// pathOutcome maps a resolution result to the metrics outcome label.
func pathOutcome(path *schema.RelationshipPath, err error) string {
	switch {
	case err == nil && path.FromSuggestedPattern:
		return "pattern_fallback"
	case err == nil:
		return "resolved"
	case errors.Is(err, pathfind.ErrPathNotFound):
		return "not_found"
	case errors.Is(err, schema.ErrUnknownEntity):
		return "unknown_entity"
	default:
		return "error"
	}
}
