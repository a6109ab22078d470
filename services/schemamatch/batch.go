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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/match"
	"github.com/AleutianAI/AleutianGraph/services/schemamatch/telemetry"
)

// BatchResult pairs one requested name with its resolution. Exactly one
// of Result and Err describes the outcome, except for ambiguity, where
// Result carries the tied set alongside Err.
type BatchResult struct {
	// Name is the requested candidate, as given.
	Name string `json:"name"`

	// Result is the resolution for Name, nil when matching failed
	// outright.
	Result *match.Result `json:"result,omitempty"`

	// Err is the per-name failure, nil on success. Batch-level failures
	// (a cancelled context) surface on the call instead.
	Err error `json:"-"`
}

// BatchMatchEntities resolves each name against the entity types of one
// snapshot, read once at entry. Results are index-aligned with names;
// per-name failures land in the corresponding BatchResult and never
// abort the batch. The returned error is non-nil only when no schema is
// published or the context ends before every name is scored, in which
// case the results are discarded.
func (e *Engine) BatchMatchEntities(ctx context.Context, names []string) ([]BatchResult, error) {
	return e.batchMatch(ctx, "schemamatch.batch_match_entities", match.KindEntity, names)
}

// BatchMatchRelationships is BatchMatchEntities over the relationship
// types.
func (e *Engine) BatchMatchRelationships(ctx context.Context, names []string) ([]BatchResult, error) {
	return e.batchMatch(ctx, "schemamatch.batch_match_relationships", match.KindRelationship, names)
}

func (e *Engine) batchMatch(ctx context.Context, spanName string, kind match.Kind, names []string) ([]BatchResult, error) {
	ctx, span := telemetry.StartSpan(ctx, e.cfg.TracerName, spanName,
		trace.WithAttributes(attribute.Int("count", len(names))),
	)
	defer span.End()

	s, id, err := e.snapshot(span)
	if err != nil {
		return nil, err
	}

	var pool []match.Element
	if kind == match.KindEntity {
		pool = entityPool(s)
	} else {
		pool = relationshipPool(s)
	}

	results := make([]BatchResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.BatchConcurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.matchCached(gctx, span, id, kind, name, pool)
			results[i] = BatchResult{Name: name, Result: res, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetSpanOK(span)
	return results, nil
}
