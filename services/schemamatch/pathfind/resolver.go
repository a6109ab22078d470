// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package pathfind derives directional relationship chains between entity
// types over the schema's adjacency. Search is breadth-first, so the first
// path found has the fewest hops; equal-length alternatives resolve by
// relationship declaration order, never by map iteration.
package pathfind

import (
	"errors"
	"fmt"
	"slices"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
)

// Hop bounds for a single resolution. The cap keeps a pathological schema
// from turning one lookup into an unbounded exploration.
const (
	// DefaultMaxHops is the search depth used when the caller does not
	// supply one.
	DefaultMaxHops = 4

	// MinMaxHops is the smallest usable depth.
	MinMaxHops = 1

	// MaxMaxHops is the largest depth a caller may request.
	MaxMaxHops = 16
)

// ErrPathNotFound indicates no relationship chain within the hop bound and
// no applicable suggested pattern. Recoverable: retry with a larger bound.
var ErrPathNotFound = errors.New("no relationship path found")

// Resolver finds relationship paths between entity types. A Resolver is
// immutable after construction and safe for concurrent use.
type Resolver struct {
	maxHops int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxHops sets the default search depth, clamped to [MinMaxHops,
// MaxMaxHops].
func WithMaxHops(n int) Option {
	return func(r *Resolver) { r.maxHops = clampHops(n) }
}

// NewResolver returns a Resolver with DefaultMaxHops, then applies opts.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{maxHops: DefaultMaxHops}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func clampHops(n int) int {
	if n < MinMaxHops {
		return MinMaxHops
	}
	if n > MaxMaxHops {
		return MaxMaxHops
	}
	return n
}

// bfsNode is one frontier entry: an entity-type name and its hop distance
// from the source.
type bfsNode struct {
	name  string
	depth int
}

// cameFrom records the hop that first reached an entity-type name.
type cameFrom struct {
	prev string
	hop  schema.Hop
}

// ResolvePath finds the shortest directional relationship chain from
// sourceID to targetID. maxHops bounds the search depth; values at or
// below zero use the resolver's default, values above MaxMaxHops clamp.
//
// Identical source and target short-circuit with a valid zero-hop path.
// Unknown ids fail with schema.ErrUnknownEntity before any search. When
// structural search exhausts the bound, the schema's suggested patterns
// are scanned in order for one whose endpoints match; a hit returns a
// single-hop advisory path with FromSuggestedPattern set. Otherwise
// ResolvePath fails with ErrPathNotFound naming the bound.
func (r *Resolver) ResolvePath(s *schema.GraphSchema, sourceID, targetID string, maxHops int) (*schema.RelationshipPath, error) {
	if s == nil {
		return nil, fmt.Errorf("resolve path: %w: nil schema", schema.ErrInvalidSchema)
	}
	source, ok := s.EntityByID(sourceID)
	if !ok {
		return nil, fmt.Errorf("resolve path: source %q: %w", sourceID, schema.ErrUnknownEntity)
	}
	target, ok := s.EntityByID(targetID)
	if !ok {
		return nil, fmt.Errorf("resolve path: target %q: %w", targetID, schema.ErrUnknownEntity)
	}

	if sourceID == targetID {
		return &schema.RelationshipPath{
			SourceEntityTypeID: sourceID,
			TargetEntityTypeID: targetID,
		}, nil
	}

	limit := r.maxHops
	if maxHops > 0 {
		limit = clampHops(maxHops)
	}

	if path := r.search(s, source.Name, target.Name, limit); path != nil {
		path.SourceEntityTypeID = sourceID
		path.TargetEntityTypeID = targetID
		return path, nil
	}

	// Structural search failed; fall back to the advisory patterns.
	// Patterns match on entity names, not ids.
	for _, p := range s.Patterns() {
		if p.From == source.Name && p.To == target.Name {
			return &schema.RelationshipPath{
				SourceEntityTypeID:   sourceID,
				TargetEntityTypeID:   targetID,
				Hops:                 []schema.Hop{{Relationship: p.Relationship, Direction: schema.DirectionOutgoing}},
				FromSuggestedPattern: true,
			}, nil
		}
	}

	return nil, fmt.Errorf("resolve path: %s -> %s: no path within %d hops: %w",
		sourceID, targetID, limit, ErrPathNotFound)
}

// search runs the bounded breadth-first search and reconstructs the hop
// sequence from parent pointers. Returns nil when the goal is unreachable
// within limit hops.
func (r *Resolver) search(s *schema.GraphSchema, start, goal string, limit int) *schema.RelationshipPath {
	visited := map[string]bool{start: true}
	from := make(map[string]cameFrom)
	queue := []bfsNode{{name: start, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth == limit {
			continue
		}

		for _, n := range s.Neighbors(cur.name) {
			if visited[n.Target] {
				continue
			}
			visited[n.Target] = true
			from[n.Target] = cameFrom{
				prev: cur.name,
				hop:  schema.Hop{Relationship: n.Relationship, Direction: n.Direction},
			}
			if n.Target == goal {
				return &schema.RelationshipPath{Hops: reconstructHops(from, start, goal)}
			}
			queue = append(queue, bfsNode{name: n.Target, depth: cur.depth + 1})
		}
	}
	return nil
}

// reconstructHops walks the parent pointers back from goal to start and
// reverses the collected hops into traversal order.
func reconstructHops(from map[string]cameFrom, start, goal string) []schema.Hop {
	hops := make([]schema.Hop, 0, 4)
	for name := goal; name != start; {
		cf := from[name]
		hops = append(hops, cf.hop)
		name = cf.prev
	}
	slices.Reverse(hops)
	return hops
}
