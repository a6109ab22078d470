// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package schemamatch reconciles loose caller intent against a discovered
// graph schema.
//
// Callers (typically an LLM planning layer or a human-facing query
// builder) name entity types, properties, and relationships in free text:
// "person", "works at", "start date". The Engine resolves those names
// against the published schema snapshot, validates filter conditions
// against the resolved property's declared type, and finds relationship
// paths between entity types, so that everything handed to downstream
// query generation is schema-valid by construction.
//
// # Composition
//
// The Engine is a facade over the subpackages:
//
//   - schema: the immutable GraphSchema model, snapshot Holder, and the
//     Weaviate schema adapter
//   - match: deterministic name scoring (normalization, edit distance,
//     description overlap, ambiguity detection)
//   - filter: operator and value validation against property types
//   - pathfind: bounded breadth-first search over the relationship graph
//   - querygen: rendering of validated filters and paths as Weaviate
//     query components
//   - resultcache: optional Badger-backed cache of match results
//
// # Usage
//
//	holder := schema.NewHolder()
//	// a discovery collaborator publishes snapshots as the database evolves
//	if _, err := holder.Publish(discovered); err != nil { ... }
//
//	engine, err := schemamatch.New(holder)
//	if err != nil { ... }
//
//	res, err := engine.MatchEntity(ctx, "person")
//	// res.Best.ID is a valid entity type id of the current snapshot
//
//	f, err := engine.ValidateFilter(ctx, "person", "start date",
//	    schema.OperatorGreaterThan, schema.StringValue("2020-01-01"))
//	// f references the canonical property name with a value narrowed to
//	// the property's declared type
//
// Every operation is a pure function of its inputs and the snapshot it
// reads: identical calls against the same snapshot id return identical
// results. Matching failures (no match, ambiguity, incompatible operator)
// are returned errors, never panics, and never mutate engine state.
//
// # Determinism and ambiguity
//
// Near-ties are not guessed. When two or more schema elements score
// within the ambiguity tolerance of the top score, the operation fails
// with match.ErrAmbiguous and the returned Result carries the ranked tied
// set for the caller to disambiguate.
package schemamatch
