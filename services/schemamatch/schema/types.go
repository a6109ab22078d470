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
	"time"
)

// CountUnknown is the EntityType.Count value meaning no cardinality hint
// was supplied.
const CountUnknown int64 = -1

// Range is the observed or declared min/max for an ordered property.
// Min and Max are Values of the property's data type.
//
// Ranges are advisory sampling hints: the filter validator annotates
// out-of-range comparisons instead of rejecting them.
type Range struct {
	// Min is the lower bound, inclusive.
	Min Value

	// Max is the upper bound, inclusive.
	Max Value
}

// NewIntRange returns a Range with integer bounds.
func NewIntRange(min, max int64) Range {
	return Range{Min: IntValue(min), Max: IntValue(max)}
}

// NewFloatRange returns a Range with float bounds.
func NewFloatRange(min, max float64) Range {
	return Range{Min: FloatValue(min), Max: FloatValue(max)}
}

// NewTimeRange returns a Range with time bounds.
func NewTimeRange(min, max time.Time) Range {
	return Range{Min: TimeValue(min), Max: TimeValue(max)}
}

// PropertyInfo is one declared field on an entity type.
type PropertyInfo struct {
	// Name is the canonical property name. Matching output always refers
	// to this name, never to the caller's raw text.
	Name string

	// Description is optional free text used as a secondary matching signal.
	Description string

	// DataType is the declared value type.
	DataType DataType

	// Range is the observed min/max for ordered types. Nil when unknown
	// or not applicable.
	Range *Range
}

// EntityType is one node label in the schema.
type EntityType struct {
	// ID is the stable identifier used by filters and paths.
	ID string

	// Name is the display name and the primary matching target.
	Name string

	// Description is optional free text used as a secondary matching signal.
	Description string

	// Properties holds the declared fields in declaration order.
	// Names are unique within an entity.
	Properties []PropertyInfo

	// Count is an optional cardinality hint (instances in the workspace).
	// CountUnknown when the discovery layer supplied none.
	Count int64
}

// Property returns the property with the given canonical name.
// Lookup is exact; fuzzy resolution is the matcher's job.
func (e *EntityType) Property(name string) (*PropertyInfo, bool) {
	for i := range e.Properties {
		if e.Properties[i].Name == name {
			return &e.Properties[i], true
		}
	}
	return nil, false
}

// RelationshipType is a directed edge label between entity types.
type RelationshipType struct {
	// Name identifies the relationship and is the primary matching target.
	Name string

	// Description is optional free text used as a secondary matching signal.
	Description string

	// FromLabels holds the entity-type names that may originate this edge.
	FromLabels []string

	// ToLabels holds the entity-type names that may terminate this edge.
	// FromLabels == ToLabels is a legal self-referential relationship.
	ToLabels []string
}

// SuggestedPattern is a precomputed example traversal used as a fallback
// when structural path search fails. Advisory only; never authoritative
// over the relationship label sets.
type SuggestedPattern struct {
	// From is the source entity-type name.
	From string

	// Relationship is the relationship-type name.
	Relationship string

	// To is the target entity-type name.
	To string
}

// Neighbor is one traversable hop out of an entity type, precomputed at
// schema construction for the path resolver.
type Neighbor struct {
	// Relationship is the relationship-type name taken.
	Relationship string

	// Direction records whether the hop follows the edge (outgoing) or
	// runs against it (incoming).
	Direction Direction

	// Target is the entity-type name reached by taking this hop.
	Target string
}

// GraphSchema is the aggregate root: the complete semantic schema of one
// workspace at one version.
//
// Thread Safety:
//
//	GraphSchema is immutable after NewGraphSchema returns. All accessors
//	are safe for concurrent use from any number of goroutines without
//	locking; none of them allocate per call beyond their return values.
//
// Lifecycle:
//
//  1. The discovery collaborator assembles entities/relationships/patterns.
//  2. NewGraphSchema freezes them and builds the secondary indexes.
//  3. The schema is published (see Holder) and queried until the workspace
//     schema changes, then discarded wholesale.
//
// NewGraphSchema takes ownership of everything passed in; callers must not
// mutate the entity or relationship structs afterwards.
type GraphSchema struct {
	// entities holds entity types in declaration order. Iteration order is
	// load-bearing: matcher pools and path tie-breaking depend on it.
	entities []*EntityType

	// relationships holds relationship types in declaration order.
	relationships []*RelationshipType

	// patterns holds advisory traversals in declaration order.
	patterns []SuggestedPattern

	// entitiesByID indexes entities by id for O(1) lookup.
	entitiesByID map[string]*EntityType

	// entitiesByName indexes entities by exact display name. Relationship
	// label sets reference entities by name, so path resolution needs this.
	entitiesByName map[string]*EntityType

	// relationshipsByName indexes relationships by name.
	relationshipsByName map[string]*RelationshipType

	// adjacency maps an entity-type name to its traversable hops, in
	// relationship declaration order with outgoing before incoming.
	// Precomputed so path resolution never iterates relationships per call.
	adjacency map[string][]Neighbor
}

// NewGraphSchema freezes a schema and builds its lookup indexes.
//
// Description:
//
//	Validates the structural minimum needed to operate (entities present
//	with non-empty unique identities) and builds the id, name and adjacency
//	indexes. Deeper well-formedness is the discovery collaborator's
//	responsibility: unknown label names or duplicate property names do not
//	fail here, they surface as lookup errors at call time.
//
// Inputs:
//
//	entities - entity types in declaration order. An empty ID defaults to
//	the entity's Name.
//	relationships - relationship types in declaration order. Nil entries
//	are skipped.
//	patterns - advisory traversals, may be nil.
//
// Outputs:
//
//	*GraphSchema - the frozen schema.
//	error - wraps ErrInvalidSchema when the input is structurally unusable.
func NewGraphSchema(entities []*EntityType, relationships []*RelationshipType, patterns []SuggestedPattern) (*GraphSchema, error) {
	if len(entities) == 0 {
		return nil, fmt.Errorf("%w: no entity types", ErrInvalidSchema)
	}

	s := &GraphSchema{
		entities:            make([]*EntityType, 0, len(entities)),
		relationships:       make([]*RelationshipType, 0, len(relationships)),
		patterns:            append([]SuggestedPattern(nil), patterns...),
		entitiesByID:        make(map[string]*EntityType, len(entities)),
		entitiesByName:      make(map[string]*EntityType, len(entities)),
		relationshipsByName: make(map[string]*RelationshipType, len(relationships)),
		adjacency:           make(map[string][]Neighbor),
	}

	for _, e := range entities {
		if e == nil {
			continue
		}
		if e.Name == "" {
			return nil, fmt.Errorf("%w: entity type with empty name", ErrInvalidSchema)
		}
		if e.ID == "" {
			e.ID = e.Name
		}
		if _, dup := s.entitiesByID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate entity id %q", ErrInvalidSchema, e.ID)
		}
		s.entities = append(s.entities, e)
		s.entitiesByID[e.ID] = e
		if _, taken := s.entitiesByName[e.Name]; !taken {
			s.entitiesByName[e.Name] = e
		}
	}

	for _, r := range relationships {
		if r == nil {
			continue
		}
		if r.Name == "" {
			return nil, fmt.Errorf("%w: relationship type with empty name", ErrInvalidSchema)
		}
		s.relationships = append(s.relationships, r)
		if _, taken := s.relationshipsByName[r.Name]; !taken {
			s.relationshipsByName[r.Name] = r
		}
	}

	s.buildAdjacency()
	return s, nil
}

// buildAdjacency precomputes the traversable hops per entity-type name.
// For each relationship, every (from, to) label pair yields an outgoing
// hop at from and an incoming hop at to. Outgoing entries of a
// relationship land before its incoming entries, and relationships are
// walked in declaration order, which fixes the tie-break order for
// equal-length paths.
func (s *GraphSchema) buildAdjacency() {
	for _, r := range s.relationships {
		for _, from := range r.FromLabels {
			for _, to := range r.ToLabels {
				s.adjacency[from] = append(s.adjacency[from], Neighbor{
					Relationship: r.Name,
					Direction:    DirectionOutgoing,
					Target:       to,
				})
			}
		}
		for _, to := range r.ToLabels {
			for _, from := range r.FromLabels {
				s.adjacency[to] = append(s.adjacency[to], Neighbor{
					Relationship: r.Name,
					Direction:    DirectionIncoming,
					Target:       from,
				})
			}
		}
	}
}

// Entities returns all entity types in declaration order.
// The returned slice must not be modified.
func (s *GraphSchema) Entities() []*EntityType {
	return s.entities
}

// EntityByID returns the entity type with the given id.
func (s *GraphSchema) EntityByID(id string) (*EntityType, bool) {
	e, ok := s.entitiesByID[id]
	return e, ok
}

// EntityByName returns the entity type with the given exact display name.
func (s *GraphSchema) EntityByName(name string) (*EntityType, bool) {
	e, ok := s.entitiesByName[name]
	return e, ok
}

// Relationships returns all relationship types in declaration order.
// The returned slice must not be modified.
func (s *GraphSchema) Relationships() []*RelationshipType {
	return s.relationships
}

// RelationshipByName returns the relationship type with the given name.
func (s *GraphSchema) RelationshipByName(name string) (*RelationshipType, bool) {
	r, ok := s.relationshipsByName[name]
	return r, ok
}

// Patterns returns the advisory traversal patterns in declaration order.
// The returned slice must not be modified.
func (s *GraphSchema) Patterns() []SuggestedPattern {
	return s.patterns
}

// Neighbors returns the traversable hops out of the given entity-type name,
// in relationship declaration order. The returned slice must not be modified.
func (s *GraphSchema) Neighbors(entityName string) []Neighbor {
	return s.adjacency[entityName]
}

// EntityCount returns the number of entity types.
func (s *GraphSchema) EntityCount() int {
	return len(s.entities)
}

// RelationshipCount returns the number of relationship types.
func (s *GraphSchema) RelationshipCount() int {
	return len(s.relationships)
}
