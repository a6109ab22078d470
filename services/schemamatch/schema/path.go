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
	"slices"
)

// Direction records which way a hop traverses a relationship.
type Direction string

const (
	// DirectionOutgoing follows the relationship from its from-labels to
	// its to-labels.
	DirectionOutgoing Direction = "outgoing"

	// DirectionIncoming traverses the relationship in reverse, from its
	// to-labels back to its from-labels.
	DirectionIncoming Direction = "incoming"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool {
	return d == DirectionOutgoing || d == DirectionIncoming
}

// String returns the canonical name of the direction.
func (d Direction) String() string {
	return string(d)
}

// Hop is one step of a relationship path.
type Hop struct {
	// Relationship is the relationship-type name traversed.
	Relationship string `json:"relationship"`

	// Direction records which way the relationship is traversed.
	Direction Direction `json:"direction"`
}

// RelationshipPath is an ordered sequence of directional hops connecting
// two entity types. A zero-hop path (source equals target) is valid.
//
// Paths reference the schema by id and name only. They stay structurally
// usable across snapshot swaps, but Validate will fail once the referenced
// elements are gone.
type RelationshipPath struct {
	// SourceEntityTypeID is the entity type the path starts from.
	SourceEntityTypeID string `json:"source_entity_type_id"`

	// TargetEntityTypeID is the entity type the path ends at.
	TargetEntityTypeID string `json:"target_entity_type_id"`

	// Hops holds the traversal steps in order. Empty for a self-loop.
	Hops []Hop `json:"hops"`

	// FromSuggestedPattern marks an advisory path taken from the schema's
	// suggested patterns after structural search failed. Advisory paths
	// are not label-verified; Validate may reject them.
	FromSuggestedPattern bool `json:"from_suggested_pattern,omitempty"`
}

// Len returns the number of hops.
func (p *RelationshipPath) Len() int {
	return len(p.Hops)
}

// Validate checks the path against a schema: both endpoints must exist,
// every hop's relationship must exist, and consecutive hops must be
// label-compatible in the stated directions.
//
// Because hops do not record intermediate entity types, compatibility is
// checked over the set of entity-type names reachable after each hop; the
// path is valid when the target is in the final reachable set.
//
// Advisory paths (FromSuggestedPattern) came from patterns precisely
// because no structurally-verified route existed, so they will typically
// fail here; that is expected, not a defect in the path.
func (p *RelationshipPath) Validate(s *GraphSchema) error {
	source, ok := s.EntityByID(p.SourceEntityTypeID)
	if !ok {
		return fmt.Errorf("%w: source %q", ErrUnknownEntity, p.SourceEntityTypeID)
	}
	target, ok := s.EntityByID(p.TargetEntityTypeID)
	if !ok {
		return fmt.Errorf("%w: target %q", ErrUnknownEntity, p.TargetEntityTypeID)
	}

	if len(p.Hops) == 0 {
		if source.ID != target.ID {
			return fmt.Errorf("%w: zero hops between distinct entity types %q and %q",
				ErrInvalidPath, source.Name, target.Name)
		}
		return nil
	}

	// reachable is the set of entity-type names the traversal may be at
	// after the hops validated so far.
	reachable := []string{source.Name}

	for i, hop := range p.Hops {
		rel, ok := s.RelationshipByName(hop.Relationship)
		if !ok {
			return fmt.Errorf("%w: hop %d references %q", ErrUnknownRelationship, i, hop.Relationship)
		}

		var entry, exit []string
		switch hop.Direction {
		case DirectionOutgoing:
			entry, exit = rel.FromLabels, rel.ToLabels
		case DirectionIncoming:
			entry, exit = rel.ToLabels, rel.FromLabels
		default:
			return fmt.Errorf("%w: hop %d has direction %q", ErrInvalidPath, i, hop.Direction)
		}

		if !intersects(reachable, entry) {
			return fmt.Errorf("%w: hop %d (%s %s) cannot start from any of %v",
				ErrInvalidPath, i, hop.Relationship, hop.Direction, reachable)
		}
		reachable = exit
	}

	if !slices.Contains(reachable, target.Name) {
		return fmt.Errorf("%w: path ends at %v, not at target %q",
			ErrInvalidPath, reachable, target.Name)
	}
	return nil
}

// intersects reports whether the two label sets share at least one name.
func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
