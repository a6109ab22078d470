// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package querygen

import (
	"fmt"
	"slices"

	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"github.com/AleutianAI/AleutianGraph/services/schemamatch/schema"
)

// defaultLeaf is selected at the end of a path when the caller supplies no
// leaf fields. Valid on every class.
var defaultLeaf = []graphql.Field{{Name: "_additional { id }"}}

// PathFields renders a resolved relationship path as a nested Weaviate
// field selection rooted at the path's source class.
//
// Relationship names come from cross-reference properties, so each
// outgoing hop becomes a reference field containing one "... on Class"
// fragment per class the traversal can continue through; the final
// fragment names the target class only and selects leaf (or a minimal
// default selection when leaf is empty). A zero-hop path returns the leaf
// selection unchanged.
//
// Weaviate GraphQL cannot walk a reference backwards, so paths containing
// incoming hops fail with ErrIncomingHop; callers wanting those traversals
// must query from the other end.
func PathFields(s *schema.GraphSchema, path *schema.RelationshipPath, leaf ...graphql.Field) ([]graphql.Field, error) {
	if s == nil || path == nil {
		return nil, fmt.Errorf("path fields: %w: nil schema or path", schema.ErrInvalidPath)
	}
	target, ok := s.EntityByID(path.TargetEntityTypeID)
	if !ok {
		return nil, fmt.Errorf("path fields: target %q: %w", path.TargetEntityTypeID, schema.ErrUnknownEntity)
	}

	selection := append([]graphql.Field(nil), leaf...)
	if len(selection) == 0 {
		selection = append(selection, defaultLeaf...)
	}
	if path.Len() == 0 {
		return selection, nil
	}

	rels := make([]*schema.RelationshipType, len(path.Hops))
	for i, hop := range path.Hops {
		if hop.Direction != schema.DirectionOutgoing {
			return nil, fmt.Errorf("path fields: hop %d (%s): %w", i, hop.Relationship, ErrIncomingHop)
		}
		rel, ok := s.RelationshipByName(hop.Relationship)
		if !ok {
			return nil, fmt.Errorf("path fields: hop %d: %q: %w", i, hop.Relationship, schema.ErrUnknownRelationship)
		}
		rels[i] = rel
	}

	// classesAt[i] holds the classes the traversal may be at after hop i:
	// the final hop narrows to the target class, intermediate hops keep
	// only classes that can enter the next hop.
	classesAt := make([][]string, len(rels))
	for i, rel := range rels {
		if i == len(rels)-1 {
			if !slices.Contains(rel.ToLabels, target.Name) {
				return nil, fmt.Errorf("path fields: hop %d (%s) cannot reach target %q: %w",
					i, rel.Name, target.Name, schema.ErrInvalidPath)
			}
			classesAt[i] = []string{target.Name}
			continue
		}
		var cont []string
		for _, class := range rel.ToLabels {
			if slices.Contains(rels[i+1].FromLabels, class) {
				cont = append(cont, class)
			}
		}
		if len(cont) == 0 {
			return nil, fmt.Errorf("path fields: hop %d (%s) cannot continue into %s: %w",
				i, rel.Name, rels[i+1].Name, schema.ErrInvalidPath)
		}
		classesAt[i] = cont
	}

	// Assemble innermost-out: each hop wraps the current selection in its
	// class fragments under the reference field.
	for i := len(rels) - 1; i >= 0; i-- {
		fragments := make([]graphql.Field, len(classesAt[i]))
		for j, class := range classesAt[i] {
			fragments[j] = graphql.Field{Name: "... on " + class, Fields: selection}
		}
		selection = []graphql.Field{{Name: rels[i].Name, Fields: fragments}}
	}
	return selection, nil
}
