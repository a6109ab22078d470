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
	"errors"
	"testing"
)

func TestRelationshipPathValidate(t *testing.T) {
	s := testSchema(t)

	tests := []struct {
		name    string
		path    RelationshipPath
		wantErr error
	}{
		{
			name: "one outgoing hop",
			path: RelationshipPath{
				SourceEntityTypeID: "Person",
				TargetEntityTypeID: "Company",
				Hops:               []Hop{{Relationship: "WORKS_AT", Direction: DirectionOutgoing}},
			},
		},
		{
			name: "one incoming hop",
			path: RelationshipPath{
				SourceEntityTypeID: "Company",
				TargetEntityTypeID: "Person",
				Hops:               []Hop{{Relationship: "WORKS_AT", Direction: DirectionIncoming}},
			},
		},
		{
			name: "two hop chain",
			path: RelationshipPath{
				SourceEntityTypeID: "Person",
				TargetEntityTypeID: "City",
				Hops: []Hop{
					{Relationship: "WORKS_AT", Direction: DirectionOutgoing},
					{Relationship: "LOCATED_IN", Direction: DirectionOutgoing},
				},
			},
		},
		{
			name: "self loop zero hops",
			path: RelationshipPath{
				SourceEntityTypeID: "Person",
				TargetEntityTypeID: "Person",
			},
		},
		{
			name: "zero hops between distinct types",
			path: RelationshipPath{
				SourceEntityTypeID: "Person",
				TargetEntityTypeID: "Company",
			},
			wantErr: ErrInvalidPath,
		},
		{
			name: "unknown source entity",
			path: RelationshipPath{
				SourceEntityTypeID: "Ghost",
				TargetEntityTypeID: "Company",
				Hops:               []Hop{{Relationship: "WORKS_AT", Direction: DirectionOutgoing}},
			},
			wantErr: ErrUnknownEntity,
		},
		{
			name: "unknown relationship",
			path: RelationshipPath{
				SourceEntityTypeID: "Person",
				TargetEntityTypeID: "Company",
				Hops:               []Hop{{Relationship: "OWNS", Direction: DirectionOutgoing}},
			},
			wantErr: ErrUnknownRelationship,
		},
		{
			name: "hop cannot start from source",
			path: RelationshipPath{
				SourceEntityTypeID: "City",
				TargetEntityTypeID: "Company",
				Hops:               []Hop{{Relationship: "WORKS_AT", Direction: DirectionOutgoing}},
			},
			wantErr: ErrInvalidPath,
		},
		{
			name: "path ends at wrong entity",
			path: RelationshipPath{
				SourceEntityTypeID: "Person",
				TargetEntityTypeID: "City",
				Hops:               []Hop{{Relationship: "WORKS_AT", Direction: DirectionOutgoing}},
			},
			wantErr: ErrInvalidPath,
		},
		{
			name: "invalid direction",
			path: RelationshipPath{
				SourceEntityTypeID: "Person",
				TargetEntityTypeID: "Company",
				Hops:               []Hop{{Relationship: "WORKS_AT", Direction: Direction("sideways")}},
			},
			wantErr: ErrInvalidPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.path.Validate(s)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRelationshipPathLen(t *testing.T) {
	p := RelationshipPath{
		SourceEntityTypeID: "Person",
		TargetEntityTypeID: "City",
		Hops: []Hop{
			{Relationship: "WORKS_AT", Direction: DirectionOutgoing},
			{Relationship: "LOCATED_IN", Direction: DirectionOutgoing},
		},
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
}
