// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

/*
Package schema holds the semantic schema model for a graph-backed workspace
and the output vocabulary built on top of it.

The model side describes what a graph database contains: entity types with
typed properties, directed relationship types between entity labels, and
advisory usage patterns. A GraphSchema is assembled once per workspace or
schema version (typically from a Weaviate schema dump, see FromWeaviateSchema),
frozen at construction, and then shared read-only across any number of
concurrent matching calls.

The vocabulary side describes what the matching engine produces: EntityFilter
(a validated property condition) and RelationshipPath (a validated sequence of
directional hops). Both reference schema elements by id and name only, so a
schema snapshot can be replaced without structurally invalidating results that
were produced against an older one; stale references simply fail validation
the next time they are used.

Snapshot publication is handled by Holder, which swaps complete schema
snapshots atomically and names each one with a fresh snapshot id.
*/
package schema
