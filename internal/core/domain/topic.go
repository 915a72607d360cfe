package domain

import "time"

// Topic groups same-subject chunks across documents. Topics are created
// lazily the first time a topic id is observed during ingestion and are
// never mutated afterwards, except to backfill an empty description.
type Topic struct {
	// ID is the deterministic slug derived from a heading.
	ID string

	// Description is free text, backfilled from the first heading seen.
	Description string

	// FirstSeen is when the topic id was first observed.
	FirstSeen time.Time

	// ChunkCount is the number of chunks filed under this topic.
	// Computed at list time, not persisted.
	ChunkCount int
}
