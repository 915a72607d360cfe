// Package domain defines the core business entities for ManualMind.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an ingested manual with detected type and compliance metadata
//   - Chunk: a hierarchy-scoped span of manual text with derived metadata
//   - Topic: a heading-derived grouping key shared across documents
//   - Conflict: a detected numeric/unit disagreement between two chunks
//   - ApprovalRequest: a sign-off row for a resolved conflict
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
