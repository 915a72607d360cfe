package domain

// Coverage is a gap-analysis verdict for one standard clause.
type Coverage string

const (
	// Covered means the manual explicitly addresses the clause.
	Covered Coverage = "Covered"
	// PartiallyCovered means the manual addresses part of the clause.
	PartiallyCovered Coverage = "Partially Covered"
	// NotCovered means the manual does not address the clause.
	NotCovered Coverage = "Not Covered"
)

// Severity is the risk tier assigned to a coverage verdict.
type Severity string

const (
	// SeverityNone is assigned to covered clauses.
	SeverityNone Severity = "None"
	// SeverityMedium is assigned to partially covered clauses.
	SeverityMedium Severity = "Medium"
	// SeverityHigh is a not-covered clause with some related content.
	SeverityHigh Severity = "High"
	// SeverityCritical is a not-covered clause with best similarity < 0.25.
	SeverityCritical Severity = "Critical"
	// SeverityUnknown is returned for unrecognised coverage values.
	SeverityUnknown Severity = "Unknown"
)

// ClassifySeverity maps a coverage verdict and the best similarity score
// to a risk tier.
func ClassifySeverity(coverage Coverage, similarity float64) Severity {
	switch coverage {
	case Covered:
		return SeverityNone
	case PartiallyCovered:
		return SeverityMedium
	case NotCovered:
		if similarity < 0.25 {
			return SeverityCritical
		}
		return SeverityHigh
	}
	return SeverityUnknown
}

// CoverageRow is one clause's gap-analysis outcome.
type CoverageRow struct {
	// StandardChunkID identifies the standard clause examined.
	StandardChunkID string

	// StandardPreview is the first 200 characters of the clause text.
	StandardPreview string

	// Coverage is the verdict.
	Coverage Coverage

	// Severity is the risk tier for the verdict.
	Severity Severity

	// Reason is the Provider's judgment text, or the auto-classification
	// explanation when the Provider was short-circuited.
	Reason string

	// ManualChunkIDs are the manual chunks consulted, best first.
	ManualChunkIDs []string

	// BestSimilarity is the top cosine score against the manual.
	BestSimilarity float64
}

// RankedChunk pairs a chunk with its similarity against a query vector.
type RankedChunk struct {
	Chunk      Chunk
	Similarity float64
}
