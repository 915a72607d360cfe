package driving

import (
	"context"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// GapOptions selects the standard and manual to compare and bounds the run.
type GapOptions struct {
	// StandardID is the manual id of the standard/legislation document.
	StandardID string

	// ManualID is the manual id of the operations manual under review.
	ManualID string

	// MaxClauses caps how many standard chunks are examined; 0 = all.
	MaxClauses int

	// StartIndex skips the first N standard chunks, for resumable runs.
	StartIndex int

	// TopN is how many manual chunks are retrieved per clause; 0 means
	// the default (5).
	TopN int

	// MinSimilarity short-circuits the Provider: when the best score is
	// below it the clause is Not Covered without a Provider call.
	// 0 means the default (0.40).
	MinSimilarity float64
}

// GapService runs clause-by-clause coverage analysis of a manual
// against a standard.
type GapService interface {
	// Analyze returns one coverage row per examined standard chunk, in
	// the standard's chunk order.
	Analyze(ctx context.Context, opts GapOptions) ([]domain.CoverageRow, error)
}
