package driving

import (
	"context"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// Answer is the result of a Q&A query.
type Answer struct {
	// Text is the Provider's grounded answer.
	Text string

	// Sources are the chunks the answer was grounded on, best first.
	Sources []domain.RankedChunk
}

// AskService answers natural-language questions against the corpus.
type AskService interface {
	// Ask embeds the question, ranks chunks and asks the Provider for a
	// grounded answer. Include filters by manual-id substring; topK 0
	// means the default.
	Ask(ctx context.Context, question string, include []string, topK int) (*Answer, error)
}
