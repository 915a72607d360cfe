package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driven"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
	"github.com/oceanic-labs/manualmind/internal/logger"
	"github.com/oceanic-labs/manualmind/internal/scoring"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// defaultTopK is how many chunks ground an answer when the caller does
// not say.
const defaultTopK = 5

// askSystemPrompt keeps answers grounded: the Provider must not reach
// beyond the supplied sources.
const askSystemPrompt = `You are an assistant answering questions about commercial diving operations manuals.
Answer using ONLY the numbered sources provided. If the sources do not contain
the answer, say so plainly. Cite sources by their number, e.g. [Source 2].
Never invent limits, depths, pressures or procedures that are not in the sources.`

// AskService answers natural-language questions grounded on retrieved
// chunks.
type AskService struct {
	chunkStore driven.ChunkStore
	embedder   driven.EmbeddingService
	completer  driven.CompletionService
}

// NewAskService creates a new ask service.
func NewAskService(
	chunkStore driven.ChunkStore,
	embedder driven.EmbeddingService,
	completer driven.CompletionService,
) *AskService {
	return &AskService{
		chunkStore: chunkStore,
		embedder:   embedder,
		completer:  completer,
	}
}

// Ask embeds the question, ranks every stored chunk against it and asks
// the Provider for an answer grounded on the top hits.
func (s *AskService) Ask(ctx context.Context, question string, include []string, topK int) (*driving.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.embedder == nil || s.completer == nil {
		return nil, domain.ErrProviderUnavailable
	}
	if topK <= 0 {
		topK = defaultTopK
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q", question)

	vectors, err := s.embedder.EmbedBatch(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedding question: got %d vectors", len(vectors))
	}

	chunks, err := s.chunkStore.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no manuals ingested", domain.ErrNotFound)
	}

	ranked := scoring.Rank(chunks, vectors[0], include, topK)
	logger.Debug("Retrieved %d chunks (top similarity %.3f)", len(ranked), bestSimilarity(ranked))

	userPrompt := buildAskPrompt(question, ranked)

	answer, err := s.completer.Complete(ctx, askSystemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &driving.Answer{
		Text:    strings.TrimSpace(answer),
		Sources: ranked,
	}, nil
}

// buildAskPrompt renders the numbered source block followed by the
// question.
func buildAskPrompt(question string, ranked []domain.RankedChunk) string {
	var b strings.Builder
	for i, rc := range ranked {
		fmt.Fprintf(&b, "[Source %d | %s | %s | %s | %s] (sim %.3f)\n%s\n\n",
			i+1, rc.Chunk.ManualID, rc.Chunk.ID, rc.Chunk.Heading, rc.Chunk.Path, rc.Similarity, rc.Chunk.Text)
	}
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}

func bestSimilarity(ranked []domain.RankedChunk) float64 {
	if len(ranked) == 0 {
		return 0
	}
	return ranked[0].Similarity
}
