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

// Ensure GapService implements the interface.
var _ driving.GapService = (*GapService)(nil)

// Gap analysis defaults.
const (
	defaultGapTopN   = 5
	defaultGapMinSim = 0.40

	// previewChars bounds the clause preview in report rows.
	previewChars = 200
)

// gapSystemPrompt asks for a one-word verdict so the response can be
// matched mechanically.
const gapSystemPrompt = `You are a compliance auditor comparing a diving operations manual against a standard.
Given one clause from the standard and excerpts from the manual, judge whether the
manual covers the clause. Reply with exactly one of: "Covered", "Partially Covered"
or "Not Covered", followed by a one-sentence reason.`

// GapService performs clause-by-clause coverage analysis of a manual
// against a standard.
type GapService struct {
	chunkStore driven.ChunkStore
	embedder   driven.EmbeddingService
	completer  driven.CompletionService
}

// NewGapService creates a new gap analysis service.
func NewGapService(
	chunkStore driven.ChunkStore,
	embedder driven.EmbeddingService,
	completer driven.CompletionService,
) *GapService {
	return &GapService{
		chunkStore: chunkStore,
		embedder:   embedder,
		completer:  completer,
	}
}

// Analyze walks the standard's chunks in order. Clauses whose best
// manual similarity falls below the threshold are marked Not Covered
// without consulting the Provider.
func (s *GapService) Analyze(ctx context.Context, opts driving.GapOptions) ([]domain.CoverageRow, error) {
	if opts.StandardID == "" || opts.ManualID == "" {
		return nil, fmt.Errorf("%w: standard and manual ids are required", domain.ErrInvalidInput)
	}
	if opts.TopN <= 0 {
		opts.TopN = defaultGapTopN
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = defaultGapMinSim
	}

	standardChunks, err := s.chunkStore.ListByManual(ctx, opts.StandardID)
	if err != nil {
		return nil, fmt.Errorf("loading standard chunks: %w", err)
	}
	if len(standardChunks) == 0 {
		return nil, fmt.Errorf("%w: standard %s has no chunks", domain.ErrNotFound, opts.StandardID)
	}

	manualChunks, err := s.chunkStore.ListByManual(ctx, opts.ManualID)
	if err != nil {
		return nil, fmt.Errorf("loading manual chunks: %w", err)
	}
	if len(manualChunks) == 0 {
		return nil, fmt.Errorf("%w: manual %s has no chunks", domain.ErrNotFound, opts.ManualID)
	}

	// Bound the clause window.
	if opts.StartIndex > 0 {
		if opts.StartIndex >= len(standardChunks) {
			return nil, fmt.Errorf("%w: start index %d beyond %d clauses", domain.ErrInvalidInput, opts.StartIndex, len(standardChunks))
		}
		standardChunks = standardChunks[opts.StartIndex:]
	}
	if opts.MaxClauses > 0 && len(standardChunks) > opts.MaxClauses {
		standardChunks = standardChunks[:opts.MaxClauses]
	}

	logger.Section("Gap Analysis")
	logger.Info("Comparing %d clauses of %s against %s", len(standardChunks), opts.StandardID, opts.ManualID)

	rows := make([]domain.CoverageRow, 0, len(standardChunks))
	for i, clause := range standardChunks {
		row, err := s.analyzeClause(ctx, clause, manualChunks, opts)
		if err != nil {
			return nil, fmt.Errorf("clause %s: %w", clause.ID, err)
		}
		rows = append(rows, *row)
		logger.Debug("Clause %d/%d: %s (%s)", i+1, len(standardChunks), row.Coverage, row.Severity)
	}

	return rows, nil
}

// analyzeClause scores one standard clause against the manual and asks
// the Provider for a verdict unless the similarity short-circuit fires.
func (s *GapService) analyzeClause(ctx context.Context, clause domain.Chunk, manualChunks []domain.Chunk, opts driving.GapOptions) (*domain.CoverageRow, error) {
	query := clause.Embedding
	if len(query) == 0 {
		// Standard ingested without a Provider; embed the clause now.
		if s.embedder == nil {
			return nil, domain.ErrProviderUnavailable
		}
		vectors, err := s.embedder.EmbedBatch(ctx, []string{clause.Text})
		if err != nil {
			return nil, fmt.Errorf("embedding clause: %w", err)
		}
		if len(vectors) != 1 {
			return nil, fmt.Errorf("embedding clause: got %d vectors", len(vectors))
		}
		query = vectors[0]
	}

	ranked := scoring.Rank(manualChunks, query, nil, opts.TopN)

	row := &domain.CoverageRow{
		StandardChunkID: clause.ID,
		StandardPreview: preview(clause.Text, previewChars),
		BestSimilarity:  bestSimilarity(ranked),
	}
	for _, rc := range ranked {
		row.ManualChunkIDs = append(row.ManualChunkIDs, rc.Chunk.ID)
	}

	// Short-circuit: nothing in the manual comes close.
	if row.BestSimilarity < opts.MinSimilarity {
		row.Coverage = domain.NotCovered
		row.Reason = fmt.Sprintf("No manual content above similarity %.2f (best %.3f)", opts.MinSimilarity, row.BestSimilarity)
		row.Severity = domain.ClassifySeverity(row.Coverage, row.BestSimilarity)
		return row, nil
	}

	if s.completer == nil {
		return nil, domain.ErrProviderUnavailable
	}

	verdict, err := s.completer.Complete(ctx, gapSystemPrompt, buildGapPrompt(clause, ranked))
	if err != nil {
		return nil, fmt.Errorf("judging coverage: %w", err)
	}

	row.Coverage = parseVerdict(verdict)
	row.Reason = strings.TrimSpace(verdict)
	row.Severity = domain.ClassifySeverity(row.Coverage, row.BestSimilarity)
	return row, nil
}

// buildGapPrompt renders the clause followed by the manual excerpts.
func buildGapPrompt(clause domain.Chunk, ranked []domain.RankedChunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Standard clause [%s | %s]:\n%s\n\nManual excerpts:\n", clause.ID, clause.Heading, clause.Text)
	for i, rc := range ranked {
		fmt.Fprintf(&b, "[Excerpt %d | %s | %s] (sim %.3f)\n%s\n\n",
			i+1, rc.Chunk.ID, rc.Chunk.Heading, rc.Similarity, rc.Chunk.Text)
	}
	return b.String()
}

// parseVerdict maps the Provider's reply to a coverage verdict.
// "Partially" is checked first because it contains "Covered".
func parseVerdict(verdict string) domain.Coverage {
	switch {
	case strings.Contains(verdict, "Partially"):
		return domain.PartiallyCovered
	case strings.Contains(verdict, "Covered") && !strings.Contains(verdict, "Not Covered"):
		return domain.Covered
	default:
		return domain.NotCovered
	}
}

func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > n {
		return text[:n]
	}
	return text
}
