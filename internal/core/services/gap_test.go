package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic-labs/manualmind/internal/adapters/driven/storage/memory"
	"github.com/oceanic-labs/manualmind/internal/core/domain"
	"github.com/oceanic-labs/manualmind/internal/core/ports/driving"
)

func seedGapChunks(t *testing.T, store *memory.Store, clauseEmbedding []float32) {
	t.Helper()
	err := store.ChunkStore().SaveChunks(context.Background(), []domain.Chunk{
		{
			ID:        "IMCA::C0",
			ManualID:  "IMCA",
			Heading:   "3.1 Bailout Reserve",
			Text:      "Divers shall carry an independent bailout supply sufficient to reach the surface.",
			Embedding: clauseEmbedding,
		},
		{
			ID:        "DOM::C0",
			ManualID:  "DOM",
			Heading:   "1.5 Bailout Gas Requirements",
			Text:      "The diver shall carry a bailout cylinder with a minimum reserve of 50 bar.",
			Embedding: []float32{1, 0, 0},
		},
	})
	require.NoError(t, err)
}

func gapOpts() driving.GapOptions {
	return driving.GapOptions{StandardID: "IMCA", ManualID: "DOM"}
}

func TestAnalyzeValidation(t *testing.T) {
	svc := NewGapService(memory.NewStore().ChunkStore(), &mockEmbedder{}, &mockCompleter{})

	_, err := svc.Analyze(context.Background(), driving.GapOptions{ManualID: "DOM"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Analyze(context.Background(), driving.GapOptions{StandardID: "IMCA"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAnalyzeUnknownManuals(t *testing.T) {
	store := memory.NewStore()
	svc := NewGapService(store.ChunkStore(), &mockEmbedder{}, &mockCompleter{})

	_, err := svc.Analyze(context.Background(), gapOpts())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAnalyzeCovered(t *testing.T) {
	store := memory.NewStore()
	seedGapChunks(t, store, []float32{1, 0, 0})

	completer := &mockCompleter{reply: "Covered - the manual states the bailout requirement explicitly."}
	svc := NewGapService(store.ChunkStore(), &mockEmbedder{}, completer)

	rows, err := svc.Analyze(context.Background(), gapOpts())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "IMCA::C0", row.StandardChunkID)
	assert.Equal(t, domain.Covered, row.Coverage)
	assert.Equal(t, domain.SeverityNone, row.Severity)
	assert.InDelta(t, 1.0, row.BestSimilarity, 1e-9)
	assert.Contains(t, row.ManualChunkIDs, "DOM::C0")
	assert.Contains(t, completer.lastUser, "Standard clause [IMCA::C0")
	assert.Contains(t, completer.lastUser, "[Excerpt 1 | DOM::C0")
}

func TestAnalyzePartiallyCovered(t *testing.T) {
	store := memory.NewStore()
	seedGapChunks(t, store, []float32{1, 0, 0})

	completer := &mockCompleter{reply: "Partially Covered - the reserve pressure is stated but not the duration."}
	svc := NewGapService(store.ChunkStore(), &mockEmbedder{}, completer)

	rows, err := svc.Analyze(context.Background(), gapOpts())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.PartiallyCovered, rows[0].Coverage)
	assert.Equal(t, domain.SeverityMedium, rows[0].Severity)
}

func TestAnalyzeNotCoveredVerdict(t *testing.T) {
	store := memory.NewStore()
	seedGapChunks(t, store, []float32{1, 0, 0})

	// The reply contains "Covered" as a substring of "Not Covered"; the
	// verdict must not be read as covered.
	completer := &mockCompleter{reply: "Not Covered. The manual does not address this clause."}
	svc := NewGapService(store.ChunkStore(), &mockEmbedder{}, completer)

	rows, err := svc.Analyze(context.Background(), gapOpts())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.NotCovered, rows[0].Coverage)
	assert.Equal(t, domain.SeverityHigh, rows[0].Severity)
}

func TestAnalyzeShortCircuit(t *testing.T) {
	store := memory.NewStore()
	// Clause orthogonal to everything in the manual.
	seedGapChunks(t, store, []float32{0, 1, 0})

	completer := &mockCompleter{reply: "should never be consulted"}
	svc := NewGapService(store.ChunkStore(), &mockEmbedder{}, completer)

	rows, err := svc.Analyze(context.Background(), gapOpts())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, domain.NotCovered, row.Coverage)
	assert.Equal(t, domain.SeverityCritical, row.Severity)
	assert.Contains(t, row.Reason, "No manual content above similarity 0.40")
	assert.Zero(t, completer.calls)
}

func TestAnalyzeEmbedsUnembeddedClause(t *testing.T) {
	store := memory.NewStore()
	// Standard ingested without a provider: no stored embedding.
	seedGapChunks(t, store, nil)

	embedder := &mockEmbedder{}
	completer := &mockCompleter{reply: "Covered - matches."}
	svc := NewGapService(store.ChunkStore(), embedder, completer)

	rows, err := svc.Analyze(context.Background(), gapOpts())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.Covered, rows[0].Coverage)
	require.Len(t, embedder.batches, 1)
	assert.Contains(t, embedder.batches[0][0], "independent bailout supply")
}

func TestAnalyzeClauseWindow(t *testing.T) {
	store := memory.NewStore()
	clauses := make([]domain.Chunk, 3)
	for i := range clauses {
		clauses[i] = domain.Chunk{
			ID:        "IMCA::C" + string(rune('0'+i)),
			ManualID:  "IMCA",
			Text:      "Clause body with enough substance to analyse.",
			Embedding: []float32{0, 1, 0},
		}
	}
	require.NoError(t, store.ChunkStore().SaveChunks(context.Background(), clauses))
	require.NoError(t, store.ChunkStore().SaveChunks(context.Background(), []domain.Chunk{
		{ID: "DOM::C0", ManualID: "DOM", Text: "Manual body.", Embedding: []float32{1, 0, 0}},
	}))

	svc := NewGapService(store.ChunkStore(), &mockEmbedder{}, &mockCompleter{})

	opts := gapOpts()
	opts.StartIndex = 1
	opts.MaxClauses = 1

	rows, err := svc.Analyze(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "IMCA::C1", rows[0].StandardChunkID)

	opts.StartIndex = 9
	_, err = svc.Analyze(context.Background(), opts)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		reply string
		want  domain.Coverage
	}{
		{"Covered - fully addressed.", domain.Covered},
		{"Partially Covered - some aspects missing.", domain.PartiallyCovered},
		{"Not Covered - nothing relevant found.", domain.NotCovered},
		{"gibberish", domain.NotCovered},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseVerdict(tt.reply), "reply %q", tt.reply)
	}
}
