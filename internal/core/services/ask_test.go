package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic-labs/manualmind/internal/adapters/driven/storage/memory"
	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

func seedAskChunks(t *testing.T, store *memory.Store) {
	t.Helper()
	err := store.ChunkStore().SaveChunks(context.Background(), []domain.Chunk{
		{
			ID:        "DOM::C0",
			ManualID:  "DOM",
			Heading:   "2.1 Depth Limits",
			Path:      "2 DIVING OPERATIONS > 2.1 Depth Limits",
			Text:      "The maximum depth for surface supplied air diving is 50 meters.",
			Embedding: []float32{1, 0, 0},
		},
		{
			ID:        "IMCA::C3",
			ManualID:  "IMCA",
			Heading:   "4.2 Bell Runs",
			Text:      "Bell runs are limited to eight hours.",
			Embedding: []float32{0, 1, 0},
		},
	})
	require.NoError(t, err)
}

func TestAsk(t *testing.T) {
	store := memory.NewStore()
	seedAskChunks(t, store)

	completer := &mockCompleter{reply: "  The maximum depth is 50 meters [Source 1].  "}
	svc := NewAskService(store.ChunkStore(), &mockEmbedder{}, completer)

	answer, err := svc.Ask(context.Background(), "What is the maximum air diving depth?", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, "The maximum depth is 50 meters [Source 1].", answer.Text)
	require.NotEmpty(t, answer.Sources)
	assert.Equal(t, "DOM::C0", answer.Sources[0].Chunk.ID)

	// The prompt carries numbered sources and the question itself.
	assert.Contains(t, completer.lastUser, "[Source 1 | DOM | DOM::C0 | 2.1 Depth Limits |")
	assert.Contains(t, completer.lastUser, "Question: What is the maximum air diving depth?")
	assert.Contains(t, completer.lastSystem, "ONLY the numbered sources")
}

func TestAskIncludeFilter(t *testing.T) {
	store := memory.NewStore()
	seedAskChunks(t, store)

	completer := &mockCompleter{reply: "Eight hours [Source 1]."}
	svc := NewAskService(store.ChunkStore(), &mockEmbedder{}, completer)

	answer, err := svc.Ask(context.Background(), "How long can a bell run last?", []string{"imca"}, 3)
	require.NoError(t, err)

	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "IMCA::C3", answer.Sources[0].Chunk.ID)
}

func TestAskEmptyQuestion(t *testing.T) {
	svc := NewAskService(memory.NewStore().ChunkStore(), &mockEmbedder{}, &mockCompleter{})

	_, err := svc.Ask(context.Background(), "   ", nil, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAskProviderUnavailable(t *testing.T) {
	store := memory.NewStore()
	seedAskChunks(t, store)

	svc := NewAskService(store.ChunkStore(), nil, nil)
	_, err := svc.Ask(context.Background(), "Anything?", nil, 0)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)

	svc = NewAskService(store.ChunkStore(), &mockEmbedder{}, nil)
	_, err = svc.Ask(context.Background(), "Anything?", nil, 0)
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestAskNoManualsIngested(t *testing.T) {
	svc := NewAskService(memory.NewStore().ChunkStore(), &mockEmbedder{}, &mockCompleter{reply: "x"})

	_, err := svc.Ask(context.Background(), "What is the depth limit?", nil, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
