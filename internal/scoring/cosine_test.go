package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, Cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Degenerate inputs score zero rather than erroring.
	assert.Zero(t, Cosine(nil, nil))
	assert.Zero(t, Cosine([]float32{1, 2}, []float32{1, 2, 3}))
	assert.Zero(t, Cosine([]float32{0, 0}, []float32{1, 2}))
}

func rankFixture() []domain.Chunk {
	return []domain.Chunk{
		{ID: "DOM::C1", ManualID: "DOM", Embedding: []float32{1, 0, 0}},
		{ID: "DOM::C2", ManualID: "DOM", Embedding: []float32{0.9, 0.1, 0}},
		{ID: "IMCA-D014::C1", ManualID: "IMCA-D014", Embedding: []float32{0, 1, 0}},
		{ID: "IMCA-D014::C2", ManualID: "IMCA-D014", Embedding: []float32{1, 0.01, 0}},
	}
}

func TestRankOrdersBySimilarity(t *testing.T) {
	ranked := Rank(rankFixture(), []float32{1, 0, 0}, nil, 0)
	require.Len(t, ranked, 4)

	assert.Equal(t, "DOM::C1", ranked[0].Chunk.ID)
	assert.InDelta(t, 1.0, ranked[0].Similarity, 1e-9)
	assert.Equal(t, "IMCA-D014::C2", ranked[1].Chunk.ID)
	assert.Equal(t, "IMCA-D014::C1", ranked[3].Chunk.ID)
}

func TestRankTopK(t *testing.T) {
	ranked := Rank(rankFixture(), []float32{1, 0, 0}, nil, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, "DOM::C1", ranked[0].Chunk.ID)
}

func TestRankIncludeFilter(t *testing.T) {
	// Case-insensitive substring match on the manual id.
	ranked := Rank(rankFixture(), []float32{1, 0, 0}, []string{"imca"}, 0)
	require.Len(t, ranked, 2)
	for _, rc := range ranked {
		assert.Equal(t, "IMCA-D014", rc.Chunk.ManualID)
	}

	assert.Empty(t, Rank(rankFixture(), []float32{1, 0, 0}, []string{"norsok"}, 0))
}

func TestRankMissingEmbeddings(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "A::C1", ManualID: "A"},
		{ID: "A::C2", ManualID: "A", Embedding: []float32{1, 0, 0}},
	}

	ranked := Rank(chunks, []float32{1, 0, 0}, nil, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "A::C2", ranked[0].Chunk.ID)
	assert.Zero(t, ranked[1].Similarity)
}
