// Package scoring ranks chunks against query vectors by cosine
// similarity. It is shared by Q&A retrieval and gap analysis.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// Cosine returns the cosine similarity of two equal-length vectors.
// Zero-length and zero-magnitude inputs score 0.0, not an error.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}

	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Rank scores every chunk against the query vector and returns the top-K
// by similarity, best first. When include is non-empty, only chunks
// whose manual id contains any include substring (case-insensitive)
// are considered.
func Rank(chunks []domain.Chunk, query []float32, include []string, topK int) []domain.RankedChunk {
	scored := make([]domain.RankedChunk, 0, len(chunks))

	for _, c := range chunks {
		if len(include) > 0 && !manualIncluded(c.ManualID, include) {
			continue
		}
		scored = append(scored, domain.RankedChunk{
			Chunk:      c,
			Similarity: Cosine(query, c.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

func manualIncluded(manualID string, include []string) bool {
	id := strings.ToLower(manualID)
	for _, want := range include {
		if strings.Contains(id, strings.ToLower(want)) {
			return true
		}
	}
	return false
}
