package app

import (
	"math"
	"sort"

	"github.com/sahaza2shakya/PDFchat-app/internal/model"
)

type scoredChunk struct {
	chunk model.Chunk
	score float32
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}

// topKScored returns the k best-scoring chunks, highest first. Ties keep the
// original chunk order so results stay deterministic.
func topKScored(scored []scoredChunk, k int) []scoredChunk {
	if k <= 0 || len(scored) == 0 {
		return nil
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}
