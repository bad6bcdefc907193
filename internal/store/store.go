// internal/store/store.go
// Package store provides similarity-searchable indexes of embedded text
// segments. A store is populated once during ingestion and read-only after.
package store

import (
	"context"
	"math"

	"github.com/mwiater/agora/internal/document"
)

// Match is a segment returned from a similarity search with its score.
// Scores are cosine similarities in [-1, 1]; higher is more similar.
type Match struct {
	Segment document.Segment
	Score   float64
}

// EmbeddingStore maps opaque identifiers to (embedding, segment) pairs and
// supports k-nearest-neighbor search. Searching an empty store returns an
// empty result, never an error.
type EmbeddingStore interface {
	Add(ctx context.Context, embeddings [][]float64, segments []document.Segment) error
	Search(ctx context.Context, query []float64, k int) ([]Match, error)
}

func cosineSimilarity(a, b []float64, normA float64) float64 {
	if normA == 0 {
		return 0
	}
	normB := vectorNorm(b)
	if normB == 0 {
		return 0
	}
	dot := 0.0
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot / (normA * normB)
}

func vectorNorm(v []float64) float64 {
	sum := 0.0
	for _, val := range v {
		sum += val * val
	}
	return math.Sqrt(sum)
}
