// internal/store/memory.go
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mwiater/agora/internal/document"
)

type memoryEntry struct {
	id        string
	embedding []float64
	segment   document.Segment
}

// MemoryStore is a brute-force in-memory embedding store using cosine
// similarity. It is the default backend; one instance per knowledge source,
// living for the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []memoryEntry
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Add appends (embedding, segment) pairs. Embeddings and segments are
// matched by position.
func (s *MemoryStore) Add(ctx context.Context, embeddings [][]float64, segments []document.Segment) error {
	if len(embeddings) != len(segments) {
		return fmt.Errorf("embeddings and segments length mismatch: %d vs %d", len(embeddings), len(segments))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range embeddings {
		vec := make([]float64, len(embeddings[i]))
		copy(vec, embeddings[i])
		s.entries = append(s.entries, memoryEntry{
			id:        uuid.NewString(),
			embedding: vec,
			segment:   segments[i],
		})
	}
	return nil
}

// Search returns at most k matches ordered by descending cosine similarity.
// Ties keep insertion order. Entries whose dimension does not match the
// query are skipped.
func (s *MemoryStore) Search(ctx context.Context, query []float64, k int) ([]Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if k <= 0 || len(s.entries) == 0 {
		return nil, nil
	}

	queryNorm := vectorNorm(query)
	matches := make([]Match, 0, len(s.entries))
	for _, entry := range s.entries {
		if len(entry.embedding) != len(query) {
			continue
		}
		matches = append(matches, Match{
			Segment: entry.segment,
			Score:   cosineSimilarity(query, entry.embedding, queryNorm),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k > len(matches) {
		k = len(matches)
	}
	return matches[:k], nil
}

// Size reports the number of indexed segments.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
