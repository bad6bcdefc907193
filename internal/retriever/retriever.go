// internal/retriever/retriever.go
// Package retriever turns a user query into scored context content from a
// single backing source.
package retriever

import (
	"context"
	"fmt"

	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/store"
)

// Content is one retrieved piece of context. Score is zero for sources that
// do not produce similarity scores.
type Content struct {
	Text   string
	Score  float64
	Source string
}

// ContentRetriever fetches content relevant to a query from one source.
// Implementations return at most their configured maximum number of results
// and never pad short result sets.
type ContentRetriever interface {
	Name() string
	Retrieve(ctx context.Context, query string) ([]Content, error)
}

// EmbeddingStoreRetriever retrieves from an embedding store by vector
// similarity. Matches below the minimum score floor are discarded.
type EmbeddingStoreRetriever struct {
	name       string
	embedder   llm.EmbeddingModel
	store      store.EmbeddingStore
	maxResults int
	minScore   float64
}

// NewEmbeddingStoreRetriever builds a retriever over the given store.
func NewEmbeddingStoreRetriever(name string, embedder llm.EmbeddingModel, st store.EmbeddingStore, maxResults int, minScore float64) *EmbeddingStoreRetriever {
	return &EmbeddingStoreRetriever{
		name:       name,
		embedder:   embedder,
		store:      st,
		maxResults: maxResults,
		minScore:   minScore,
	}
}

// Name returns the source name used for context labeling.
func (r *EmbeddingStoreRetriever) Name() string { return r.name }

// Retrieve embeds the query, searches the store, then applies the score
// floor. The result keeps the store's descending score order.
func (r *EmbeddingStoreRetriever) Retrieve(ctx context.Context, query string) ([]Content, error) {
	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retriever %q: embed query: %w", r.name, err)
	}

	matches, err := r.store.Search(ctx, embedding, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("retriever %q: search: %w", r.name, err)
	}

	contents := make([]Content, 0, len(matches))
	for _, m := range matches {
		if m.Score < r.minScore {
			continue
		}
		contents = append(contents, Content{
			Text:   m.Segment.Text,
			Score:  m.Score,
			Source: r.name,
		})
	}
	return contents, nil
}
