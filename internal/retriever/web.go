// internal/retriever/web.go
package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwiater/agora/internal/websearch"
)

// WebSearchRetriever retrieves content from a live web search engine. The
// provider's own ranking is preserved and no score floor applies.
type WebSearchRetriever struct {
	name       string
	engine     websearch.Engine
	maxResults int
}

// NewWebSearchRetriever builds a retriever backed by the given engine.
func NewWebSearchRetriever(name string, engine websearch.Engine, maxResults int) *WebSearchRetriever {
	return &WebSearchRetriever{name: name, engine: engine, maxResults: maxResults}
}

// Name returns the source name used for context labeling.
func (r *WebSearchRetriever) Name() string { return r.name }

// Retrieve runs the search and converts each hit to content in provider
// order.
func (r *WebSearchRetriever) Retrieve(ctx context.Context, query string) ([]Content, error) {
	results, err := r.engine.Search(ctx, query, r.maxResults)
	if err != nil {
		return nil, fmt.Errorf("retriever %q: web search: %w", r.name, err)
	}

	contents := make([]Content, 0, len(results))
	for _, res := range results {
		var sb strings.Builder
		if res.Title != "" {
			sb.WriteString(res.Title)
			sb.WriteString(": ")
		}
		sb.WriteString(res.Snippet)
		if res.URL != "" {
			sb.WriteString(" (")
			sb.WriteString(res.URL)
			sb.WriteString(")")
		}
		contents = append(contents, Content{
			Text:   sb.String(),
			Source: r.name,
		})
	}
	return contents, nil
}
