// internal/router/router.go
// Package router decides which content retrievers participate in a given
// conversational turn.
package router

import (
	"context"

	"github.com/mwiater/agora/internal/retriever"
)

// Router selects the retrievers that should contribute context for a query.
// An empty route means the turn proceeds without retrieval.
type Router interface {
	Route(ctx context.Context, query string) []retriever.ContentRetriever
}

// StaticRouter always routes to the same fixed set of retrievers, in
// registration order.
type StaticRouter struct {
	retrievers []retriever.ContentRetriever
}

// NewStaticRouter builds a router over a fixed retriever set.
func NewStaticRouter(retrievers []retriever.ContentRetriever) *StaticRouter {
	return &StaticRouter{retrievers: retrievers}
}

// Route returns every registered retriever regardless of the query.
func (r *StaticRouter) Route(ctx context.Context, query string) []retriever.ContentRetriever {
	return r.retrievers
}
