// internal/augment/augment.go
// Package augment fans a query out to its routed retrievers and folds the
// results into a generation request.
package augment

import (
	"context"
	"strings"
	"sync"

	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/logging"
	"github.com/mwiater/agora/internal/retriever"
	"github.com/mwiater/agora/internal/router"
)

// Augmentor routes a query, queries the selected retrievers concurrently,
// and merges their contributions in route order. Contributions from
// different sources are never re-ranked against each other.
type Augmentor struct {
	router router.Router
}

// New builds an augmentor over the given router.
func New(r router.Router) *Augmentor {
	return &Augmentor{router: r}
}

// Request carries everything the chat model needs for one turn.
type Request struct {
	System   string
	History  []llm.Message
	Contents []retriever.Content
	Query    string
}

// Augment routes the query and gathers content from every selected
// retriever. A retriever failure costs only that source's contribution.
func (a *Augmentor) Augment(ctx context.Context, query string, history []llm.Message, system string) Request {
	routed := a.router.Route(ctx, query)

	results := make([][]retriever.Content, len(routed))
	var wg sync.WaitGroup
	for i, ret := range routed {
		wg.Add(1)
		go func(i int, ret retriever.ContentRetriever) {
			defer wg.Done()
			contents, err := ret.Retrieve(ctx, query)
			if err != nil {
				logging.LogEvent("[AUGMENT] retriever %q failed, contributing nothing: %v", ret.Name(), err)
				return
			}
			results[i] = contents
		}(i, ret)
	}
	wg.Wait()

	var merged []retriever.Content
	for _, contents := range results {
		merged = append(merged, contents...)
	}

	return Request{
		System:   system,
		History:  history,
		Contents: merged,
		Query:    query,
	}
}

// Messages renders the request as a chat transcript. Retrieved context is
// folded into the final user message, labeled per source, and never stored
// in history.
func (r Request) Messages() []llm.Message {
	messages := make([]llm.Message, 0, len(r.History)+2)
	if r.System != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: r.System})
	}
	messages = append(messages, r.History...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: r.userMessage()})
	return messages
}

func (r Request) userMessage() string {
	if len(r.Contents) == 0 {
		return r.Query
	}

	var sb strings.Builder
	sb.WriteString("CONTEXT:\n")
	for _, c := range r.Contents {
		sb.WriteString("[source:")
		sb.WriteString(c.Source)
		sb.WriteString("] ")
		sb.WriteString(c.Text)
		sb.WriteString("\n")
	}
	sb.WriteString("\nUsing the context above when it is relevant, answer:\n")
	sb.WriteString(r.Query)
	return sb.String()
}
