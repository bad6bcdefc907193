// internal/router/model.go
package router

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/logging"
	"github.com/mwiater/agora/internal/retriever"
)

var numberPattern = regexp.MustCompile(`\d+`)

// ModelRouter asks a chat model to pick, from a described list of sources,
// the ones relevant to the query. Zero, one, or several sources may be
// selected. A model failure degrades to an empty route.
type ModelRouter struct {
	chat         llm.ChatModel
	retrievers   []retriever.ContentRetriever
	descriptions []string
}

// NewModelRouter builds a classifier router. descriptions[i] describes
// retrievers[i] and both slices must be the same length.
func NewModelRouter(chat llm.ChatModel, retrievers []retriever.ContentRetriever, descriptions []string) (*ModelRouter, error) {
	if len(retrievers) != len(descriptions) {
		return nil, fmt.Errorf("router: %d retrievers but %d descriptions", len(retrievers), len(descriptions))
	}
	return &ModelRouter{chat: chat, retrievers: retrievers, descriptions: descriptions}, nil
}

// Route asks the model which numbered sources apply and returns the
// selected retrievers in listed order.
func (r *ModelRouter) Route(ctx context.Context, query string) []retriever.ContentRetriever {
	reply, err := r.chat.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: r.prompt(query)}})
	if err != nil {
		logging.LogEvent("[ROUTER] source classification failed, routing to no sources: %v", err)
		return nil
	}
	return r.parse(reply)
}

func (r *ModelRouter) prompt(query string) string {
	var sb strings.Builder
	sb.WriteString("You route user queries to data sources. The available sources are:\n")
	for i, desc := range r.descriptions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, desc)
	}
	sb.WriteString("\nAnswer with the numbers of every source relevant to the query, ")
	sb.WriteString("or 'none' if no source applies.\n\nQuery: ")
	sb.WriteString(query)
	return sb.String()
}

// parse accepts in-range option numbers and case-insensitive description
// matches. Anything else in the reply is ignored, so garbage selects
// nothing.
func (r *ModelRouter) parse(reply string) []retriever.ContentRetriever {
	selected := make(map[int]bool)

	for _, raw := range numberPattern.FindAllString(reply, -1) {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > len(r.retrievers) {
			continue
		}
		selected[n-1] = true
	}

	lower := strings.ToLower(reply)
	for i, desc := range r.descriptions {
		if strings.Contains(lower, strings.ToLower(desc)) {
			selected[i] = true
		}
	}

	var routed []retriever.ContentRetriever
	for i, ret := range r.retrievers {
		if selected[i] {
			routed = append(routed, ret)
		}
	}
	return routed
}
