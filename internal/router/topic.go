// internal/router/topic.go
package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/mwiater/agora/internal/llm"
	"github.com/mwiater/agora/internal/logging"
	"github.com/mwiater/agora/internal/retriever"
)

// TopicRouter asks a chat model whether the query concerns a configured
// topic. On an affirmative answer it routes to all registered retrievers,
// otherwise to none. A model failure degrades to an empty route so the turn
// still runs.
type TopicRouter struct {
	chat       llm.ChatModel
	topic      string
	retrievers []retriever.ContentRetriever
}

// NewTopicRouter builds a topic gate over the given retrievers.
func NewTopicRouter(chat llm.ChatModel, topic string, retrievers []retriever.ContentRetriever) *TopicRouter {
	return &TopicRouter{chat: chat, topic: topic, retrievers: retrievers}
}

// Route asks the gate question and routes on a "yes" in the reply.
func (r *TopicRouter) Route(ctx context.Context, query string) []retriever.ContentRetriever {
	prompt := fmt.Sprintf(
		"Does the following query concern the topic of %s? Answer only 'yes' or 'no'.\n\nQuery: %s",
		r.topic, query,
	)

	reply, err := r.chat.Generate(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		logging.LogEvent("[ROUTER] topic gate failed, routing to no sources: %v", err)
		return nil
	}

	if strings.Contains(strings.ToLower(reply), "yes") {
		return r.retrievers
	}
	return nil
}
