// internal/llm/llm.go
// Package llm defines the chat and embedding model boundaries and their
// provider implementations. Providers are selected per configured host.
package llm

import (
	"context"
	"errors"
)

// Message roles used in chat requests.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrGeneration marks a failed answer-generation call. Callers use it to
// distinguish a turn-fatal generation error from recoverable retrieval
// problems.
var ErrGeneration = errors.New("generation failed")

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string
	Content string
}

// ChatModel produces a completion for an ordered list of chat messages.
type ChatModel interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// EmbeddingModel converts text into fixed-dimension vectors. The same model
// must be used at ingestion time and query time for a given store.
type EmbeddingModel interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}
