// internal/llm/openai.go
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements ChatModel and EmbeddingModel using the OpenAI
// API (or any endpoint speaking the same protocol via a base URL override).
type OpenAIClient struct {
	api         *openai.Client
	model       string
	temperature float64
}

// NewOpenAIClient constructs a client for one model. baseURL may be empty
// to use the public API endpoint.
func NewOpenAIClient(apiKey, baseURL, model string, temperature float64) *OpenAIClient {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	return &OpenAIClient{
		api:         openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: temperature,
	}
}

// Generate sends a chat completion request and returns the reply text.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	if c.model == "" {
		return "", fmt.Errorf("openai: chat model is not configured")
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: float32(c.temperature),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed requests an embedding vector for a single text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("openai: no embedding vector returned")
	}
	return vectors[0], nil
}

// EmbedBatch embeds all texts in one request.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := c.model
	if model == "" {
		model = string(openai.AdaEmbeddingV2)
	}

	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: embedding creation failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai: got %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, d := range resp.Data {
		vec := make([]float64, len(d.Embedding))
		for j, v := range d.Embedding {
			vec[j] = float64(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
