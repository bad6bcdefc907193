// internal/llm/ollama.go
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/agora/internal/appconfig"
	"github.com/mwiater/agora/internal/logging"
)

// OllamaClient implements ChatModel and EmbeddingModel against
// Ollama-compatible HTTP endpoints.
type OllamaClient struct {
	host        appconfig.Host
	model       string
	temperature float64
	client      *http.Client
	timeout     time.Duration
}

// NewOllamaClient constructs a client bound to one host and model.
func NewOllamaClient(host appconfig.Host, model string, temperature float64, timeout time.Duration) *OllamaClient {
	return &OllamaClient{
		host:        host,
		model:       model,
		temperature: temperature,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
	}
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatResponse struct {
	Model   string        `json:"model"`
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaEmbeddingResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Generate sends a non-streaming chat request and returns the reply text.
func (c *OllamaClient) Generate(ctx context.Context, messages []Message) (string, error) {
	if strings.TrimSpace(c.model) == "" {
		return "", fmt.Errorf("ollama: chat model is not configured")
	}

	req := ollamaChatRequest{
		Model:  c.model,
		Stream: false,
		Options: map[string]any{
			"temperature": c.temperature,
		},
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, ollamaMessage{Role: m.Role, Content: m.Content})
	}

	var parsed ollamaChatResponse
	if err := c.post(ctx, "/api/chat", req, &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.Message.Content) == "" {
		return "", fmt.Errorf("ollama: chat response contained no content")
	}
	return parsed.Message.Content, nil
}

// Embed requests an embedding vector for a single text.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(c.model) == "" {
		return nil, fmt.Errorf("ollama: embedding model is not configured")
	}

	payload := map[string]any{
		"model":  c.model,
		"prompt": text,
	}
	var parsed ollamaEmbeddingResponse
	if err := c.post(ctx, "/api/embeddings", payload, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("ollama: embedding response returned empty vector")
	}
	return parsed.Embedding, nil
}

// EmbedBatch embeds each text in order. The Ollama embeddings endpoint is
// single-text, so the batch is a sequential fan-out.
func (c *OllamaClient) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := c.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed text %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func (c *OllamaClient) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.host.URL + path
	logging.LogRequest("AGORA->LLM", c.host.Name, c.model, body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s failed: %s: %s", path, resp.Status, strings.TrimSpace(string(raw)))
	}
	logging.LogRequest("LLM->AGORA", c.host.Name, c.model, raw)

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
