// internal/websearch/tavily.go
// Package websearch provides the live web search boundary used by the web
// content retriever.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/agora/internal/logging"
)

const defaultEndpoint = "https://api.tavily.com/search"

// Result is one ranked web search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Engine is the web search capability: a query in, provider-ranked results
// out.
type Engine interface {
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)
}

// TavilyEngine implements Engine against the Tavily search API.
type TavilyEngine struct {
	apiKey   string
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// NewTavilyEngine constructs an engine with the given API key and timeout.
func NewTavilyEngine(apiKey string, timeout time.Duration) *TavilyEngine {
	return &TavilyEngine{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
	}
}

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		Content string  `json:"content"`
		URL     string  `json:"url"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

// Search issues one search request and returns results in provider order.
func (e *TavilyEngine) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("tavily: query is empty")
	}

	body, err := json.Marshal(tavilyRequest{
		APIKey:     e.apiKey,
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("tavily: marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	logging.LogRequest("AGORA->WEB", "tavily", "", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("tavily: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily: search request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tavily: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily: search failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed tavilyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("tavily: parse response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, Result{
			Title:   r.Title,
			Snippet: r.Content,
			URL:     r.URL,
		})
	}
	return results, nil
}
