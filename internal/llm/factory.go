// internal/llm/factory.go
package llm

import (
	"fmt"

	"github.com/mwiater/agora/internal/appconfig"
)

// Client bundles the chat and embedding capabilities of one provider.
type Client interface {
	ChatModel
	EmbeddingModel
}

// Compile-time interface checks for both providers.
var (
	_ Client = (*OllamaClient)(nil)
	_ Client = (*OpenAIClient)(nil)
)

// New builds the provider matching the host type, bound to the given model.
func New(cfg *appconfig.Config, host appconfig.Host, model string) (Client, error) {
	switch host.Type {
	case "ollama":
		return NewOllamaClient(host, model, cfg.ChatTemperature(), cfg.RequestTimeout()), nil
	case "openai":
		return NewOpenAIClient(cfg.OpenAIKey, host.URL, model, cfg.ChatTemperature()), nil
	default:
		return nil, fmt.Errorf("unsupported host type %q for host %q", host.Type, host.Name)
	}
}
