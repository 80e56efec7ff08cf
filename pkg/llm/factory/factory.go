package factory

import (
	"context"
	"fmt"
	"time"

	"travel-concierge-be/pkg/llm"
	"travel-concierge-be/pkg/llm/gemini"
	"travel-concierge-be/pkg/llm/huggingface"
	"travel-concierge-be/pkg/llm/ollama"
	"travel-concierge-be/pkg/llm/openai"
)

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "", "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model, cfg.Timeout), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(cfg.APIKey, "", cfg.Model, cfg.Timeout), nil
	case "gemini":
		return gemini.NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai api key is empty")
		}
		return openai.NewOpenAIProvider(cfg.APIKey, "", cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
