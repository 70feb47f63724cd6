// Package llm holds the model backends used by the advisor features.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

var ErrEmptyResponse = errors.New("llm: empty model response")

// Request is one prompt for one feature. Instruction is the system prompt and
// stays constant per feature.
type Request struct {
	Feature     string
	Instruction string
	Prompt      string
}

// Model produces a completion for a request.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}

type Config struct {
	Provider    string
	Model       string
	APIKey      string
	Host        string // ollama only
	Temperature float64
	MaxTokens   int
}

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.5-pro",
	ProviderOpenAI:    "gpt-4.1-mini",
	ProviderAnthropic: "claude-sonnet-4-5",
	ProviderOllama:    "llama3.1",
}

// New builds the backend selected by cfg.Provider.
func New(ctx context.Context, cfg Config) (Model, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	if cfg.Model == "" {
		cfg.Model = defaultModels[provider]
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4096
	}
	if provider != ProviderOllama && cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: missing api key for provider %s", provider)
	}

	switch provider {
	case ProviderGemini:
		return NewGemini(ctx, cfg)
	case ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderAnthropic:
		return NewAnthropic(cfg), nil
	case ProviderOllama:
		return NewOllama(cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
