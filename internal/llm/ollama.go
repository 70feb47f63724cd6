package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
)

const defaultOllamaHost = "http://localhost:11434"

type Ollama struct {
	client      *api.Client
	model       string
	temperature float64
	maxTokens   int
}

func NewOllama(cfg Config) (*Ollama, error) {
	host := cfg.Host
	if host == "" {
		host = defaultOllamaHost
	}
	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	return &Ollama{
		client:      api.NewClient(parsed, http.DefaultClient),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (o *Ollama) Name() string { return ProviderOllama + "/" + o.model }

func (o *Ollama) Generate(ctx context.Context, req Request) (string, error) {
	stream := false
	chat := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "system", Content: req.Instruction},
			{Role: "user", Content: req.Prompt},
		},
		Stream: &stream,
		Options: map[string]any{
			"temperature": o.temperature,
			"num_predict": o.maxTokens,
		},
	}

	var out strings.Builder
	err := o.client.Chat(ctx, chat, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", ErrEmptyResponse
	}
	return out.String(), nil
}
