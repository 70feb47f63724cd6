package main

import (
	"context"
	"fmt"

	"github.com/muhammadolammi/maarg/internal/advisor"
	"github.com/muhammadolammi/maarg/internal/catalog"
	"github.com/muhammadolammi/maarg/internal/config"
	"github.com/muhammadolammi/maarg/internal/llm"
)

// GetAdvisor builds the configured model backend, wraps it with metrics and
// retries, and returns the advisor every feature runs through.
func GetAdvisor(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, obs llm.Observer) (*advisor.Service, error) {
	model, err := llm.New(ctx, llm.Config{
		Provider:    cfg.LLM.Provider,
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		Host:        cfg.LLM.OllamaHost,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	// each attempt is observed on its own
	model = llm.WithRetry(llm.Instrument(model, obs, cfg.Debug), cfg.LLM.Attempts, cfg.LLM.Backoff)

	return advisor.New(model, cat, cfg.Interview.QuestionCount), nil
}
