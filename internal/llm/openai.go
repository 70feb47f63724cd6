package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

type OpenAI struct {
	client    openai.Client
	model     string
	maxTokens int
}

func NewOpenAI(cfg Config) *OpenAI {
	return &OpenAI{
		client:    openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

func (o *OpenAI) Name() string { return ProviderOpenAI + "/" + o.model }

func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	params := responses.ResponseNewParams{
		Model:           o.model,
		Instructions:    openai.String(req.Instruction),
		MaxOutputTokens: openai.Int(int64(o.maxTokens)),
		Input:           responses.ResponseNewParamsInputUnion{OfString: openai.String(req.Prompt)},
	}
	resp, err := o.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses: %w", err)
	}
	out := resp.OutputText()
	if strings.TrimSpace(out) == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
