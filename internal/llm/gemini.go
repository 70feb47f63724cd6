package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const appUser = "maarg"

// instruction templates treat braces as state placeholders
var braceReplacer = strings.NewReplacer("{", "(", "}", ")")

// Gemini runs each feature through its own ADK agent. Every call gets a
// throwaway session so features never see each other's history.
type Gemini struct {
	model    model.LLM
	name     string
	sessions session.Service

	mu      sync.Mutex
	runners map[string]*runner.Runner
}

func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	m, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %w", err)
	}
	return &Gemini{
		model:    m,
		name:     cfg.Model,
		sessions: session.InMemoryService(),
		runners:  make(map[string]*runner.Runner),
	}, nil
}

func (g *Gemini) Name() string { return ProviderGemini + "/" + g.name }

func (g *Gemini) runnerFor(req Request) (*runner.Runner, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.runners[req.Feature]; ok {
		return r, nil
	}

	a, err := llmagent.New(llmagent.Config{
		Name:        strings.ReplaceAll(req.Feature, "-", "_"),
		Model:       g.model,
		Description: "maarg " + req.Feature,
		Instruction: braceReplacer.Replace(req.Instruction),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}
	r, err := runner.New(runner.Config{
		AppName:        a.Name(),
		Agent:          a,
		SessionService: g.sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}
	g.runners[req.Feature] = r
	return r, nil
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	r, err := g.runnerFor(req)
	if err != nil {
		return "", err
	}

	created, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   strings.ReplaceAll(req.Feature, "-", "_"),
		UserID:    appUser,
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	sess := created.Session
	defer func() {
		_ = g.sessions.Delete(context.Background(), &session.DeleteRequest{
			AppName:   sess.AppName(),
			UserID:    sess.UserID(),
			SessionID: sess.ID(),
		})
	}()

	stream := r.Run(ctx, sess.UserID(), sess.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: req.Prompt},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if strings.TrimSpace(output) == "" {
		return "", ErrEmptyResponse
	}
	return output, nil
}
