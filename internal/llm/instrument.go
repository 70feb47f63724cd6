package llm

import (
	"context"
	"log"
	"strings"
	"time"
)

// Observer records the outcome of each model call.
type Observer interface {
	ObserveLLMRequest(provider, feature, status string, elapsed time.Duration)
}

type instrumented struct {
	Model
	obs   Observer
	debug bool
}

// Instrument reports every Generate call of m to obs. With debug set, prompt
// sizes and latency are logged.
func Instrument(m Model, obs Observer, debug bool) Model {
	return &instrumented{Model: m, obs: obs, debug: debug}
}

func (i *instrumented) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	out, err := i.Model.Generate(ctx, req)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	provider, _, _ := strings.Cut(i.Name(), "/")
	if i.obs != nil {
		i.obs.ObserveLLMRequest(provider, req.Feature, status, elapsed)
	}
	if i.debug {
		log.Printf("llm %s feature=%s prompt_bytes=%d reply_bytes=%d took=%s err=%v", i.Name(), req.Feature, len(req.Prompt), len(out), elapsed, err)
	}
	return out, err
}
