package llm

import (
	"context"
	"fmt"
	"time"
)

// Retry calls fn up to attempts times, waiting backoff*(i+1) between tries.
func Retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

type retrying struct {
	Model
	attempts int
	backoff  time.Duration
}

// WithRetry retries transient failures of m.
func WithRetry(m Model, attempts int, backoff time.Duration) Model {
	if attempts <= 1 {
		return m
	}
	return &retrying{Model: m, attempts: attempts, backoff: backoff}
}

func (r *retrying) Generate(ctx context.Context, req Request) (string, error) {
	return Retry(ctx, r.attempts, r.backoff, func() (string, error) {
		return r.Model.Generate(ctx, req)
	})
}
