package actions

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"
)

// Budget caps the size of free-text input before it reaches a model.
type Budget struct {
	codec tokenizer.Codec
	limit int
}

func NewBudget(limit int) (*Budget, error) {
	codec, err := tokenizer.ForModel(tokenizer.GPT4)
	if err != nil {
		return nil, fmt.Errorf("failed to create tokenizer codec: %w", err)
	}
	return &Budget{codec: codec, limit: limit}, nil
}

// Count returns the token count of text, estimating from length if the
// codec fails.
func (b *Budget) Count(text string) int {
	n, err := b.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return n
}

func (b *Budget) Allows(text string) bool {
	return b == nil || b.limit <= 0 || b.Count(text) <= b.limit
}

func (b *Budget) Limit() int { return b.limit }
