package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CleanJSON strips markdown fences and any prose around the outermost JSON
// object or array in a model reply.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	clean = strings.TrimSpace(clean)

	start := strings.IndexAny(clean, "{[")
	if start < 0 {
		return clean
	}
	closer := byte('}')
	if clean[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(clean, closer)
	if end < start {
		return clean
	}
	return clean[start : end+1]
}

// DecodeJSON cleans raw and decodes it into a T.
func DecodeJSON[T any](raw string) (T, error) {
	var out T
	if strings.TrimSpace(raw) == "" {
		return out, ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(CleanJSON(raw)), &out); err != nil {
		return out, fmt.Errorf("json unmarshal error: %w", err)
	}
	return out, nil
}
