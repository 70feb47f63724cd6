// Package actions validates form submissions and adapts them into advisor
// calls, returning every result in one envelope shape.
package actions

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MsgInvalidInput = "Error: Invalid input."
	MsgServerError  = "An error occurred on the server. Please try again later."
)

// Envelope is the result of every action. Data is set only on success.
// Fields echoes the submitted values when validation fails.
type Envelope[T any] struct {
	Message string            `json:"message"`
	Data    *T                `json:"data,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Issues  []string          `json:"issues,omitempty"`
}

func (e Envelope[T]) OK() bool { return e.Data != nil }

func Success[T any](message string, data *T) Envelope[T] {
	return Envelope[T]{Message: message, Data: data}
}

func Failure[T any](err error) Envelope[T] {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return Envelope[T]{Message: MsgInvalidInput, Fields: verr.Fields, Issues: verr.Issues}
	}
	return Envelope[T]{Message: MsgServerError, Issues: []string{err.Error()}}
}

// ValidationError lists every problem found in one submission.
type ValidationError struct {
	Fields map[string]string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input: %s", strings.Join(e.Issues, "; "))
}
