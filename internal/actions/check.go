package actions

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// checker accumulates validation issues for one form.
type checker struct {
	fields map[string]string
	issues []string
	budget *Budget
}

func newChecker(budget *Budget, fields map[string]string) *checker {
	return &checker{fields: fields, budget: budget}
}

func (c *checker) fail(msg string) {
	c.issues = append(c.issues, msg)
}

func (c *checker) minLen(value string, n int, msg string) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		c.fail(msg)
	}
}

func (c *checker) tokens(name, value string) {
	if !c.budget.Allows(value) {
		c.fail(fmt.Sprintf("%s is too long (limit %d tokens).", name, c.budget.Limit()))
	}
}

func (c *checker) err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields, Issues: c.issues}
}
