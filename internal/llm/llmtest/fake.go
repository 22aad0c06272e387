// Package llmtest provides a scripted llm.Completer for tests.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/jobscout/internal/llm"
)

// Call records one Complete invocation.
type Call struct {
	Prompt       string
	SystemPrompt string
	Options      llm.CallOptions
}

// Completer returns canned responses in order. When Respond is set it is
// used instead. Safe for concurrent use.
type Completer struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Respond   func(prompt, systemPrompt string) (string, error)
	calls     []Call
}

// New creates a Completer that returns responses in order, repeating the last.
func New(responses ...string) *Completer {
	return &Completer{Responses: responses}
}

// Complete implements llm.Completer.
func (c *Completer) Complete(_ context.Context, prompt, systemPrompt string, opts ...llm.CallOption) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls = append(c.calls, Call{Prompt: prompt, SystemPrompt: systemPrompt, Options: llm.ResolveCallOptions(opts...)})
	if c.Respond != nil {
		return c.Respond(prompt, systemPrompt)
	}
	if c.Err != nil {
		return "", c.Err
	}
	if len(c.Responses) == 0 {
		return "", nil
	}
	i := len(c.calls) - 1
	if i >= len(c.Responses) {
		i = len(c.Responses) - 1
	}
	return c.Responses[i], nil
}

// Calls returns a copy of the recorded calls.
func (c *Completer) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}

// LastPromptContains reports whether the most recent prompt contains s.
func (c *Completer) LastPromptContains(s string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.calls) == 0 {
		return false
	}
	return strings.Contains(c.calls[len(c.calls)-1].Prompt, s)
}
