// Package llmtest provides a scripted llm.Model for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/askagent/askagent/internal/llm"
)

// Reply is one scripted completion
type Reply struct {
	Text string
	Err  error
}

// Model returns its replies in order and records every prompt it receives.
// Once the script is exhausted, further calls fail.
type Model struct {
	mu      sync.Mutex
	replies []Reply
	prompts []llm.Prompt
}

func New(replies ...Reply) *Model {
	return &Model{replies: replies}
}

// Texts builds a Model whose replies are all successful completions
func Texts(texts ...string) *Model {
	replies := make([]Reply, len(texts))
	for i, t := range texts {
		replies[i] = Reply{Text: t}
	}
	return New(replies...)
}

func (m *Model) Name() string { return "scripted" }

func (m *Model) Generate(ctx context.Context, p llm.Prompt) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, p)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.replies) == 0 {
		return "", fmt.Errorf("llmtest: no scripted reply for call %d", len(m.prompts))
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	return r.Text, r.Err
}

// Prompts returns a copy of the prompts received so far
func (m *Model) Prompts() []llm.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.Prompt(nil), m.prompts...)
}

// Calls returns how many times Generate was called
func (m *Model) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}
