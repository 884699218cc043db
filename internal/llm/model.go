// Package llm defines the text-completion contract the agent and tools use,
// and its Anthropic-backed implementation.
package llm

import "context"

// Prompt is a single-turn completion request
type Prompt struct {
	System string
	User   string
	// Stop sequences end generation early; the matched sequence is not returned.
	Stop []string
}

// Model completes prompts. Implementations must be safe for concurrent use
// because one instance is shared by every request.
type Model interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}
