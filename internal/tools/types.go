// Package tools defines the Tool type and the tools the agent can call.
package tools

import (
	"context"
	"strings"
)

const (
	CalculatorName = "Calculator"
	WikipediaName  = "Wikipedia"
	ReasoningName  = "Reasoning"
)

// Tool represents a callable capability the LLM selects by description
type Tool struct {
	Name        string
	Description string
	Execute     func(ctx context.Context, input string) (string, error)
}

// Names returns the tool names in order
func Names(ts []Tool) []string {
	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name
	}
	return names
}

// Find looks a tool up by name, ignoring case and surrounding whitespace
func Find(ts []Tool, name string) (Tool, bool) {
	name = strings.TrimSpace(name)
	for _, t := range ts {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tool{}, false
}
