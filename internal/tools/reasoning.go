package tools

import (
	"context"
	"fmt"

	"github.com/askagent/askagent/internal/llm"
	"github.com/askagent/askagent/internal/security"
	"github.com/rs/zerolog/log"
)

const reasoningPrompt = `You are a helpful assistant that provides clear, logical reasoning for questions.

Question: %s

Provide a step-by-step logical explanation and answer.`

// ReasoningTool asks the model directly. Model errors become the tool's
// output so a failed explanation never aborts the agent loop.
func ReasoningTool(model llm.Model) Tool {
	return Tool{
		Name:        ReasoningName,
		Description: "Use this tool for logical reasoning, explanations, and general questions that don't require calculations or Wikipedia searches.",
		Execute: func(ctx context.Context, input string) (string, error) {
			out, err := model.Generate(ctx, llm.Prompt{User: fmt.Sprintf(reasoningPrompt, input)})
			if err != nil {
				log.Warn().Err(err).Msg("reasoning tool failed")
				return "Error in reasoning: " + err.Error(), nil
			}
			return security.CleanResponse(out), nil
		},
	}
}
