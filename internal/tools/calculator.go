package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/askagent/askagent/internal/llm"
	"github.com/askagent/askagent/internal/service"
	"github.com/rs/zerolog/log"
)

const calculatorPrompt = `Translate a math problem into a single arithmetic expression that a calculator can evaluate.
Use only numbers, parentheses, the operators + - * / %% and ** (power), and the functions sqrt, pow, exp, log, log10, log2, sin, cos, tan, abs, floor, ceil, round, min, max. The constants pi and e are available.

Reply in exactly this format:

Question: ${question with math problem}
` + "```text" + `
${single line arithmetic expression}
` + "```" + `

Question: %s
`

var reTextBlock = regexp.MustCompile("(?s)^```text(.*?)```")

// CalculatorTool evaluates arithmetic. Inputs that already are expressions are
// evaluated directly; anything else is first translated by the model.
func CalculatorTool(model llm.Model, eval *service.Evaluator) Tool {
	return Tool{
		Name:        CalculatorName,
		Description: "Use this tool to perform mathematical calculations. Input should be a mathematical expression like '2+2' or '10*5/2'.",
		Execute: func(ctx context.Context, input string) (string, error) {
			if result, err := eval.Evaluate(input); err == nil {
				return "Answer: " + result, nil
			}

			out, err := model.Generate(ctx, llm.Prompt{
				User: fmt.Sprintf(calculatorPrompt, strings.TrimSpace(input)),
				Stop: []string{"```output"},
			})
			if err != nil {
				return "", fmt.Errorf("calculator: %w", err)
			}
			return parseCalculatorOutput(eval, out)
		},
	}
}

func parseCalculatorOutput(eval *service.Evaluator, out string) (string, error) {
	out = strings.TrimSpace(out)
	if m := reTextBlock.FindStringSubmatch(out); m != nil {
		expression := strings.TrimSpace(m[1])
		result, err := eval.Evaluate(expression)
		if err != nil {
			return "", fmt.Errorf("calculator: %w", err)
		}
		log.Debug().Str("expression", expression).Str("result", result).Msg("calculator evaluated")
		return "Answer: " + result, nil
	}
	if strings.HasPrefix(out, "Answer:") {
		return out, nil
	}
	return "", fmt.Errorf("calculator: unknown format from LLM: %s", out)
}
