package agent

import (
	"strings"

	"github.com/askagent/askagent/internal/tools"
)

const (
	promptPrefix = "Answer the following questions as best you can. You have access to the following tools:"

	promptFormat = `Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [{tool_names}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question`

	promptSuffix = "Begin!\n\nQuestion: {input}\nThought:{agent_scratchpad}"

	observationPrefix = "Observation: "
	thoughtPrefix     = "Thought:"

	forceFinalThought = "\n\nI now need to return a final answer based on the previous steps:"

	fallbackPrompt = "Please answer this question clearly and concisely: "
)

// stopSequences cut generation before the model invents its own observation
var stopSequences = []string{"\n" + strings.TrimSpace(observationPrefix), "\n\t" + strings.TrimSpace(observationPrefix)}

// Step is one executed tool call and what it returned
type Step struct {
	Tool        string
	Input       string
	Log         string
	Observation string
}

// buildPrompt renders the zero-shot ReAct prompt for the question and the
// steps taken so far. extra is appended to the scratchpad verbatim.
func buildPrompt(question string, ts []tools.Tool, steps []Step, extra string) string {
	var desc strings.Builder
	for i, t := range ts {
		if i > 0 {
			desc.WriteString("\n")
		}
		desc.WriteString(t.Name + ": " + t.Description)
	}

	format := strings.ReplaceAll(promptFormat, "{tool_names}", strings.Join(tools.Names(ts), ", "))
	// One pass, so placeholders inside the question are left alone.
	suffix := strings.NewReplacer(
		"{input}", question,
		"{agent_scratchpad}", scratchpad(steps)+extra,
	).Replace(promptSuffix)

	return strings.Join([]string{promptPrefix, desc.String(), format, suffix}, "\n\n")
}

func scratchpad(steps []Step) string {
	var sb strings.Builder
	for _, s := range steps {
		sb.WriteString(s.Log)
		sb.WriteString("\n" + observationPrefix + s.Observation + "\n" + thoughtPrefix)
	}
	return sb.String()
}
