package security

import (
	"regexp"
	"strings"
)

// LongQuestionChars is the length past which a question is flagged
const LongQuestionChars = 2000

type promptPattern struct {
	flag string
	re   *regexp.Regexp
}

// injectionPatterns target attempts to steer the agent away from its prompt
// or its tool format.
var injectionPatterns = []promptPattern{
	{"ignore_instructions", regexp.MustCompile(`(?i)(ignore|disregard|forget|override)\s+(all\s+)?(previous|prior|above)\s+instructions`)},
	{"context_switch", regexp.MustCompile(`(?i)(new|change)\s+context\s*:`)},
	{"instead_of_above", regexp.MustCompile(`(?i)instead\s+of\s+the\s+above`)},
	{"system_prompt", regexp.MustCompile(`(?i)(reveal|print|show|repeat)\s+(your\s+|the\s+)?system\s+prompt`)},
	{"forged_observation", regexp.MustCompile(`(?m)^\s*Observation\s*:`)},
	{"forged_final_answer", regexp.MustCompile(`(?m)^\s*Final Answer\s*:`)},
	{"deliberation_tag", regexp.MustCompile(`(?i)</?think>`)},
}

// PromptInspector flags questions that look like prompt injection. It never
// blocks a request; findings are logged and audited.
type PromptInspector struct{}

func NewPromptInspector() *PromptInspector {
	return &PromptInspector{}
}

// Inspect returns the flags raised by question, in a stable order
func (p *PromptInspector) Inspect(question string) []string {
	var flags []string
	if len([]rune(question)) > LongQuestionChars {
		flags = append(flags, "long_question")
	}
	if strings.TrimSpace(question) == "" {
		flags = append(flags, "blank_question")
	}
	for _, pat := range injectionPatterns {
		if pat.re.MatchString(question) {
			flags = append(flags, pat.flag)
		}
	}
	return flags
}
