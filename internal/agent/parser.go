package agent

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	finalAnswerMarker = "Final Answer:"

	missingActionObservation      = "Invalid Format: Missing 'Action:' after 'Thought:'"
	missingActionInputObservation = "Invalid Format: Missing 'Action Input:' after 'Action:'"
)

// ErrOutputParse marks model output that is neither a tool call nor a final answer.
var ErrOutputParse = errors.New("could not parse LLM output")

var (
	reAction      = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
	reActionOnly  = regexp.MustCompile(`(?s)Action\s*\d*\s*:[\s]*(.*?)`)
	reActionInput = regexp.MustCompile(`(?s)[\s]*Action\s*\d*\s*Input\s*\d*\s*:[\s]*(.*)`)
)

// ParseError carries the raw output that failed to parse. Observation is set
// for format errors the model can correct; it is fed back verbatim.
type ParseError struct {
	Reason      string
	Text        string
	Observation string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: `%s`", ErrOutputParse, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error { return ErrOutputParse }

// Action is a parsed tool call
type Action struct {
	Tool  string
	Input string
	Log   string
}

// Finish is a parsed final answer
type Finish struct {
	Output string
	Log    string
}

// ParseOutput reads one ReAct step. Exactly one of the returned action and
// finish is non-nil when err is nil.
func ParseOutput(text string) (*Action, *Finish, error) {
	answerAt := strings.Index(text, finalAnswerMarker)
	match := reAction.FindStringSubmatchIndex(text)

	if match != nil && answerAt >= 0 {
		// An answer written before a hallucinated action still counts.
		if answerAt < match[0] {
			start := answerAt + len(finalAnswerMarker)
			end := strings.Index(text[start:], "\n\n")
			if end < 0 {
				end = len(text)
			} else {
				end += start
			}
			return nil, &Finish{Output: strings.TrimSpace(text[start:end]), Log: text[:end]}, nil
		}
		return nil, nil, &ParseError{Reason: "output contains both a final answer and a parse-able action", Text: text}
	}

	if match != nil {
		tool := strings.TrimSpace(text[match[2]:match[3]])
		input := strings.Trim(strings.TrimSpace(text[match[4]:match[5]]), `"`)
		return &Action{Tool: tool, Input: input, Log: text}, nil, nil
	}

	if answerAt >= 0 {
		i := strings.LastIndex(text, finalAnswerMarker)
		return nil, &Finish{Output: strings.TrimSpace(text[i+len(finalAnswerMarker):]), Log: text}, nil
	}

	switch {
	case !reActionOnly.MatchString(text):
		return nil, nil, &ParseError{Reason: "missing action", Text: text, Observation: missingActionObservation}
	case !reActionInput.MatchString(text):
		return nil, nil, &ParseError{Reason: "missing action input", Text: text, Observation: missingActionInputObservation}
	default:
		return nil, nil, &ParseError{Reason: "unrecognized step", Text: text}
	}
}
