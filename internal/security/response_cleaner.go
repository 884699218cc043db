package security

import (
	"regexp"
	"strings"
)

const (
	DeliberationOpen  = "<think>"
	DeliberationClose = "</think>"
)

var (
	reDeliberation = regexp.MustCompile(`(?s)<think>.*?</think>`)
	reNewlineRun   = regexp.MustCompile(`\n+`)
)

// CleanResponse strips <think>...</think> blocks, trims the text and collapses
// newline runs. Removal repeats until no complete block is left, so tags that
// reassemble after an inner block is cut are also removed and the result is a
// fixed point.
func CleanResponse(text string) string {
	for {
		stripped := reDeliberation.ReplaceAllString(text, "")
		if stripped == text {
			break
		}
		text = stripped
	}
	return reNewlineRun.ReplaceAllString(strings.TrimSpace(text), "\n")
}
