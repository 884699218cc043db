package security_test

import (
	"strings"
	"testing"

	"github.com/askagent/askagent/internal/security"
)

// ─── CleanResponse ────────────────────────────────────────────────────────────

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The answer is 4.", "The answer is 4."},
		{"trim", "  \n The answer is 4. \n\n", "The answer is 4."},
		{"collapse newlines", "line one\n\n\nline two\n\nline three", "line one\nline two\nline three"},
		{"strip deliberation", "<think>2+2 is 4</think>The answer is 4.", "The answer is 4."},
		{"multiline deliberation", "<think>\nfirst\n\nsecond\n</think>\n\nFinal: 4", "Final: 4"},
		{"two blocks", "<think>a</think>one\n<think>b</think>two", "one\ntwo"},
		{"unmatched open", "<think>never closed", "<think>never closed"},
		{"unmatched close", "stray</think> tag", "stray</think> tag"},
		{"nested", "<think>a<think>b</think>c</think>done", "c</think>done"},
		{"reassembled tags", "<thi<think>x</think>nk>hidden</think>shown", "shown"},
		{"only deliberation", "<think>nothing to say</think>", ""},
		{"empty", "", ""},
		{"whitespace inside runs kept", "a\n \nb", "a\n \nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := security.CleanResponse(tt.in); got != tt.want {
				t.Errorf("CleanResponse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanResponseIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"<think>x</think>",
		"<think><think></think></think>",
		"<thi<think>x</think>nk>y</think>z",
		"a\n\n<think>\n\n</think>\n\nb",
		"  <think>open only\n\n\ntext  ",
		"</think><think>",
		"résumé\n\n\n日本語 <think>思考</think>",
		strings.Repeat("<think>", 5) + "deep" + strings.Repeat("</think>", 5),
	}
	for _, in := range inputs {
		once := security.CleanResponse(in)
		twice := security.CleanResponse(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
		if strings.Contains(once, "\n\n") {
			t.Errorf("newline run survived for %q: %q", in, once)
		}
		if strings.Contains(once, security.DeliberationOpen) && strings.Contains(once[strings.Index(once, security.DeliberationOpen):], security.DeliberationClose) {
			t.Errorf("complete deliberation block survived for %q: %q", in, once)
		}
	}
}
