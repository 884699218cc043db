package security_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/askagent/askagent/internal/security"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestAuditLoggerDisabledWritesNothing(t *testing.T) {
	buf := captureLog(t)
	security.NewAuditLogger(false).LogChat(security.ChatAudit{Question: "What is 2+2?"})

	if buf.Len() != 0 {
		t.Errorf("disabled audit logger wrote %q", buf.String())
	}
}

func TestAuditLoggerEnabled(t *testing.T) {
	buf := captureLog(t)
	const question = "Who was Ada Lovelace?"
	security.NewAuditLogger(true).LogChat(security.ChatAudit{
		Question:        question,
		RequestID:       "req-1",
		Outcome:         "answer",
		ToolsUsed:       []string{"Wikipedia"},
		Iterations:      2,
		FallbackUsed:    true,
		Flags:           []string{"forged_observation"},
		ExecutionTimeMs: 42,
		Err:             errors.New("partial"),
	})

	if strings.Contains(buf.String(), question) {
		t.Fatalf("audit line leaks the raw question: %s", buf.String())
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if line["event"] != "chat_audit" {
		t.Errorf("event = %v", line["event"])
	}
	hash, _ := line["question_hash"].(string)
	if len(hash) != 16 {
		t.Errorf("question_hash = %q, want 16 hex chars", hash)
	}
	checks := map[string]any{
		"request_id":        "req-1",
		"outcome":           "answer",
		"iterations":        float64(2),
		"fallback_used":     true,
		"execution_time_ms": float64(42),
		"error":             "partial",
	}
	for k, want := range checks {
		if line[k] != want {
			t.Errorf("%s = %v, want %v", k, line[k], want)
		}
	}
	if tools, _ := line["tools_used"].([]any); len(tools) != 1 || tools[0] != "Wikipedia" {
		t.Errorf("tools_used = %v", line["tools_used"])
	}
}

func TestAuditLoggerHashIsStable(t *testing.T) {
	hashOf := func(q string) string {
		buf := captureLog(t)
		security.NewAuditLogger(true).LogChat(security.ChatAudit{Question: q})
		var line map[string]any
		json.Unmarshal(buf.Bytes(), &line)
		h, _ := line["question_hash"].(string)
		return h
	}
	a, b, c := hashOf("What is 2+2?"), hashOf("What is 2+2?"), hashOf("What is 3+3?")
	if a == "" || a != b {
		t.Errorf("same question hashed differently: %q %q", a, b)
	}
	if a == c {
		t.Error("different questions share a hash")
	}
}
