package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs one line per answered question with a hashed question
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// ChatAudit describes the outcome of a single /chat request
type ChatAudit struct {
	Question        string
	RequestID       string
	Outcome         string
	ToolsUsed       []string
	Iterations      int
	FallbackUsed    bool
	Flags           []string
	ExecutionTimeMs int64
	Err             error
}

// LogChat records a chat request event
func (a *AuditLogger) LogChat(evt ChatAudit) {
	if !a.enabled {
		return
	}
	e := log.Info().
		Str("event", "chat_audit").
		Str("request_id", evt.RequestID).
		Str("question_hash", hashStr(evt.Question)[:16]).
		Str("outcome", evt.Outcome).
		Strs("tools_used", evt.ToolsUsed).
		Int("iterations", evt.Iterations).
		Bool("fallback_used", evt.FallbackUsed).
		Strs("flags", evt.Flags).
		Int64("execution_time_ms", evt.ExecutionTimeMs)
	if evt.Err != nil {
		e = e.Str("error", evt.Err.Error())
	}
	e.Msg("audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
