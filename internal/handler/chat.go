package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/askagent/askagent/internal/agent"
	"github.com/askagent/askagent/internal/middleware"
	"github.com/askagent/askagent/internal/models"
	"github.com/askagent/askagent/internal/security"
	"github.com/rs/zerolog/log"
)

const (
	agentErrorPrefix   = "I encountered an error while processing your question: "
	requestErrorPrefix = "There was an error processing your request: "
)

// Asker answers a single question
type Asker interface {
	Ask(ctx context.Context, question string) (*agent.Reply, error)
}

// ChatHandler handles POST /chat
type ChatHandler struct {
	asker     Asker
	audit     *security.AuditLogger
	inspector *security.PromptInspector
}

func NewChatHandler(asker Asker, audit *security.AuditLogger) *ChatHandler {
	if audit == nil {
		audit = security.NewAuditLogger(false)
	}
	return &ChatHandler{asker: asker, audit: audit, inspector: security.NewPromptInspector()}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	req, err := models.DecodeChatRequest(r.Body)
	if err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	requestID := middleware.GetRequestID(r.Context())
	log.Info().Str("request_id", requestID).Str("question", req.Question).Msg("received question")

	flags := h.inspector.Inspect(req.Question)
	if len(flags) > 0 {
		log.Warn().Str("request_id", requestID).Strs("flags", flags).Msg("suspicious question")
	}

	start := time.Now()
	reply, err := h.asker.Ask(r.Context(), req.Question)

	evt := security.ChatAudit{
		Question:        req.Question,
		RequestID:       requestID,
		Flags:           flags,
		ExecutionTimeMs: time.Since(start).Milliseconds(),
		Err:             err,
	}
	if reply != nil {
		evt.Outcome = reply.Outcome.String()
		evt.ToolsUsed = reply.ToolsUsed
		evt.Iterations = reply.Iterations
		evt.FallbackUsed = reply.FallbackUsed
	}
	h.audit.LogChat(evt)

	if err != nil {
		prefix := requestErrorPrefix
		var se *agent.StageError
		if errors.As(err, &se) && se.Stage == agent.StageAgent {
			prefix = agentErrorPrefix
		}
		log.Error().Err(err).Str("request_id", requestID).Msg("chat failed")
		models.WriteFailure(w, http.StatusInternalServerError, prefix+err.Error())
		return
	}

	models.WriteJSON(w, http.StatusOK, models.ChatResponse{
		Success: true,
		Message: reply.Answer,
	})
}
