package server

import (
	"fmt"
	"net/http"

	"github.com/askagent/askagent/internal/agent"
	"github.com/askagent/askagent/internal/config"
	"github.com/askagent/askagent/internal/handler"
	"github.com/askagent/askagent/internal/llm"
	"github.com/askagent/askagent/internal/metrics"
	"github.com/askagent/askagent/internal/middleware"
	"github.com/askagent/askagent/internal/security"
	"github.com/askagent/askagent/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// BuildOrchestrator wires the shared model and Wikipedia clients into an
// orchestrator. The returned service is also used for health checks.
func BuildOrchestrator(cfg *config.Config) (*agent.Orchestrator, *service.WikipediaService, error) {
	if cfg.LLM.APIKey == "" {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - model calls will fail")
	}
	model := llm.NewAnthropicModel(llm.AnthropicOptions{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})

	wiki, err := service.NewWikipediaService(service.WikipediaOptions{
		APIURL:         cfg.WikipediaEndpoint(),
		UserAgent:      cfg.Wikipedia.UserAgent,
		TopK:           cfg.Wikipedia.TopK,
		MaxQueryLength: cfg.Wikipedia.MaxQueryLength,
		MaxDocChars:    cfg.Wikipedia.MaxDocChars,
		RatePerSecond:  cfg.Wikipedia.RatePerSecond,
		Timeout:        cfg.Wikipedia.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("wikipedia service: %w", err)
	}

	orch := agent.NewOrchestrator(model, wiki, service.NewIntentRouter(), agent.Options{
		Mode:                cfg.Agent.Mode,
		MaxIterations:       cfg.Agent.MaxIterations,
		HandleParsingErrors: cfg.Agent.HandleParsingErrors,
		Timeout:             cfg.Agent.Timeout,
	})
	return orch, wiki, nil
}

func (s *Server) setupRoutes() (http.Handler, error) {
	cfg := s.cfg

	// ─── Services ───────────────────────────────────────────────────────────────
	orch, wiki, err := BuildOrchestrator(cfg)
	if err != nil {
		return nil, err
	}
	auditLogger := security.NewAuditLogger(cfg.EnableAuditLogging)

	log.Info().
		Str("model", cfg.LLM.Model).
		Bool("llm_enabled", cfg.LLM.APIKey != "").
		Str("agent_mode", cfg.Agent.Mode).
		Int("max_iterations", cfg.Agent.MaxIterations).
		Str("wikipedia", cfg.WikipediaEndpoint()).
		Bool("audit_logging", cfg.EnableAuditLogging).
		Bool("metrics", cfg.EnableMetrics).
		Msg("service configuration")

	// ─── Handlers ────────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler(cfg.LLM.APIKey != "", wiki)
	chatH := handler.NewChatHandler(orch, auditLogger)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(cfg.Debug))
	r.Use(middleware.Logging)
	if cfg.EnableMetrics {
		r.Use(middleware.Metrics)
	}
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)
	r.Post("/chat", chatH.Chat)

	if cfg.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}

	return r, nil
}
