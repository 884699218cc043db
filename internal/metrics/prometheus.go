package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askagent_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askagent_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Agent metrics
	agentRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askagent_agent_runs_total",
			Help: "Total number of agent runs by outcome",
		},
		[]string{"mode", "outcome"},
	)

	agentIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "askagent_agent_iterations",
			Help:    "Agent loop iterations per run",
			Buckets: []float64{1, 2, 3, 4, 5, 8, 13},
		},
	)

	agentRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askagent_agent_run_duration_seconds",
			Help:    "Agent run duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	fallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askagent_fallbacks_total",
			Help: "Total number of direct fallback model calls",
		},
		[]string{"status"},
	)

	// Tool metrics
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askagent_tool_calls_total",
			Help: "Total number of tool calls",
		},
		[]string{"tool", "status"},
	)

	toolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "askagent_tool_duration_seconds",
			Help:    "Tool execution duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool"},
	)

	// LLM metrics
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askagent_llm_calls_total",
			Help: "Total number of LLM calls",
		},
		[]string{"model", "status"},
	)

	llmTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "askagent_llm_tokens_total",
			Help: "Total number of LLM tokens",
		},
		[]string{"model", "type"},
	)
)

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAgentRun records the outcome of one orchestrated question
func RecordAgentRun(mode, outcome string, iterations int, duration time.Duration) {
	agentRunsTotal.WithLabelValues(mode, outcome).Inc()
	agentRunDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if iterations > 0 {
		agentIterations.Observe(float64(iterations))
	}
}

// RecordFallback records a direct fallback invocation
func RecordFallback(ok bool) {
	fallbacksTotal.WithLabelValues(statusLabel(ok)).Inc()
}

// RecordToolCall records tool execution metrics
func RecordToolCall(tool string, ok bool, duration time.Duration) {
	toolCallsTotal.WithLabelValues(tool, statusLabel(ok)).Inc()
	toolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// RecordLLMCall records LLM call metrics
func RecordLLMCall(model string, ok bool, inputTokens, outputTokens int64) {
	llmCallsTotal.WithLabelValues(model, statusLabel(ok)).Inc()
	if inputTokens > 0 {
		llmTokensTotal.WithLabelValues(model, "input").Add(float64(inputTokens))
	}
	if outputTokens > 0 {
		llmTokensTotal.WithLabelValues(model, "output").Add(float64(outputTokens))
	}
}

// Handler returns the Prometheus metrics handler
func Handler() http.Handler {
	return promhttp.Handler()
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
