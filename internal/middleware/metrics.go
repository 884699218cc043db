package middleware

import (
	"net/http"
	"time"

	"github.com/askagent/askagent/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// Metrics records request counts and latency per route pattern, so path
// parameters never become label values.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		metrics.RecordHTTPRequest(r.Method, endpoint, rec.status, time.Since(start))
	})
}
