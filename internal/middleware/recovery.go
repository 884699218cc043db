package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/askagent/askagent/internal/models"
	"github.com/rs/zerolog/log"
)

// PanicMessagePrefix starts the message returned for a recovered panic
const PanicMessagePrefix = "There was an error processing your request: "

// Recovery turns a handler panic into a 500 {success:false} response. The
// stack is logged when withStack is set.
func Recovery(withStack bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					evt := log.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Str("request_id", GetRequestID(r.Context()))
					if withStack {
						evt = evt.Str("stack", string(debug.Stack()))
					}
					evt.Msg("panic recovered")
					models.WriteFailure(w, http.StatusInternalServerError, PanicMessagePrefix+fmt.Sprint(rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
