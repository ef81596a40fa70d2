package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/otpmirror/pkg/logger"
)

// HealthCheckHandler answers liveness and readiness probes. Without checks it
// always replies 200 "ALIVE". With checks it runs each one against the
// request context and replies 200 "READY", or 503 "NOT_READY" on the first
// failure.
func HealthCheckHandler(log *slog.Logger, checks ...func(ctx context.Context) error) http.HandlerFunc {
	log = logger.OrNop(log)

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.WarnContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
