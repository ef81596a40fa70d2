package link

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/otpmirror/pkg/httpserver"
	"github.com/dmitrymomot/otpmirror/pkg/logger"
)

// MaxMessageSize caps the request body accepted by Handler.
const MaxMessageSize = 1 << 20

// NewHandler serves the inbound side of HTTPLink:
//
//	POST /v1/messages  decode and pass to r; 204 on success or for messages
//	                   of an unknown shape, 400 for malformed bodies
//	GET  /healthz      200 while every check passes
func NewHandler(r Receiver, log *slog.Logger, checks ...func(ctx context.Context) error) http.Handler {
	log = logger.OrNop(log).With(logger.Component("link"))

	router := chi.NewRouter()
	router.Use(requestIDMiddleware)
	router.Get(HealthPath, httpserver.HealthCheckHandler(log, checks...))
	router.Post(MessagesPath, func(w http.ResponseWriter, req *http.Request) {
		ctx := req.Context()

		data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, MaxMessageSize))
		if err != nil {
			log.WarnContext(ctx, "failed to read message", logger.Error(err))
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}

		m, err := Decode(data)
		switch {
		case errors.Is(err, ErrUnrecognizedMessage):
			log.DebugContext(ctx, "ignoring unrecognized message")
			w.WriteHeader(http.StatusNoContent)
			return
		case err != nil:
			log.WarnContext(ctx, "malformed message", logger.Error(err))
			http.Error(w, "malformed message", http.StatusBadRequest)
			return
		}

		if err := r.HandleMessage(ctx, m); err != nil {
			log.ErrorContext(ctx, "failed to handle message", logger.Error(err))
			http.Error(w, "failed to handle message", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return router
}
