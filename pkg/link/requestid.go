package link

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/dmitrymomot/otpmirror/pkg/logger"
)

// RequestIDHeader correlates a message across both nodes' logs.
const RequestIDHeader = "X-Request-ID"

const maxRequestIDLength = 128

var requestIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

type requestIDKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds request_id to log records whose context has one.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := RequestIDFromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}

// requestIDMiddleware reuses a valid inbound id or generates one, stores it
// in the request context and echoes it in the response.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}

func validRequestID(id string) bool {
	return id != "" && len(id) <= maxRequestIDLength && requestIDRe.MatchString(id)
}

// outboundRequestID returns the id carried by ctx or a fresh one.
func outboundRequestID(ctx context.Context) string {
	if id := RequestIDFromContext(ctx); validRequestID(id) {
		return id
	}
	return uuid.NewString()
}
