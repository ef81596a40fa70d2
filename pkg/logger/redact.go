package logger

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces the value of every attribute with a secret key.
const Redacted = "[REDACTED]"

// secretKeys are compared case-insensitively.
var secretKeys = []string{"secret", "secret_material", "secretmaterial"}

// ContextExtractor extracts a slog attribute from context.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// RedactingHandler masks secret attributes before they reach the wrapped
// handler and adds attributes pulled from the record's context. Attributes
// are checked at any group depth, whether they come from the record, from
// With or from an extractor.
type RedactingHandler struct {
	next       slog.Handler
	keys       map[string]struct{}
	extractors []ContextExtractor
}

// NewRedactingHandler masks the built-in secret keys plus keys. Nil
// extractors are dropped.
func NewRedactingHandler(next slog.Handler, keys []string, extractors ...ContextExtractor) *RedactingHandler {
	h := &RedactingHandler{
		next: next,
		keys: make(map[string]struct{}, len(secretKeys)+len(keys)),
	}
	for _, k := range secretKeys {
		h.keys[k] = struct{}{}
	}
	for _, k := range keys {
		h.keys[strings.ToLower(k)] = struct{}{}
	}
	for _, ex := range extractors {
		if ex != nil {
			h.extractors = append(h.extractors, ex)
		}
	}
	return h
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redact(a))
		return true
	})
	for _, ex := range h.extractors {
		if a, ok := ex(ctx); ok {
			out.AddAttrs(h.redact(a))
		}
	}
	return h.next.Handle(ctx, out)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.redact(a)
	}
	return h.with(h.next.WithAttrs(masked))
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return h.with(h.next.WithGroup(name))
}

func (h *RedactingHandler) with(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next, keys: h.keys, extractors: h.extractors}
}

func (h *RedactingHandler) redact(a slog.Attr) slog.Attr {
	if _, ok := h.keys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, Redacted)
	}
	a.Value = a.Value.Resolve()
	if a.Value.Kind() != slog.KindGroup {
		return a
	}
	group := a.Value.Group()
	masked := make([]slog.Attr, len(group))
	for i, ga := range group {
		masked[i] = h.redact(ga)
	}
	return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
}
