package slogx

import (
	"context"
	"log/slog"
)

type attrsCtxKey struct{}

// ContextWithAttrs returns a context whose log records carry attrs
// in addition to any attrs already stored in ctx.
func ContextWithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	prev := attrsFromContext(ctx)

	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)

	return context.WithValue(ctx, attrsCtxKey{}, merged)
}

func attrsFromContext(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsCtxKey{}).([]slog.Attr)
	return attrs
}

// ContextHandler adds attrs stored with ContextWithAttrs to every record.
type ContextHandler struct {
	slog.Handler
}

func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{Handler: h}
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := attrsFromContext(ctx); len(attrs) > 0 {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(name)}
}
