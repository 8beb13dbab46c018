package log

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/ErlanBelekov/auth-service/internal/reqctx"
)

const redacted = "[REDACTED]"

// sensitiveKeys never reach the output with their value intact.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"password_hash": {},
	"token":         {},
	"authorization": {},
	"jwt_secret":    {},
}

// ContextHandler wraps an slog.Handler, adds request_id and user_id from the
// record's context and redacts credential attributes. Groups opened with
// WithGroup are applied here rather than on inner so the context attributes
// always stay at the top level.
type ContextHandler struct {
	inner slog.Handler
	// groups[i] holds the attrs added after the i-th WithGroup call
	groups []openGroup
}

type openGroup struct {
	name  string
	attrs []slog.Attr
}

func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, redact(a))
		return true
	})

	for i := len(h.groups) - 1; i >= 0; i-- {
		g := h.groups[i]
		members := append(slices.Clone(g.attrs), attrs...)
		attrs = []slog.Attr{{Key: g.name, Value: slog.GroupValue(members...)}}
	}

	if id := reqctx.RequestID(ctx); id != "" {
		attrs = append(attrs, slog.String("request_id", id))
	}
	if u := reqctx.User(ctx); u != nil {
		attrs = append(attrs, slog.String("user_id", u.ID))
	}

	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	out.AddAttrs(attrs...)
	return h.inner.Handle(ctx, out)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redact(a)
	}
	if len(h.groups) == 0 {
		return &ContextHandler{inner: h.inner.WithAttrs(clean)}
	}

	groups := slices.Clone(h.groups)
	last := &groups[len(groups)-1]
	last.attrs = append(slices.Clone(last.attrs), clean...)
	return &ContextHandler{inner: h.inner, groups: groups}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append(slices.Clone(h.groups), openGroup{name: name})
	return &ContextHandler{inner: h.inner, groups: groups}
}

func redact(a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]any, len(group))
		for i, ga := range group {
			clean[i] = redact(ga)
		}
		return slog.Group(a.Key, clean...)
	}
	return a
}
