package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Mask replaces redacted values.
const Mask = "******"

// Redactor holds secret values that must never reach a log sink.
type Redactor struct {
	mu     sync.RWMutex
	values []string
}

// NewRedactor returns an empty Redactor.
func NewRedactor() *Redactor {
	return &Redactor{}
}

// Add registers values to be masked. Empty values are ignored.
func (r *Redactor) Add(values ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range values {
		if v != "" {
			r.values = append(r.values, v)
		}
	}
}

// Redact masks every registered value in s.
func (r *Redactor) Redact(s string) string {
	if r == nil {
		return s
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.values {
		s = strings.ReplaceAll(s, v, Mask)
	}
	return s
}

func (r *Redactor) empty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values) == 0
}

// redactHandler rewrites messages and attribute values before passing
// records on. Attributes bound with WithAttrs are masked at bind time.
type redactHandler struct {
	next slog.Handler
	r    *Redactor
}

func withRedaction(next slog.Handler, r *Redactor) slog.Handler {
	if r == nil {
		return next
	}
	return &redactHandler{next: next, r: r}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, rec slog.Record) error {
	if h.r.empty() {
		return h.next.Handle(ctx, rec)
	}
	out := slog.NewRecord(rec.Time, rec.Level, h.r.Redact(rec.Message), rec.PC)
	rec.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		redacted = append(redacted, h.redactAttr(a))
	}
	return &redactHandler{next: h.next.WithAttrs(redacted), r: h.r}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{next: h.next.WithGroup(name), r: h.r}
}

func (h *redactHandler) redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindString:
		a.Value = slog.StringValue(h.r.Redact(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]slog.Attr, 0, len(group))
		for _, ga := range group {
			redacted = append(redacted, h.redactAttr(ga))
		}
		a.Value = slog.GroupValue(redacted...)
	case slog.KindAny:
		switch v := a.Value.Any().(type) {
		case nil:
		case error:
			a.Value = slog.StringValue(h.r.Redact(v.Error()))
		default:
			text := fmt.Sprint(v)
			if masked := h.r.Redact(text); masked != text {
				a.Value = slog.StringValue(masked)
			}
		}
	}
	return a
}
