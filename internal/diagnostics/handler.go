package diagnostics

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Handler is a slog.Handler that records log records at or above a minimum
// level into a Ring and passes every record on to the next handler.
type Handler struct {
	next  slog.Handler
	ring  *Ring
	level slog.Leveler

	attrs  []slog.Attr
	groups []string
}

// NewHandler tees records of at least level into ring. A nil next drops
// records after recording them.
func NewHandler(next slog.Handler, ring *Ring, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelWarn
	}
	return &Handler{next: next, ring: ring, level: level}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if level >= h.level.Level() {
		return true
	}
	return h.next != nil && h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level.Level() {
		data := make(map[string]any, len(h.attrs)+r.NumAttrs())
		prefix := strings.Join(h.groups, ".")
		for _, a := range h.attrs {
			addAttr(data, "", a)
		}
		r.Attrs(func(a slog.Attr) bool {
			addAttr(data, prefix, a)
			return true
		})
		if len(data) == 0 {
			data = nil
		}
		h.ring.Add(Entry{
			Time:    r.Time,
			Type:    strings.ToLower(r.Level.String()),
			Message: r.Message,
			Data:    data,
		})
	}

	if h.next != nil && h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := strings.Join(h.groups, ".")
	clone := h.clone()
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return clone
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := h.clone()
	clone.groups = append(clone.groups, name)
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return clone
}

func (h *Handler) clone() *Handler {
	return &Handler{
		next:   h.next,
		ring:   h.ring,
		level:  h.level,
		attrs:  append([]slog.Attr(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

// addAttr flattens a into data, joining group keys with dots.
func addAttr(data map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			addAttr(data, key, ga)
		}
		return
	}
	data[key] = plainValue(a.Value)
}

// plainValue converts a slog value to something that encodes well as JSON
// and YAML.
func plainValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		switch x := v.Any().(type) {
		case error:
			return x.Error()
		case interface{ String() string }:
			return x.String()
		default:
			return x
		}
	default:
		return v.Any()
	}
}
