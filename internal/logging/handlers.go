package logging

import (
	"context"
	"log/slog"
)

// FieldSessionID is the key stamped on every record of one CLI invocation.
const FieldSessionID = "session_id"

// runHandler forwards each record to every sink that accepts its level and
// stamps the invocation-wide attributes (the session id) on the way through.
// Sinks are the console and, when a log directory is configured, the JSON
// log file.
type runHandler struct {
	sinks []slog.Handler
	stamp []slog.Attr
}

func newRunHandler(sinks []slog.Handler, stamp ...slog.Attr) slog.Handler {
	var live []slog.Handler
	for _, sink := range sinks {
		if sink != nil {
			live = append(live, sink)
		}
	}
	if len(live) == 0 {
		return NoopHandler{}
	}
	if len(live) == 1 && len(stamp) == 0 {
		return live[0]
	}
	return &runHandler{sinks: live, stamp: stamp}
}

func (h *runHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *runHandler) Handle(ctx context.Context, record slog.Record) error {
	if len(h.stamp) > 0 {
		record = record.Clone()
		record.AddAttrs(h.stamp...)
	}
	var firstErr error
	for _, sink := range h.sinks {
		if !sink.Enabled(ctx, record.Level) {
			continue
		}
		// Sinks may append attrs, so each gets its own copy.
		if err := sink.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(sink slog.Handler) slog.Handler { return sink.WithAttrs(attrs) })
}

func (h *runHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(sink slog.Handler) slog.Handler { return sink.WithGroup(name) })
}

func (h *runHandler) derive(apply func(slog.Handler) slog.Handler) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = apply(sink)
	}
	return &runHandler{sinks: sinks, stamp: h.stamp}
}
