package logging

import (
	"context"
	"log/slog"

	"subtitler/internal/services"
)

// Standardized structured logging keys.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldMedia     = "media"
	FieldItemIndex = "item"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	FieldImpact    = "impact"
	FieldError     = "error"
	FieldErrorKind = "error_kind"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if idx, ok := services.ItemIndexFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldItemIndex, idx))
	}
	if path, ok := services.MediaPathFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldMedia, path))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
