package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	mediaPathKey contextKey = "media_path"
	itemIndexKey contextKey = "item_index"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext returns the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithMediaPath annotates context with the media item being processed.
func WithMediaPath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, mediaPathKey, path)
}

// MediaPathFromContext returns the media path if present.
func MediaPathFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(mediaPathKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithItemIndex annotates context with the 1-based position of the media item
// within its batch.
func WithItemIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, itemIndexKey, index)
}

// ItemIndexFromContext extracts the batch position if present.
func ItemIndexFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(itemIndexKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
