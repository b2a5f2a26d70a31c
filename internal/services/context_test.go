package services_test

import (
	"context"
	"testing"

	"subtitler/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithMediaPath(ctx, "/media/talk.mp4")
	ctx = services.WithItemIndex(ctx, 2)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if path, ok := services.MediaPathFromContext(ctx); !ok || path != "/media/talk.mp4" {
		t.Fatalf("unexpected media path: %v %v", path, ok)
	}
	if idx, ok := services.ItemIndexFromContext(ctx); !ok || idx != 2 {
		t.Fatalf("unexpected item index: %v %v", idx, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "")
	ctx = services.WithMediaPath(ctx, "")
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
	if _, ok := services.MediaPathFromContext(ctx); ok {
		t.Fatal("expected no media path value")
	}
	if _, ok := services.ItemIndexFromContext(ctx); ok {
		t.Fatal("expected no item index value")
	}
}
