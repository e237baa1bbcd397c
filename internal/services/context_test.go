package services_test

import (
	"context"
	"testing"

	"albumconv/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithBatchID(ctx, "batch-123")
	ctx = services.WithStage(ctx, "transcode")
	ctx = services.WithSource(ctx, "/music/01.flac")

	if id, ok := services.BatchIDFromContext(ctx); !ok || id != "batch-123" {
		t.Fatalf("unexpected batch id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "transcode" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if src, ok := services.SourceFromContext(ctx); !ok || src != "/music/01.flac" {
		t.Fatalf("unexpected source: %v %v", src, ok)
	}
}

func TestStageBlankPreservesContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	ctx = services.WithBatchID(ctx, "")
	if _, ok := services.BatchIDFromContext(ctx); ok {
		t.Fatal("expected no batch id value")
	}
}
