package services_test

import (
	"context"
	"testing"

	"demoreel/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "sync")
	ctx = services.WithBeatID(ctx, "hook")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := services.StageFromContext(ctx); !ok || stage != "sync" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if beat, ok := services.BeatIDFromContext(ctx); !ok || beat != "hook" {
		t.Fatalf("unexpected beat id: %v %v", beat, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithStage(ctx, "")
	ctx = services.WithBeatID(ctx, "")
	ctx = services.WithRunID(ctx, "")
	if _, ok := services.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := services.BeatIDFromContext(ctx); ok {
		t.Fatal("expected no beat value")
	}
	if _, ok := services.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
