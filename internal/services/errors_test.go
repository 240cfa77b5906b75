package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"demoreel/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "sync", "transcode", "ffmpeg exited", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"sync", "transcode", "ffmpeg exited", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err.Error())
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"missing", services.Wrap(services.ErrMissingInput, "sync", "audio", "not found", nil), services.KindMissingInput},
		{"tool", services.Wrap(services.ErrExternalTool, "sync", "ffmpeg", "exit 1", nil), services.KindExternalTool},
		{"malformed", services.Wrap(services.ErrMalformedOutput, "sync", "verify", "empty output", nil), services.KindMalformedOutput},
		{"deadline", fmt.Errorf("ffmpeg: %w", context.DeadlineExceeded), services.KindTimeout},
		{"timeout marker", services.Wrap(services.ErrTimeout, "sync", "", "", nil), services.KindTimeout},
		{"config", services.Wrap(services.ErrConfiguration, "sync", "", "", nil), services.KindConfiguration},
		{"plain", errors.New("other"), services.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Classify(tt.err); got != tt.want {
				t.Fatalf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}
