package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestSegmentArgsWithoutFreeze(t *testing.T) {
	args := SegmentArgs(SegmentRequest{
		Source:   "/captures/master.webm",
		Audio:    "/audio/01-hook.wav",
		Output:   "/out/hook.mp4",
		Start:    20,
		Duration: 30.25,
		Encoding: DefaultEncoding(),
	})
	joined := strings.Join(args, " ")
	for _, fragment := range []string{
		"-ss 20.000 -t 30.250 -i /captures/master.webm -i /audio/01-hook.wav",
		"-map 0:v:0 -map 1:a:0",
		"-c:v libx264 -profile:v high -preset medium -crf 20 -pix_fmt yuv420p",
		"-c:a aac -b:a 192k -t 30.250 -movflags +faststart /out/hook.mp4",
	} {
		if !strings.Contains(joined, fragment) {
			t.Fatalf("expected %q in %q", fragment, joined)
		}
	}
	if slices.Contains(args, "-vf") {
		t.Fatalf("expected no filter without freeze, got %v", args)
	}
	if args[len(args)-1] != "/out/hook.mp4" {
		t.Fatalf("expected output last, got %v", args)
	}
}

func TestSegmentArgsFreezeAddsTpad(t *testing.T) {
	args := SegmentArgs(SegmentRequest{
		Source:        "m.mp4",
		Audio:         "a.wav",
		Output:        "o.mp4",
		Duration:      10,
		FreezeSeconds: 2.5,
		Encoding:      DefaultEncoding(),
	})
	idx := slices.Index(args, "-vf")
	if idx < 0 || args[idx+1] != "tpad=stop_mode=clone:stop_duration=2.500" {
		t.Fatalf("expected tpad filter, got %v", args)
	}
}

func TestSegmentArgsKeepsHostilePathsIntact(t *testing.T) {
	hostile := "/tmp/beat $(rm -rf ~) 'quoted'.wav"
	args := SegmentArgs(SegmentRequest{Source: "m.mp4", Audio: hostile, Output: "o.mp4", Duration: 1, Encoding: DefaultEncoding()})
	if !slices.Contains(args, hostile) {
		t.Fatalf("expected path preserved as single argument, got %v", args)
	}
}

func TestTranscoderRunUsesInjectedRunner(t *testing.T) {
	tr := NewTranscoder("  ")
	var gotName string
	var gotArgs []string
	tr.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})
	if err := tr.Run(context.Background(), []string{"-version"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotName != "ffmpeg" || len(gotArgs) != 1 || gotArgs[0] != "-version" {
		t.Fatalf("unexpected invocation %s %v", gotName, gotArgs)
	}
}

func TestTranscoderRunPropagatesError(t *testing.T) {
	tr := NewTranscoder("/opt/ffmpeg")
	sentinel := errors.New("exit status 1")
	tr.WithCommandRunner(func(context.Context, string, ...string) error { return sentinel })
	if err := tr.Run(context.Background(), nil); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestConcatListEscapesQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := WriteConcatList(path, []string{"/out/a.mp4", "/out/it's.mp4"}); err != nil {
		t.Fatalf("WriteConcatList: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	want := "file '/out/a.mp4'\nfile '/out/it'\\''s.mp4'\n"
	if string(data) != want {
		t.Fatalf("unexpected list %q", string(data))
	}
	if err := WriteConcatList(path, nil); err == nil {
		t.Fatal("expected error for empty list")
	}
}

func TestConcatArgs(t *testing.T) {
	args := ConcatArgs("/tmp/list.txt", "/out/final.mp4")
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-f concat -safe 0 -i /tmp/list.txt -c copy") {
		t.Fatalf("unexpected concat args %v", args)
	}
}

func TestTailTruncates(t *testing.T) {
	if got := tail("abcdef", 3); got != "...def" {
		t.Fatalf("tail = %q", got)
	}
}
