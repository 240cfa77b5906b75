package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"demoreel/internal/beatsync"
	"demoreel/internal/media/ffprobe"
	"demoreel/internal/quality"
	"demoreel/internal/validation"
)

func TestWriteJSONIsIndentedAndReadable(t *testing.T) {
	dir := t.TempDir()
	path := SyncPath(dir)
	report := beatsync.Report{RunID: "run-1", Results: []beatsync.Result{{BeatID: "hook", Success: true}}}
	if err := WriteJSON(path, report); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  \"run_id\": \"run-1\"") {
		t.Fatalf("expected indented json, got %s", data)
	}
	var decoded beatsync.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.RunID != "run-1" {
		t.Fatalf("unexpected run id %q", decoded.RunID)
	}
	if filepath.Base(ValidationPath(dir)) != ValidationFileName {
		t.Fatalf("unexpected validation path %s", ValidationPath(dir))
	}
}

func TestWriteJSONFailsForMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "report.json")
	if err := WriteJSON(path, map[string]int{"a": 1}); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := RenderTable([]string{"A", "B"}, [][]string{{"only"}}, Columns(2, 1))
	if !strings.Contains(out, "only") || !strings.Contains(out, "╭") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	if RenderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestStatusLineColor(t *testing.T) {
	plain := StatusLine("beats", KindOK, "8/8", false)
	if strings.Contains(plain, "\x1b[") || !strings.Contains(plain, "[OK] 8/8") {
		t.Fatalf("unexpected plain line %q", plain)
	}
	colored := StatusLine("beats", KindError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
	if ShouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestSyncSummary(t *testing.T) {
	report := beatsync.Report{Results: []beatsync.Result{
		{BeatID: "hook", Success: true, OutputPath: "/o/01-hook.mp4", PlannedDuration: 20, AudioDuration: 18.2, ActualDuration: 20, SizeBytes: 3 << 20},
		{BeatID: "close", Success: true, OutputPath: "/o/08-close.mp4", PlannedDuration: 25, AudioDuration: 27, ActualDuration: 27, Overrun: 2},
		{BeatID: "triage", Error: "audio file not found: /a/03.wav"},
	}}
	var buf bytes.Buffer
	SyncSummary(&buf, report, false)
	out := buf.String()
	for _, fragment := range []string{"3.0 MiB", "frozen", "+2.0s freeze", "audio file not found", "2/3 synchronized", "[ERROR]"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, out)
		}
	}
}

func TestValidationSummary(t *testing.T) {
	std := quality.DefaultStandards()
	media := ffprobe.MediaInfo{DurationSeconds: 3, Width: 1920, Height: 1080, BitrateKbps: 2500, Framerate: 30, Probed: true}
	beat := quality.ScoreBeat("hook", media, std)
	outcome := validation.Outcome{
		Beats:       []quality.BeatValidation{beat},
		Standards:   std,
		Synthesized: true,
		Video:       quality.Evaluate(media, []quality.BeatValidation{beat}, std),
		Counts:      validation.Counts{Fail: 1},
	}
	outcome.Recommendations = validation.Recommendations(outcome)

	var buf bytes.Buffer
	ValidationSummary(&buf, outcome, false)
	out := buf.String()
	for _, fragment := range []string{"rework", "aggregated from beats", "0 pass (0%), 0 warn (0%), 1 fail (100%)", "Recommendations", "1. "} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, out)
		}
	}
}
