package beatsync

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReportRoundTripsSummary(t *testing.T) {
	report := Report{
		RunID:  "run-7",
		Master: "/captures/master.mp4",
		Results: []Result{
			{BeatID: "hook", Success: true, OutputPath: "/o/01-hook.mp4", ActualDuration: 20},
			{BeatID: "close", Success: false, Error: "audio file not found: /a/close.wav"},
		},
	}
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "beat-sync-report.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadReport(path)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if loaded.RunID != "run-7" || loaded.Succeeded() != 1 || loaded.Failed() != 1 {
		t.Fatalf("unexpected report %+v", loaded)
	}
	if outputs := loaded.Outputs(); len(outputs) != 1 || outputs[0] != "/o/01-hook.mp4" {
		t.Fatalf("unexpected outputs %v", outputs)
	}
}

func TestLoadReportRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReport(path); err == nil {
		t.Fatal("expected decode error")
	}
	if _, err := LoadReport(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected read error")
	}
}
