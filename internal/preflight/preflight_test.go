package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"demoreel/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
	if result := CheckDirectoryReadable("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFreeSpace("space", dir, 1); !result.Passed {
		t.Fatalf("expected at least one free byte, got %s", result.Detail)
	}
	if result := CheckFreeSpace("space", dir, 1<<62); result.Passed || !strings.Contains(result.Detail, "need") {
		t.Fatalf("expected shortfall, got %+v", result)
	}
	if result := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); result.Passed {
		t.Fatal("expected statfs failure for missing path")
	}
}

func TestResolveMaster(t *testing.T) {
	dir := t.TempDir()
	if _, err := ResolveMaster("", dir); err == nil {
		t.Fatal("expected error for empty capture dir")
	}
	capture := filepath.Join(dir, "capture.webm")
	if err := os.WriteFile(capture, []byte("webm"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ResolveMaster("", dir)
	if err != nil || got != capture {
		t.Fatalf("ResolveMaster = %q, %v", got, err)
	}
	if _, err := ResolveMaster(filepath.Join(dir, "missing.mp4"), dir); err == nil {
		t.Fatal("expected error for missing explicit master")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_ReadyConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.AudioDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.ReportDir = t.TempDir()
	cfg.Paths.CaptureDir = t.TempDir()
	if err := os.WriteFile(filepath.Join(cfg.Paths.CaptureDir, "master.mp4"), []byte("mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := RunAll(&cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Name == "Output free space" {
			continue
		}
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestRunAll_ReportsMissingMaster(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.CaptureDir = t.TempDir()
	cfg.Paths.MasterVideo = ""
	failed := Failed(RunAll(&cfg))
	found := false
	for _, r := range failed {
		if r.Name == "Master video" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected master video failure, got %+v", failed)
	}
}

func TestBlockingSkipsAdvisoryFailures(t *testing.T) {
	results := []Result{
		{Name: "Output free space", Advisory: true},
		{Name: "Master video"},
		{Name: "Audio directory", Passed: true},
	}
	blocking := Blocking(results)
	if len(blocking) != 1 || blocking[0].Name != "Master video" {
		t.Fatalf("unexpected blocking checks %+v", blocking)
	}
}

func TestSyncChecksUseSelectedMaster(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.AudioDir = t.TempDir()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.ReportDir = t.TempDir()
	cfg.Paths.CaptureDir = t.TempDir()
	cfg.Paths.MasterVideo = ""
	master := filepath.Join(t.TempDir(), "elsewhere.mp4")
	if err := os.WriteFile(master, []byte("mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, r := range Blocking(SyncChecks(&cfg, master, false)) {
		t.Errorf("check %q blocked: %s", r.Name, r.Detail)
	}

	if blocking := Blocking(SyncChecks(&cfg, filepath.Join(t.TempDir(), "empty.mp4"), false)); len(blocking) != 1 || blocking[0].Name != "Master video" {
		t.Fatalf("expected only the master check to block, got %+v", blocking)
	}
}

func TestSyncChecksMissingAudioDirWithPlaceholders(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.AudioDir = filepath.Join(t.TempDir(), "not-yet")
	cfg.Paths.OutputDir = t.TempDir()
	cfg.Paths.ReportDir = t.TempDir()
	master := filepath.Join(t.TempDir(), "master.mp4")
	if err := os.WriteFile(master, []byte("mp4"), 0o644); err != nil {
		t.Fatal(err)
	}

	if blocking := Blocking(SyncChecks(&cfg, master, false)); len(blocking) != 1 || blocking[0].Name != "Audio directory" {
		t.Fatalf("expected missing audio dir to block without placeholders, got %+v", blocking)
	}
	results := SyncChecks(&cfg, master, true)
	if blocking := Blocking(results); len(blocking) != 0 {
		t.Fatalf("expected no blocking checks with placeholders, got %+v", blocking)
	}
	if results[0].Passed || !results[0].Advisory {
		t.Fatalf("expected advisory audio failure, got %+v", results[0])
	}
}
