package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"demoreel/internal/beatsync"
	"demoreel/internal/config"
	"demoreel/internal/logging"
	"demoreel/internal/report"
	"demoreel/internal/testsupport"
	"demoreel/internal/validation"
)

const ffprobeStub = `#!/bin/sh
for last; do :; done
case "$last" in
  -version) echo "ffprobe version test"; exit 0 ;;
  *.wav) echo '{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le"}],"format":{"duration":"10.000"}}' ;;
  *) echo '{"streams":[{"codec_type":"video","codec_name":"h264","width":1920,"height":1080,"r_frame_rate":"30/1"},{"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"240.000","bit_rate":"2500000","size":"1000"}}' ;;
esac
`

const ffmpegStub = `#!/bin/sh
for last; do :; done
case "$last" in
  -version) echo "ffmpeg version test"; exit 0 ;;
esac
printf 'stub' > "$last"
`

const shortBeatFFprobeStub = `#!/bin/sh
for last; do :; done
case "$last" in
  -version) echo "ffprobe version test"; exit 0 ;;
  *.wav) echo '{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le"}],"format":{"duration":"3.000"}}' ;;
  *) echo '{"streams":[{"codec_type":"video","codec_name":"h264","width":640,"height":480,"r_frame_rate":"30/1"},{"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"3.000","bit_rate":"2500000","size":"1000"}}' ;;
esac
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DEMOREEL_LOG_LEVEL", "error")

	opts = append([]testsupport.ConfigOption{
		testsupport.WithStubScripts(map[string]string{"ffprobe": ffprobeStub, "ffmpeg": ffmpegStub}),
		testsupport.WithMasterVideo("master.mp4"),
	}, opts...)
	cfg := testsupport.NewConfig(t, opts...)

	configPath := filepath.Join(testsupport.BaseDir(cfg), "demoreel.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath}
}

func (e *cliTestEnv) writeNarration(t *testing.T) {
	t.Helper()
	for _, name := range e.cfg.AudioNames {
		testsupport.WriteSilentWAV(t, filepath.Join(e.cfg.Paths.AudioDir, name), 1)
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
capture_dir = %q
audio_dir = %q
output_dir = %q
report_dir = %q
log_dir = %q
state_dir = %q
master_video = %q

[sync]
retry_attempts = 0
retry_delay_seconds = 0

[history]
enabled = %t
path = %q
`,
		cfg.Paths.CaptureDir,
		cfg.Paths.AudioDir,
		cfg.Paths.OutputDir,
		cfg.Paths.ReportDir,
		cfg.Paths.LogDir,
		cfg.Paths.StateDir,
		cfg.Paths.MasterVideo,
		cfg.History.Enabled,
		cfg.History.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q in output:\n%s", needle, haystack)
	}
}

func TestSyncWritesReportAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeNarration(t)

	out, _, err := runCLI(t, []string{"sync"}, env.configPath)
	if err != nil {
		t.Fatalf("sync: %v\n%s", err, out)
	}
	requireContains(t, out, "8/8 synchronized")

	rep, err := beatsync.LoadReport(report.SyncPath(env.cfg.Paths.ReportDir))
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if !rep.OK() || len(rep.Results) != 8 {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.MasterDuration != 240 {
		t.Fatalf("expected master duration 240, got %v", rep.MasterDuration)
	}
	for _, res := range rep.Results {
		if _, err := os.Stat(res.OutputPath); err != nil {
			t.Fatalf("expected output for %s: %v", res.BeatID, err)
		}
		if res.ActualDuration != res.PlannedDuration {
			t.Fatalf("beat %s: 10s narration should keep the planned window, got %v", res.BeatID, res.ActualDuration)
		}
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, rep.RunID)
	requireContains(t, out, "succeeded")

	out, _, err = runCLI(t, []string{"history", "--run", rep.RunID, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history --run: %v", err)
	}
	var detail runDetail
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("decode history detail: %v\n%s", err, out)
	}
	if len(detail.Beats) != 8 || detail.Beats[0].BeatID != "hook" {
		t.Fatalf("unexpected beats %+v", detail.Beats)
	}
}

func TestSyncFailsWhenNarrationMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"sync", "--json"}, env.configPath)
	if err == nil {
		t.Fatal("expected sync to fail without narration")
	}
	requireContains(t, err.Error(), "8 of 8 beats failed")

	var rep beatsync.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	if rep.Failed() != 8 || !strings.Contains(rep.Results[0].Error, "audio file not found") {
		t.Fatalf("unexpected report %+v", rep.Results[0])
	}
	if _, statErr := os.Stat(report.SyncPath(env.cfg.Paths.ReportDir)); statErr != nil {
		t.Fatalf("expected report file even on failure: %v", statErr)
	}
}

func TestSyncWithPlaceholders(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())

	out, _, err := runCLI(t, []string{"sync", "--placeholders", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("sync --placeholders: %v\n%s", err, out)
	}
	var rep beatsync.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, res := range rep.Results {
		if !res.Placeholder || !res.Success {
			t.Fatalf("expected placeholder success, got %+v", res)
		}
	}

	if _, _, err := runCLI(t, []string{"history"}, env.configPath); err == nil {
		t.Fatal("expected history command to fail when history is disabled")
	}
}

func TestSyncRejectsMissingMaster(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"sync", filepath.Join(t.TempDir(), "nope.mp4")}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "master") {
		t.Fatalf("expected master error, got %v", err)
	}
}

func TestStoryboardCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	storyboard := filepath.Join(t.TempDir(), "storyboard.md")
	content := `# Demo

## Scene 1: Opening Hook (00:00-00:20)
- **Voice-Over:** "Every second counts."
- **Visual Actions:** Show the live map

## Scene 2: Incident Triage (00:20-00:55)
- **Voice-Over:** Calls are ranked in real time.

## Scene 3 broken header
`
	if err := os.WriteFile(storyboard, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"storyboard", storyboard, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("storyboard: %v", err)
	}
	var view storyboardView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(view.Beats) != 2 || view.Beats[1].Start != 20 || view.Beats[1].Duration != 35 {
		t.Fatalf("unexpected beats %+v", view.Beats)
	}
	if len(view.Diagnostics) == 0 {
		t.Fatal("expected a diagnostic for the malformed scene header")
	}

	out, _, err = runCLI(t, []string{"storyboard", storyboard}, env.configPath)
	if err != nil {
		t.Fatalf("storyboard table: %v", err)
	}
	requireContains(t, out, "scene-2")
	requireContains(t, out, "00:55")
}

func TestProbeCommandReadsStubbedFFprobe(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"probe", env.cfg.Paths.MasterVideo, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	var infos []struct {
		DurationSeconds float64 `json:"duration_seconds"`
		Width           int     `json:"width"`
		BitrateKbps     float64 `json:"bitrate_kbps"`
	}
	if err := json.Unmarshal([]byte(out), &infos); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(infos) != 1 || infos[0].DurationSeconds != 240 || infos[0].Width != 1920 || infos[0].BitrateKbps != 2500 {
		t.Fatalf("unexpected probe output %+v", infos)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "ffmpeg version test")
	requireContains(t, out, "Master video")
	requireContains(t, out, "No runs recorded")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Beats: 8")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite without --overwrite")
	}
	if _, _, err := runCLI(t, []string{"config", "validate"}, target); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
}

func TestLogsCommandFiltersByLevel(t *testing.T) {
	env := setupCLITestEnv(t)
	logPath := filepath.Join(env.cfg.Paths.LogDir, logging.FileName)
	content := "2026-03-01 10:00:00 INFO  sync: sync started beats=8\n" +
		"2026-03-01 10:00:01 ERROR sync [close]: beat sync failed\n"
	if err := os.WriteFile(logPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"logs", "--level", "error"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "beat sync failed")
	if strings.Contains(out, "sync started") {
		t.Fatalf("expected info line to be filtered, got:\n%s", out)
	}
}

func TestSyncAcceptsMasterArgumentWithEmptyCaptureDir(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())
	env.writeNarration(t)
	if err := os.Remove(env.cfg.Paths.MasterVideo); err != nil {
		t.Fatal(err)
	}
	env.cfg.Paths.MasterVideo = ""
	writeTestConfig(t, env.configPath, env.cfg)

	master := filepath.Join(t.TempDir(), "elsewhere.mp4")
	testsupport.WriteFile(t, master, 1024)

	out, _, err := runCLI(t, []string{"sync", master, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("sync with master argument: %v\n%s", err, out)
	}
	var rep beatsync.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if rep.Master != master || !rep.OK() {
		t.Fatalf("expected successful sync from %s, got master %q with %d failures", master, rep.Master, rep.Failed())
	}
}

func TestSyncPlaceholdersCreateMissingAudioDir(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistoryDisabled())
	if err := os.RemoveAll(env.cfg.Paths.AudioDir); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, []string{"sync"}, env.configPath); err == nil || !strings.Contains(err.Error(), "Audio directory") {
		t.Fatalf("expected missing audio directory to stop sync, got %v", err)
	}

	out, _, err := runCLI(t, []string{"sync", "--placeholders", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("sync --placeholders: %v\n%s", err, out)
	}
	var rep beatsync.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if !rep.OK() || !rep.Results[0].Placeholder {
		t.Fatalf("expected placeholder narration for every beat, got %+v", rep.Results[0])
	}
	if _, err := os.Stat(rep.Results[0].AudioPath); err != nil {
		t.Fatalf("expected placeholder audio on disk: %v", err)
	}
}

func TestValidateAfterSyncAndAssemble(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeNarration(t)

	if out, _, err := runCLI(t, []string{"sync", "--assemble"}, env.configPath); err != nil {
		t.Fatalf("sync --assemble: %v\n%s", err, out)
	}
	if _, err := os.Stat(finalVideoPath(env.cfg)); err != nil {
		t.Fatalf("expected assembled video: %v", err)
	}

	out, _, err := runCLI(t, []string{"validate"}, env.configPath)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	requireContains(t, out, "Report written to")

	data, err := os.ReadFile(report.ValidationPath(env.cfg.Paths.ReportDir))
	if err != nil {
		t.Fatalf("read validation report: %v", err)
	}
	var outcome validation.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		t.Fatalf("decode validation report: %v", err)
	}
	if len(outcome.Beats) != 8 || outcome.Synthesized || !outcome.Video.MeetsStandards {
		t.Fatalf("unexpected outcome: beats=%d synthesized=%v video=%+v", len(outcome.Beats), outcome.Synthesized, outcome.Video)
	}

	out, _, err = runCLI(t, []string{"validate", "--sync-report", report.SyncPath(env.cfg.Paths.ReportDir), "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("validate --sync-report: %v\n%s", err, out)
	}
	outcome = validation.Outcome{}
	if err := json.Unmarshal([]byte(out), &outcome); err != nil {
		t.Fatalf("decode json output: %v\n%s", err, out)
	}
	if len(outcome.Beats) != 8 || outcome.Beats[0].BeatID != "hook" {
		t.Fatalf("expected beats from the sync report, got %+v", outcome.Beats)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "validate")
}

func TestValidateFailsWhenBeatsMissStandards(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubScripts(map[string]string{"ffprobe": shortBeatFFprobeStub}))
	for i, id := range []string{"hook", "close"} {
		testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.OutputDir, fmt.Sprintf("%02d-%s.mp4", i+1, id)), 512)
	}

	_, _, err := runCLI(t, []string{"validate"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "quality standards not met") {
		t.Fatalf("expected standards failure, got %v", err)
	}

	data, readErr := os.ReadFile(report.ValidationPath(env.cfg.Paths.ReportDir))
	if readErr != nil {
		t.Fatalf("expected report even on failure: %v", readErr)
	}
	var outcome validation.Outcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		t.Fatalf("decode validation report: %v", err)
	}
	if outcome.Counts.Fail != 2 || !outcome.Synthesized || outcome.OK() {
		t.Fatalf("expected two failing beats and a synthesized video, got counts %+v synthesized=%v", outcome.Counts, outcome.Synthesized)
	}
}
