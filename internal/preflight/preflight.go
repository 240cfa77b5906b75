package preflight

import (
	"demoreel/internal/config"
)

// MinFreeBytes is the free space required in the output directory.
const MinFreeBytes = 1 << 30

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`

	// Advisory checks are reported but never stop a run.
	Advisory bool `json:"advisory,omitempty"`
}

// RunAll executes the filesystem checks a sync run depends on.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryReadable("Audio directory", cfg.Paths.AudioDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Report directory", cfg.Paths.ReportDir),
		CheckFreeSpace("Output free space", cfg.Paths.OutputDir, MinFreeBytes),
		CheckMasterVideo(cfg),
	}
	return results
}

// SyncChecks runs the checks for a sync against an already resolved master.
// With placeholders enabled a missing audio directory is advisory, since
// placeholder narration creates it.
func SyncChecks(cfg *config.Config, master string, placeholders bool) []Result {
	if cfg == nil {
		return nil
	}
	audio := CheckDirectoryReadable("Audio directory", cfg.Paths.AudioDir)
	audio.Advisory = placeholders
	return []Result{
		audio,
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Report directory", cfg.Paths.ReportDir),
		CheckFreeSpace("Output free space", cfg.Paths.OutputDir, MinFreeBytes),
		CheckMasterPath(master, "selected"),
	}
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Blocking returns the failed checks that must stop a run.
func Blocking(results []Result) []Result {
	var blocking []Result
	for _, r := range Failed(results) {
		if !r.Advisory {
			blocking = append(blocking, r)
		}
	}
	return blocking
}
