package preflight

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"demoreel/internal/config"
	"demoreel/internal/fileutil"
)

// CaptureExtensions are the master recording formats picked up from capture_dir.
var CaptureExtensions = []string{".mp4", ".webm"}

// ResolveMaster returns the explicit master path when given, otherwise the
// most recently modified capture in captureDir.
func ResolveMaster(explicit, captureDir string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		if !fileutil.Exists(explicit) {
			return "", fmt.Errorf("master video not found: %s", explicit)
		}
		return explicit, nil
	}
	if strings.TrimSpace(captureDir) == "" {
		return "", fmt.Errorf("no master video configured and capture_dir is empty")
	}
	return fileutil.LatestMatching(captureDir, CaptureExtensions...)
}

// CheckMasterVideo reports which master recording a sync would use.
func CheckMasterVideo(cfg *config.Config) Result {
	const name = "Master video"
	if cfg == nil {
		return Result{Name: name, Detail: "Unknown"}
	}
	path, err := ResolveMaster(cfg.Paths.MasterVideo, cfg.Paths.CaptureDir)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	source := "configured"
	if strings.TrimSpace(cfg.Paths.MasterVideo) == "" {
		source = "latest in " + filepath.Base(cfg.Paths.CaptureDir)
	}
	return CheckMasterPath(path, source)
}

// CheckMasterPath verifies a chosen master recording is a non-empty file.
func CheckMasterPath(path, source string) Result {
	const name = "Master video"
	size, err := fileutil.NonEmptyFile(path)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s, %s)", path, humanize.IBytes(uint64(size)), source)} //nolint:gosec
}
