package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"demoreel/internal/fileutil"
)

const (
	SyncFileName       = "beat-sync-report.json"
	ValidationFileName = "validation-report.json"
)

// SyncPath returns the sync report location inside dir.
func SyncPath(dir string) string {
	return filepath.Join(dir, SyncFileName)
}

// ValidationPath returns the validation report location inside dir.
func ValidationPath(dir string) string {
	return filepath.Join(dir, ValidationFileName)
}

// WriteJSON encodes v as indented JSON and replaces path atomically.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
