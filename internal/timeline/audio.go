package timeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"demoreel/internal/textutil"
)

// AudioResolver maps beats to narration files. An explicit per-beat file
// wins, then the id lookup table, then NN-<slug(title)>.wav.
type AudioResolver struct {
	Dir   string
	Names map[string]string
}

// Resolve returns the expected narration path for b.
func (r AudioResolver) Resolve(b Beat) string {
	name := strings.TrimSpace(b.Audio)
	if name == "" {
		name = strings.TrimSpace(r.Names[b.ID])
	}
	if name == "" {
		name = FallbackAudioName(b)
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(r.Dir, name)
}

// FallbackAudioName derives a file name for beats absent from the lookup table.
func FallbackAudioName(b Beat) string {
	if slug := textutil.Slug(b.Title); slug != "" {
		return fmt.Sprintf("%02d-%s.wav", b.Index+1, slug)
	}
	if slug := textutil.Slug(b.ID); slug != "" {
		return slug + ".wav"
	}
	return fmt.Sprintf("beat-%02d.wav", b.Index+1)
}
