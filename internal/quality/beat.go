package quality

import (
	"fmt"

	"demoreel/internal/media/ffprobe"
)

const (
	issuePenalty   = 15
	warningPenalty = 5
	durationBonus  = 10
	bitrateBonus   = 5
)

// BeatValidation is the score and findings for one beat output.
type BeatValidation struct {
	BeatID      string            `json:"beat_id"`
	Score       int               `json:"score"`
	Issues      []string          `json:"issues"`
	Warnings    []string          `json:"warnings"`
	Suggestions []string          `json:"suggestions"`
	Passed      bool              `json:"passed"`
	NeedsRework bool              `json:"needs_rework"`
	Media       ffprobe.MediaInfo `json:"media"`
}

// Duration returns the probed duration used as the beat's weight.
func (v BeatValidation) Duration() float64 {
	return v.Media.DurationSeconds
}

// ScoreBeat scores one probed beat output.
func ScoreBeat(id string, info ffprobe.MediaInfo, std Standards) BeatValidation {
	v := BeatValidation{
		BeatID:      id,
		Issues:      []string{},
		Warnings:    []string{},
		Suggestions: []string{},
		Media:       info,
	}

	duration := info.DurationSeconds
	if duration < std.BeatMinSeconds {
		v.Issues = append(v.Issues, fmt.Sprintf("duration %.1fs is below the %.0fs minimum", duration, std.BeatMinSeconds))
		v.Suggestions = append(v.Suggestions, "extend the beat or merge it with a neighbour")
	}
	if duration > std.BeatMaxSeconds {
		v.Warnings = append(v.Warnings, fmt.Sprintf("duration %.1fs exceeds the %.0fs maximum", duration, std.BeatMaxSeconds))
		v.Suggestions = append(v.Suggestions, "split the beat into shorter segments")
	}
	if info.Width != std.ExpectedWidth || info.Height != std.ExpectedHeight {
		v.Warnings = append(v.Warnings, fmt.Sprintf("resolution %dx%d differs from %dx%d", info.Width, info.Height, std.ExpectedWidth, std.ExpectedHeight))
		v.Suggestions = append(v.Suggestions, fmt.Sprintf("record the capture at %dx%d", std.ExpectedWidth, std.ExpectedHeight))
	}
	if info.BitrateKbps < std.MinBitrateKbps {
		v.Warnings = append(v.Warnings, fmt.Sprintf("bitrate %.0f kbps is below %.0f kbps", info.BitrateKbps, std.MinBitrateKbps))
		v.Suggestions = append(v.Suggestions, "lower the encoder CRF to raise bitrate")
	}
	if info.Framerate < std.MinFramerate {
		v.Warnings = append(v.Warnings, fmt.Sprintf("framerate %.2f fps is below %.0f fps", info.Framerate, std.MinFramerate))
		v.Suggestions = append(v.Suggestions, "re-record with a higher capture framerate")
	}
	if !info.Probed && info.Error != "" {
		v.Suggestions = append(v.Suggestions, "media probe failed ("+info.Error+"); figures above may be placeholders")
	}

	score := 100 - issuePenalty*len(v.Issues) - warningPenalty*len(v.Warnings)
	if duration >= std.BeatBonusMinSeconds && duration <= std.BeatBonusMaxSeconds {
		score += durationBonus
	}
	if info.BitrateKbps >= std.BonusBitrateKbps {
		score += bitrateBonus
	}
	v.Score = clamp(score)
	v.Passed = len(v.Issues) == 0 && v.Score >= std.BeatPassScore
	v.NeedsRework = !v.Passed
	return v
}

func clamp(score int) int {
	return min(max(score, 0), 100)
}
