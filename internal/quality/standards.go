package quality

import (
	"slices"

	"demoreel/internal/config"
)

// Standards holds every threshold the scorer consults. Values are copied out
// of configuration once and never mutated.
type Standards struct {
	MinOverall           int `json:"min_overall"`
	MinTechnicalAccuracy int `json:"min_technical_accuracy"`
	MinVisualQuality     int `json:"min_visual_quality"`
	MinPacing            int `json:"min_pacing"`
	MinEngagement        int `json:"min_engagement"`

	MinDurationSeconds    float64 `json:"min_duration_seconds"`
	MaxDurationSeconds    float64 `json:"max_duration_seconds"`
	TargetDurationSeconds float64 `json:"target_duration_seconds"`

	RequiredTopics  []string `json:"required_topics"`
	ForbiddenTopics []string `json:"forbidden_topics"`

	BeatMinSeconds      float64 `json:"beat_min_seconds"`
	BeatMaxSeconds      float64 `json:"beat_max_seconds"`
	BeatBonusMinSeconds float64 `json:"beat_bonus_min_seconds"`
	BeatBonusMaxSeconds float64 `json:"beat_bonus_max_seconds"`
	MinBitrateKbps      float64 `json:"min_bitrate_kbps"`
	BonusBitrateKbps    float64 `json:"bonus_bitrate_kbps"`
	MinFramerate        float64 `json:"min_framerate"`
	ExpectedWidth       int     `json:"expected_width"`
	ExpectedHeight      int     `json:"expected_height"`
	BeatPassScore       int     `json:"beat_pass_score"`
}

// FromConfig copies the configured quality section into Standards.
func FromConfig(q config.Quality) Standards {
	return Standards{
		MinOverall:            q.MinOverall,
		MinTechnicalAccuracy:  q.MinTechnicalAccuracy,
		MinVisualQuality:      q.MinVisualQuality,
		MinPacing:             q.MinPacing,
		MinEngagement:         q.MinEngagement,
		MinDurationSeconds:    q.MinDurationSeconds,
		MaxDurationSeconds:    q.MaxDurationSeconds,
		TargetDurationSeconds: q.TargetDurationSeconds,
		RequiredTopics:        slices.Clone(q.RequiredTopics),
		ForbiddenTopics:       slices.Clone(q.ForbiddenTopics),
		BeatMinSeconds:        q.BeatMinSeconds,
		BeatMaxSeconds:        q.BeatMaxSeconds,
		BeatBonusMinSeconds:   q.BeatBonusMinSeconds,
		BeatBonusMaxSeconds:   q.BeatBonusMaxSeconds,
		MinBitrateKbps:        q.MinBitrateKbps,
		BonusBitrateKbps:      q.BonusBitrateKbps,
		MinFramerate:          q.MinFramerate,
		ExpectedWidth:         q.ExpectedWidth,
		ExpectedHeight:        q.ExpectedHeight,
		BeatPassScore:         q.BeatPassScore,
	}
}

// DefaultStandards returns the standards built from the default configuration.
func DefaultStandards() Standards {
	return FromConfig(config.Default().Quality)
}
