package quality

import (
	"fmt"
	"math"

	"demoreel/internal/media/ffprobe"
)

const (
	hdReadyWidth    = 1280
	hdReadyHeight   = 720
	smoothFramerate = 30
	longBeatSeconds = 60
	maxLongBeats    = 2
	maxShortBeats   = 3
	failingPenalty  = 15
	weakBeatPenalty = 8
	varietyBonus    = 5
	varietySpread   = 20
)

// VideoValidation aggregates beat scores and whole-video media into category
// scores and the standards gate.
type VideoValidation struct {
	TechnicalAccuracy int               `json:"technical_accuracy"`
	VisualQuality     int               `json:"visual_quality"`
	Pacing            int               `json:"pacing"`
	Engagement        int               `json:"engagement"`
	Overall           int               `json:"overall"`
	DurationSeconds   float64           `json:"duration_seconds"`
	MeetsStandards    bool              `json:"meets_standards"`
	Failures          []string          `json:"failures"`
	BeatCount         int               `json:"beat_count"`
	PassedBeats       int               `json:"passed_beats"`
	ReworkBeats       int               `json:"rework_beats"`
	Media             ffprobe.MediaInfo `json:"media"`
}

// Evaluate scores the whole video. It never mutates beats.
func Evaluate(video ffprobe.MediaInfo, beats []BeatValidation, std Standards) VideoValidation {
	v := VideoValidation{
		TechnicalAccuracy: TechnicalAccuracy(beats),
		VisualQuality:     VisualQuality(video, std),
		Pacing:            Pacing(video.DurationSeconds, beats, std),
		Engagement:        Engagement(beats, std),
		DurationSeconds:   video.DurationSeconds,
		BeatCount:         len(beats),
		Failures:          []string{},
		Media:             video,
	}
	for _, b := range beats {
		if b.Passed {
			v.PassedBeats++
		} else {
			v.ReworkBeats++
		}
	}
	v.Overall = OverallScore(v.TechnicalAccuracy, v.VisualQuality, v.Pacing, v.Engagement)

	gate := func(name string, got, want int) {
		if got < want {
			v.Failures = append(v.Failures, fmt.Sprintf("%s %d is below %d", name, got, want))
		}
	}
	gate("overall score", v.Overall, std.MinOverall)
	gate("technical accuracy", v.TechnicalAccuracy, std.MinTechnicalAccuracy)
	gate("visual quality", v.VisualQuality, std.MinVisualQuality)
	gate("pacing", v.Pacing, std.MinPacing)
	gate("engagement", v.Engagement, std.MinEngagement)
	if v.DurationSeconds < std.MinDurationSeconds || v.DurationSeconds > std.MaxDurationSeconds {
		v.Failures = append(v.Failures, fmt.Sprintf("duration %.1fs is outside %.0fs-%.0fs", v.DurationSeconds, std.MinDurationSeconds, std.MaxDurationSeconds))
	}
	v.MeetsStandards = len(v.Failures) == 0
	return v
}

// OverallScore is the rounded arithmetic mean of the four category scores.
func OverallScore(technical, visual, pacing, engagement int) int {
	return int(math.Round(float64(technical+visual+pacing+engagement) / 4))
}

// TechnicalAccuracy is the duration-weighted mean of beat scores. With no
// beats it is 0; when every beat has zero duration it is the simple mean.
func TechnicalAccuracy(beats []BeatValidation) int {
	if len(beats) == 0 {
		return 0
	}
	var weighted, weight, sum float64
	for _, b := range beats {
		d := max(b.Duration(), 0)
		weighted += float64(b.Score) * d
		weight += d
		sum += float64(b.Score)
	}
	if weight == 0 {
		return clamp(int(math.Round(sum / float64(len(beats)))))
	}
	return clamp(int(math.Round(weighted / weight)))
}

// VisualQuality adjusts 100 by resolution, bitrate, and framerate tiers.
func VisualQuality(video ffprobe.MediaInfo, std Standards) int {
	score := 100
	switch {
	case video.Width == std.ExpectedWidth && video.Height == std.ExpectedHeight:
		score += 10
	case video.Width == hdReadyWidth && video.Height == hdReadyHeight:
		score += 5
	default:
		score -= 20
	}
	switch {
	case video.BitrateKbps >= std.BonusBitrateKbps:
		score += 10
	case video.BitrateKbps >= std.MinBitrateKbps:
		score += 5
	default:
		score -= 15
	}
	switch {
	case video.Framerate >= smoothFramerate:
		score += 5
	case video.Framerate < std.MinFramerate:
		score -= 10
	}
	return clamp(score)
}

// Pacing rewards a total duration inside the allowed window and penalizes
// runs of very long or very short beats.
func Pacing(total float64, beats []BeatValidation, std Standards) int {
	score := 100
	switch {
	case total < std.MinDurationSeconds:
		score -= 20
	case total > std.MaxDurationSeconds:
		score -= 15
	default:
		score += 10
	}
	long, short := 0, 0
	for _, b := range beats {
		if b.Duration() > longBeatSeconds {
			long++
		}
		if b.Duration() < std.BeatMinSeconds {
			short++
		}
	}
	if long > maxLongBeats {
		score -= 10
	}
	if short > maxShortBeats {
		score -= 5
	}
	return clamp(score)
}

// Engagement penalizes failing and weak beats and rewards score variety.
func Engagement(beats []BeatValidation, std Standards) int {
	score := 100
	if len(beats) == 0 {
		return score
	}
	lowest, highest := beats[0].Score, beats[0].Score
	for _, b := range beats {
		if !b.Passed {
			score -= failingPenalty
		}
		if b.Score < std.BeatPassScore {
			score -= weakBeatPenalty
		}
		lowest = min(lowest, b.Score)
		highest = max(highest, b.Score)
	}
	if highest-lowest > varietySpread {
		score += varietyBonus
	}
	return clamp(score)
}
