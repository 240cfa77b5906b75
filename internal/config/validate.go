package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateQuality(); err != nil {
		return err
	}
	if err := c.validateBeats(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSync() error {
	switch c.Sync.OverrunPolicy {
	case OverrunFreeze, OverrunError:
	default:
		return fmt.Errorf("sync.overrun_policy must be %q or %q, got %q", OverrunFreeze, OverrunError, c.Sync.OverrunPolicy)
	}
	if c.Sync.CRF < 0 || c.Sync.CRF > 51 {
		return errors.New("sync.crf must be between 0 and 51")
	}
	if c.Sync.RetryAttempts > 10 {
		return errors.New("sync.retry_attempts must be at most 10")
	}
	return nil
}

func (c *Config) validateQuality() error {
	q := c.Quality
	if err := ensureScoreRange(map[string]int{
		"quality.min_overall":            q.MinOverall,
		"quality.min_technical_accuracy": q.MinTechnicalAccuracy,
		"quality.min_visual_quality":     q.MinVisualQuality,
		"quality.min_pacing":             q.MinPacing,
		"quality.min_engagement":         q.MinEngagement,
		"quality.beat_pass_score":        q.BeatPassScore,
	}); err != nil {
		return err
	}
	if q.MinDurationSeconds < 0 {
		return errors.New("quality.min_duration_seconds must be >= 0")
	}
	if q.MaxDurationSeconds <= q.MinDurationSeconds {
		return errors.New("quality.max_duration_seconds must be greater than quality.min_duration_seconds")
	}
	if q.TargetDurationSeconds != 0 && (q.TargetDurationSeconds < q.MinDurationSeconds || q.TargetDurationSeconds > q.MaxDurationSeconds) {
		return errors.New("quality.target_duration_seconds must lie within the min/max duration range")
	}
	if q.BeatBonusMaxSeconds < q.BeatBonusMinSeconds {
		return errors.New("quality.beat_bonus_max_seconds must be >= quality.beat_bonus_min_seconds")
	}
	if q.ExpectedWidth <= 0 || q.ExpectedHeight <= 0 {
		return errors.New("quality.expected_width and quality.expected_height must be positive")
	}
	return nil
}

func (c *Config) validateBeats() error {
	seen := make(map[string]int, len(c.Beats))
	for i, beat := range c.Beats {
		label := fmt.Sprintf("beats[%d]", i)
		if beat.ID == "" {
			return fmt.Errorf("%s.id must be set", label)
		}
		if prev, ok := seen[beat.ID]; ok {
			return fmt.Errorf("%s.id %q duplicates beats[%d]", label, beat.ID, prev)
		}
		seen[beat.ID] = i
		if beat.Start < 0 {
			return fmt.Errorf("%s.start must be >= 0", label)
		}
		if beat.Duration <= 0 {
			return fmt.Errorf("%s.duration must be positive", label)
		}
	}
	unknown := make([]string, 0)
	for id := range c.AudioNames {
		if _, ok := seen[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	// Storyboard-driven runs use their own ids, so only flag the mismatch
	// when the static beat table is the timeline source.
	if len(unknown) > 0 && strings.TrimSpace(c.Paths.Storyboard) == "" && len(c.Beats) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("audio_names references unknown beat ids: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func ensureScoreRange(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if value := values[key]; value < 0 || value > 100 {
			return fmt.Errorf("%s must be between 0 and 100", key)
		}
	}
	return nil
}
