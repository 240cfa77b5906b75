package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeSync()
	c.normalizeQuality()
	c.normalizeBeats()
	c.normalizeLogging()
	return nil
}

func (c *Config) applyEnv() {
	if value, ok := os.LookupEnv("DEMOREEL_MASTER_VIDEO"); ok && strings.TrimSpace(value) != "" {
		c.Paths.MasterVideo = value
	}
	if value, ok := os.LookupEnv("DEMOREEL_OUTPUT_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.OutputDir = value
	}
	if value, ok := os.LookupEnv("DEMOREEL_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFmpeg = value
	}
	if value, ok := os.LookupEnv("DEMOREEL_FFPROBE"); ok && strings.TrimSpace(value) != "" {
		c.Tools.FFprobe = value
	}
	if value, ok := os.LookupEnv("DEMOREEL_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
}

func (c *Config) normalizePaths() error {
	fields := []struct {
		name     string
		value    *string
		fallback string
	}{
		{"paths.capture_dir", &c.Paths.CaptureDir, defaultCaptureDir},
		{"paths.audio_dir", &c.Paths.AudioDir, defaultAudioDir},
		{"paths.output_dir", &c.Paths.OutputDir, defaultOutputDir},
		{"paths.report_dir", &c.Paths.ReportDir, defaultReportDir},
		{"paths.log_dir", &c.Paths.LogDir, ""},
		{"paths.state_dir", &c.Paths.StateDir, defaultStateDir},
		{"paths.master_video", &c.Paths.MasterVideo, ""},
		{"paths.storyboard", &c.Paths.Storyboard, ""},
		{"paths.final_video", &c.Paths.FinalVideo, ""},
		{"history.path", &c.History.Path, ""},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			trimmed = field.fallback
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("%s: %w", field.name, err)
		}
		*field.value = expanded
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobe
	}
}

func (c *Config) normalizeSync() {
	s := &c.Sync
	s.VideoCodec = defaultString(s.VideoCodec, defaultVideoCodec)
	s.VideoProfile = strings.TrimSpace(s.VideoProfile)
	s.Preset = strings.TrimSpace(s.Preset)
	s.PixelFormat = defaultString(s.PixelFormat, defaultPixelFormat)
	s.AudioCodec = defaultString(s.AudioCodec, defaultAudioCodec)
	s.AudioBitrate = defaultString(s.AudioBitrate, defaultAudioBitrate)
	s.OverrunPolicy = strings.ToLower(defaultString(s.OverrunPolicy, defaultOverrunPolicy))
	if s.RetryAttempts < 0 {
		s.RetryAttempts = 0
	}
	if s.RetryDelaySeconds < 0 {
		s.RetryDelaySeconds = 0
	}
	if s.RunTimeoutSeconds < 0 {
		s.RunTimeoutSeconds = 0
	}
	if s.PlaceholderSampleRate <= 0 {
		s.PlaceholderSampleRate = defaultPlaceholderSampleRate
	}
}

func (c *Config) normalizeQuality() {
	c.Quality.RequiredTopics = normalizeTopics(c.Quality.RequiredTopics)
	c.Quality.ForbiddenTopics = normalizeTopics(c.Quality.ForbiddenTopics)
}

func (c *Config) normalizeBeats() {
	for i := range c.Beats {
		c.Beats[i].ID = strings.TrimSpace(c.Beats[i].ID)
		c.Beats[i].Title = strings.TrimSpace(c.Beats[i].Title)
		c.Beats[i].Narration = strings.TrimSpace(c.Beats[i].Narration)
		c.Beats[i].Audio = strings.TrimSpace(c.Beats[i].Audio)
	}
	if len(c.AudioNames) > 0 {
		names := make(map[string]string, len(c.AudioNames))
		for id, name := range c.AudioNames {
			id = strings.TrimSpace(id)
			name = strings.TrimSpace(name)
			if id == "" || name == "" {
				continue
			}
			names[id] = name
		}
		c.AudioNames = names
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func defaultString(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func normalizeTopics(topics []string) []string {
	if len(topics) == 0 {
		return nil
	}
	out := make([]string, 0, len(topics))
	seen := make(map[string]struct{}, len(topics))
	for _, topic := range topics {
		normalized := strings.ToLower(strings.TrimSpace(topic))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
