package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input, output, and bookkeeping directories.
type Paths struct {
	CaptureDir  string `toml:"capture_dir"`
	AudioDir    string `toml:"audio_dir"`
	OutputDir   string `toml:"output_dir"`
	ReportDir   string `toml:"report_dir"`
	LogDir      string `toml:"log_dir"`
	StateDir    string `toml:"state_dir"`
	MasterVideo string `toml:"master_video"`
	Storyboard  string `toml:"storyboard"`
	FinalVideo  string `toml:"final_video"`
}

// Tools names the external media binaries.
type Tools struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Sync contains transcoder flags and per-beat failure handling.
type Sync struct {
	VideoCodec            string `toml:"video_codec"`
	VideoProfile          string `toml:"video_profile"`
	Preset                string `toml:"preset"`
	CRF                   int    `toml:"crf"`
	PixelFormat           string `toml:"pixel_format"`
	AudioCodec            string `toml:"audio_codec"`
	AudioBitrate          string `toml:"audio_bitrate"`
	RetryAttempts         int    `toml:"retry_attempts"`
	RetryDelaySeconds     int    `toml:"retry_delay_seconds"`
	RunTimeoutSeconds     int    `toml:"run_timeout_seconds"`
	OverrunPolicy         string `toml:"overrun_policy"`
	PlaceholderAudio      bool   `toml:"placeholder_audio"`
	PlaceholderSampleRate int    `toml:"placeholder_sample_rate"`
	Assemble              bool   `toml:"assemble"`
}

// Quality contains the fixed quality standards used by the scorer.
type Quality struct {
	MinOverall            int      `toml:"min_overall"`
	MinTechnicalAccuracy  int      `toml:"min_technical_accuracy"`
	MinVisualQuality      int      `toml:"min_visual_quality"`
	MinPacing             int      `toml:"min_pacing"`
	MinEngagement         int      `toml:"min_engagement"`
	MinDurationSeconds    float64  `toml:"min_duration_seconds"`
	MaxDurationSeconds    float64  `toml:"max_duration_seconds"`
	TargetDurationSeconds float64  `toml:"target_duration_seconds"`
	RequiredTopics        []string `toml:"required_topics"`
	ForbiddenTopics       []string `toml:"forbidden_topics"`

	BeatMinSeconds      float64 `toml:"beat_min_seconds"`
	BeatMaxSeconds      float64 `toml:"beat_max_seconds"`
	BeatBonusMinSeconds float64 `toml:"beat_bonus_min_seconds"`
	BeatBonusMaxSeconds float64 `toml:"beat_bonus_max_seconds"`
	MinBitrateKbps      float64 `toml:"min_bitrate_kbps"`
	BonusBitrateKbps    float64 `toml:"bonus_bitrate_kbps"`
	MinFramerate        float64 `toml:"min_framerate"`
	ExpectedWidth       int     `toml:"expected_width"`
	ExpectedHeight      int     `toml:"expected_height"`
	BeatPassScore       int     `toml:"beat_pass_score"`
}

// Beat is one hand-authored entry of the demo timeline.
type Beat struct {
	ID        string  `toml:"id"`
	Title     string  `toml:"title"`
	Start     float64 `toml:"start"`
	Duration  float64 `toml:"duration"`
	Narration string  `toml:"narration"`
	Audio     string  `toml:"audio"`
}

// History contains configuration for the run history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for demoreel.
//
// Sections:
//   - Paths: capture, narration, output, report, log, and state directories
//   - Tools: ffmpeg/ffprobe binaries
//   - Sync: encoding flags, retries, timeouts, overrun policy
//   - Quality: scoring thresholds and content topics
//   - Beats / AudioNames: the static timeline and its narration file table
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths      Paths             `toml:"paths"`
	Tools      Tools             `toml:"tools"`
	Sync       Sync              `toml:"sync"`
	Quality    Quality           `toml:"quality"`
	Beats      []Beat            `toml:"beats"`
	AudioNames map[string]string `toml:"audio_names"`
	History    History           `toml:"history"`
	Logging    Logging           `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/demoreel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// A file that declares [[beats]] replaces the default timeline and
		// its audio table entirely.
		cfg.Beats = nil
		cfg.AudioNames = nil
		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Beats) == 0 {
			cfg.Beats = defaultBeats()
			if cfg.AudioNames == nil {
				cfg.AudioNames = defaultAudioNames()
			}
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("demoreel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, report, log, and state directories.
// Input directories are left alone; a missing capture or audio directory is
// reported by the commands that need it.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.ReportDir, c.Paths.LogDir, c.Paths.StateDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for segment transcoding.
func (c *Config) FFmpegBinary() string {
	if strings.TrimSpace(c.Tools.FFmpeg) == "" {
		return defaultFFmpeg
	}
	return c.Tools.FFmpeg
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	if strings.TrimSpace(c.Tools.FFprobe) == "" {
		return defaultFFprobe
	}
	return c.Tools.FFprobe
}

// RetryDelay returns the fixed pause between transcoder attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Sync.RetryDelaySeconds) * time.Second
}

// RunTimeout returns the wall-clock budget for a whole sync run. Zero disables it.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.Sync.RunTimeoutSeconds) * time.Second
}

// HistoryPath returns the history database location.
func (c *Config) HistoryPath() string {
	if strings.TrimSpace(c.History.Path) != "" {
		return c.History.Path
	}
	return filepath.Join(c.Paths.StateDir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
