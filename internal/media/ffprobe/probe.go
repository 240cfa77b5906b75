package ffprobe

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"demoreel/internal/logging"
	"demoreel/internal/media/wavinfo"
)

// MediaInfo is the flattened view of a probed file used by the synchronizer
// and the quality scorer. Probed is false when the probe degraded to zero
// values; Error then carries the reason.
type MediaInfo struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"duration_seconds"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	BitrateKbps     float64 `json:"bitrate_kbps"`
	Framerate       float64 `json:"framerate"`
	VideoCodec      string  `json:"video_codec,omitempty"`
	AudioCodec      string  `json:"audio_codec,omitempty"`
	SizeBytes       int64   `json:"size_bytes"`
	Probed          bool    `json:"probed"`
	Error           string  `json:"error,omitempty"`
}

// HasVideo reports whether a video stream with dimensions was found.
func (m MediaInfo) HasVideo() bool {
	return m.Width > 0 && m.Height > 0
}

// Summarize flattens an ffprobe result into MediaInfo.
func Summarize(path string, result Result) MediaInfo {
	info := MediaInfo{
		Path:            path,
		DurationSeconds: result.DurationSeconds(),
		SizeBytes:       result.SizeBytes(),
		BitrateKbps:     round2(float64(result.BitRate()) / 1000),
		Probed:          true,
	}
	if video, ok := result.VideoStream(); ok {
		info.Width = video.Width
		info.Height = video.Height
		info.VideoCodec = video.CodecName
		info.Framerate = FrameRate(video.RFrameRate)
		if info.Framerate == 0 {
			info.Framerate = FrameRate(video.AvgFrameRate)
		}
		info.Framerate = round2(info.Framerate)
	}
	if audio, ok := result.AudioStream(); ok {
		info.AudioCodec = audio.CodecName
	}
	return info
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// Prober probes media files with a configured ffprobe binary. Probe never
// fails: callers receive degraded values with Probed=false instead.
type Prober struct {
	binary  string
	logger  *slog.Logger
	inspect func(ctx context.Context, binary, path string) (Result, error)
}

// NewProber constructs a Prober for the given ffprobe binary.
func NewProber(binary string, logger *slog.Logger) *Prober {
	return &Prober{
		binary:  binary,
		logger:  logging.NewComponentLogger(logger, "probe"),
		inspect: Inspect,
	}
}

// WithInspector swaps the inspection function, mainly for tests.
func (p *Prober) WithInspector(fn func(ctx context.Context, binary, path string) (Result, error)) *Prober {
	if fn != nil {
		p.inspect = fn
	}
	return p
}

// Probe returns MediaInfo for path. When ffprobe fails on a WAV file the
// duration is read natively so narration timing survives a missing tool.
func (p *Prober) Probe(ctx context.Context, path string) MediaInfo {
	result, err := p.inspect(ctx, p.binary, path)
	if err == nil {
		info := Summarize(path, result)
		if info.DurationSeconds > 0 || info.HasVideo() {
			return info
		}
		err = errNoUsableStreams
	}

	if strings.EqualFold(filepath.Ext(path), ".wav") {
		if seconds, wavErr := wavinfo.Duration(path); wavErr == nil {
			p.logger.Debug("probe fell back to native wav decoder",
				logging.String("path", path),
				logging.Error(err),
			)
			return MediaInfo{
				Path:            path,
				DurationSeconds: seconds,
				AudioCodec:      "pcm",
				Probed:          true,
			}
		}
	}

	logging.WarnWithContext(logging.WithContext(ctx, p.logger), "media probe failed; using zero values", "probe_failed",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "verify the file exists and that ffprobe is installed"),
	)
	return MediaInfo{Path: path, Error: err.Error()}
}

type probeError string

func (e probeError) Error() string { return string(e) }

const errNoUsableStreams = probeError("ffprobe reported no duration or video stream")
