// Package ffmpeg builds ffmpeg argument arrays for beat segments and final
// assembly, and runs them without a shell.
package ffmpeg

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const (
	defaultBinary = "ffmpeg"
	stderrTail    = 2048
)

type commandRunner func(ctx context.Context, name string, args ...string) error

// Encoding holds the fixed output codec settings applied to every segment.
type Encoding struct {
	VideoCodec   string
	VideoProfile string
	Preset       string
	CRF          int
	PixelFormat  string
	AudioCodec   string
	AudioBitrate string
}

// DefaultEncoding returns H.264 high profile video with AAC audio.
func DefaultEncoding() Encoding {
	return Encoding{
		VideoCodec:   "libx264",
		VideoProfile: "high",
		Preset:       "medium",
		CRF:          20,
		PixelFormat:  "yuv420p",
		AudioCodec:   "aac",
		AudioBitrate: "192k",
	}
}

// SegmentRequest describes one beat window muxed with its narration.
type SegmentRequest struct {
	Source   string
	Audio    string
	Output   string
	Start    float64
	Duration float64
	// FreezeSeconds clones the last source frame for this long when the
	// window runs past the end of the source.
	FreezeSeconds float64
	Encoding      Encoding
}

// Transcoder runs ffmpeg with argument arrays.
type Transcoder struct {
	binary string
	run    commandRunner
}

// NewTranscoder returns a Transcoder for the given binary, defaulting to
// "ffmpeg" on PATH.
func NewTranscoder(binary string) *Transcoder {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultBinary
	}
	return &Transcoder{binary: binary, run: defaultCommandRunner}
}

// WithCommandRunner allows injecting a custom command runner for tests.
func (t *Transcoder) WithCommandRunner(r func(ctx context.Context, name string, args ...string) error) {
	if t != nil && r != nil {
		t.run = r
	}
}

// Binary reports the ffmpeg executable in use.
func (t *Transcoder) Binary() string {
	return t.binary
}

// Run executes ffmpeg with the provided arguments.
func (t *Transcoder) Run(ctx context.Context, args []string) error {
	if t == nil || t.run == nil {
		return fmt.Errorf("transcoder not initialized")
	}
	return t.run(ctx, t.binary, args...)
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var stderr strings.Builder
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, tail(strings.TrimSpace(stderr.String()), stderrTail))
	}
	return nil
}

func tail(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return "..." + s[len(s)-limit:]
}

// SegmentArgs builds the ffmpeg arguments that cut a window from the source,
// pair it with the narration track, and re-encode to the fixed codecs.
func SegmentArgs(req SegmentRequest) []string {
	enc := req.Encoding
	duration := formatSeconds(req.Duration)
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(req.Start),
		"-t", duration,
		"-i", req.Source,
		"-i", req.Audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
	}
	if req.FreezeSeconds > 0 {
		args = append(args, "-vf", "tpad=stop_mode=clone:stop_duration="+formatSeconds(req.FreezeSeconds))
	}
	args = append(args,
		"-c:v", enc.VideoCodec,
		"-profile:v", enc.VideoProfile,
		"-preset", enc.Preset,
		"-crf", strconv.Itoa(enc.CRF),
		"-pix_fmt", enc.PixelFormat,
		"-c:a", enc.AudioCodec,
		"-b:a", enc.AudioBitrate,
		"-t", duration,
		"-movflags", "+faststart",
		req.Output,
	)
	return args
}

// ConcatArgs builds the stream-copy concat demuxer invocation for a list file.
func ConcatArgs(listPath, output string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
}

// WriteConcatList writes a concat demuxer list naming files in order.
func WriteConcatList(path string, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("concat list requires at least one file")
	}
	var b strings.Builder
	for _, file := range files {
		b.WriteString("file '")
		b.WriteString(strings.ReplaceAll(file, "'", `'\''`))
		b.WriteString("'\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 3, 64)
}
