// Package validation probes synced beat files and the combined video, then
// scores them with the quality package.
package validation

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"demoreel/internal/beatsync"
	"demoreel/internal/fileutil"
	"demoreel/internal/logging"
	"demoreel/internal/media/ffprobe"
	"demoreel/internal/quality"
	"demoreel/internal/services"
)

const stageName = "validate"

// Prober measures media files. Failures surface as MediaInfo.Probed=false.
type Prober interface {
	Probe(ctx context.Context, path string) ffprobe.MediaInfo
}

// BeatFile names one beat output to validate.
type BeatFile struct {
	BeatID string `json:"beat_id"`
	Path   string `json:"path"`
}

// Request lists what a validation run inspects.
type Request struct {
	BeatFiles     []BeatFile
	CombinedVideo string
	Narration     string
}

// Outcome is the full result of one validation run.
type Outcome struct {
	RunID           string                   `json:"run_id"`
	StartedAt       time.Time                `json:"started_at"`
	FinishedAt      time.Time                `json:"finished_at"`
	CombinedVideo   string                   `json:"combined_video,omitempty"`
	Synthesized     bool                     `json:"synthesized"`
	Beats           []quality.BeatValidation `json:"beats"`
	Video           quality.VideoValidation  `json:"video"`
	Topics          quality.TopicCoverage    `json:"topics"`
	Standards       quality.Standards        `json:"standards"`
	Counts          Counts                   `json:"counts"`
	Recommendations []string                 `json:"recommendations"`
}

// Counts buckets beats into pass, warn, and fail.
type Counts struct {
	Pass int `json:"pass"`
	Warn int `json:"warn"`
	Fail int `json:"fail"`
}

// Total returns the number of counted beats.
func (c Counts) Total() int {
	return c.Pass + c.Warn + c.Fail
}

// OK reports whether the video meets standards and no beat has an issue.
func (o Outcome) OK() bool {
	if !o.Video.MeetsStandards {
		return false
	}
	for _, b := range o.Beats {
		if len(b.Issues) > 0 {
			return false
		}
	}
	return true
}

// Validator runs validation against fixed standards.
type Validator struct {
	prober    Prober
	standards quality.Standards
	logger    *slog.Logger
	now       func() time.Time
}

// New constructs a Validator.
func New(prober Prober, standards quality.Standards, logger *slog.Logger) *Validator {
	return &Validator{
		prober:    prober,
		standards: standards,
		logger:    logging.NewComponentLogger(logger, "validate"),
		now:       time.Now,
	}
}

// Run probes and scores every beat file and the combined video. When the
// combined video is absent or cannot be probed, whole-video figures are
// synthesized from the beats.
func (v *Validator) Run(ctx context.Context, req Request) Outcome {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, v.logger)

	outcome := Outcome{
		RunID:     runID,
		StartedAt: v.now(),
		Standards: v.standards,
		Beats:     make([]quality.BeatValidation, 0, len(req.BeatFiles)),
	}

	for _, file := range req.BeatFiles {
		info := v.prober.Probe(services.WithBeatID(ctx, file.BeatID), file.Path)
		bv := quality.ScoreBeat(file.BeatID, info, v.standards)
		outcome.Beats = append(outcome.Beats, bv)
		switch {
		case !bv.Passed:
			outcome.Counts.Fail++
		case len(bv.Warnings) > 0:
			outcome.Counts.Warn++
		default:
			outcome.Counts.Pass++
		}
		logger.Debug("beat scored",
			logging.String(logging.FieldBeatID, file.BeatID),
			logging.Int("score", bv.Score),
			logging.Int("issues", len(bv.Issues)),
			logging.Int("warnings", len(bv.Warnings)),
		)
	}

	video := ffprobe.MediaInfo{}
	if combined := strings.TrimSpace(req.CombinedVideo); combined != "" && fileutil.Exists(combined) {
		outcome.CombinedVideo = combined
		video = v.prober.Probe(ctx, combined)
	}
	if !video.Probed {
		if outcome.CombinedVideo != "" {
			logging.WarnWithContext(logger, "combined video probe failed; using beat aggregate", "combined_probe_failed",
				logging.String("video", outcome.CombinedVideo),
			)
		}
		video = Aggregate(outcome.Beats)
		outcome.Synthesized = true
	}

	outcome.Video = quality.Evaluate(video, outcome.Beats, v.standards)
	outcome.Topics = quality.CheckTopics(req.Narration, v.standards)
	outcome.Recommendations = Recommendations(outcome)
	outcome.FinishedAt = v.now()

	logger.Info("validation finished",
		logging.Int("overall", outcome.Video.Overall),
		logging.Bool("meets_standards", outcome.Video.MeetsStandards),
		logging.Int("pass", outcome.Counts.Pass),
		logging.Int("warn", outcome.Counts.Warn),
		logging.Int("fail", outcome.Counts.Fail),
	)
	return outcome
}

// Aggregate synthesizes whole-video media from beat media: summed duration,
// the first beat's resolution, mean bitrate, and the lowest framerate.
func Aggregate(beats []quality.BeatValidation) ffprobe.MediaInfo {
	info := ffprobe.MediaInfo{Probed: len(beats) > 0}
	if len(beats) == 0 {
		return info
	}
	var bitrate float64
	first := true
	for _, b := range beats {
		m := b.Media
		info.DurationSeconds += m.DurationSeconds
		info.SizeBytes += m.SizeBytes
		bitrate += m.BitrateKbps
		if first {
			info.Width, info.Height = m.Width, m.Height
			info.Framerate = m.Framerate
			info.VideoCodec, info.AudioCodec = m.VideoCodec, m.AudioCodec
			first = false
		} else {
			info.Framerate = min(info.Framerate, m.Framerate)
		}
		if !m.Probed {
			info.Probed = false
		}
	}
	info.BitrateKbps = bitrate / float64(len(beats))
	return info
}

var beatFilePrefix = regexp.MustCompile(`^\d+-`)

// DiscoverBeatFiles lists *.mp4 beat outputs in dir sorted by name. Beat ids
// come from the file name with any numeric "NN-" prefix removed. Paths in
// exclude are skipped.
func DiscoverBeatFiles(dir string, exclude ...string) ([]BeatFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]bool, len(exclude))
	for _, path := range exclude {
		if abs, err := filepath.Abs(path); err == nil {
			skip[abs] = true
		}
	}
	var files []BeatFile
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".mp4") {
			continue
		}
		path := filepath.Join(dir, name)
		if abs, err := filepath.Abs(path); err == nil && skip[abs] {
			continue
		}
		id := beatFilePrefix.ReplaceAllString(strings.TrimSuffix(name, filepath.Ext(name)), "")
		files = append(files, BeatFile{BeatID: id, Path: path})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// FromSyncReport lists the successful outputs of a sync report in beat order.
func FromSyncReport(report beatsync.Report) []BeatFile {
	var files []BeatFile
	for _, res := range report.Results {
		if res.Success && res.OutputPath != "" {
			files = append(files, BeatFile{BeatID: res.BeatID, Path: res.OutputPath})
		}
	}
	return files
}
