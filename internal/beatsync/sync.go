package beatsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"demoreel/internal/config"
	"demoreel/internal/fileutil"
	"demoreel/internal/logging"
	"demoreel/internal/media/ffmpeg"
	"demoreel/internal/media/ffprobe"
	"demoreel/internal/media/wavinfo"
	"demoreel/internal/services"
	"demoreel/internal/textutil"
	"demoreel/internal/timeline"
)

const (
	stageName        = "sync"
	overrunTolerance = 0.05
)

// Prober measures media files. Failures surface as MediaInfo.Probed=false.
type Prober interface {
	Probe(ctx context.Context, path string) ffprobe.MediaInfo
}

// Transcoder runs one transcoder invocation.
type Transcoder interface {
	Run(ctx context.Context, args []string) error
}

// Progress is reported after each beat completes.
type Progress struct {
	Done   int
	Total  int
	Result Result
}

// Options configure a synchronization run.
type Options struct {
	Master          string
	OutputDir       string
	Resolver        timeline.AudioResolver
	Encoding        ffmpeg.Encoding
	OverrunPolicy   string
	RetryAttempts   int
	RetryDelay      time.Duration
	Placeholders    bool
	PlaceholderRate int
	Progress        func(Progress)
}

// OptionsFromConfig builds Options from configuration. Master and Progress
// are left for the caller.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir: cfg.Paths.OutputDir,
		Resolver:  timeline.AudioResolver{Dir: cfg.Paths.AudioDir, Names: cfg.AudioNames},
		Encoding: ffmpeg.Encoding{
			VideoCodec:   cfg.Sync.VideoCodec,
			VideoProfile: cfg.Sync.VideoProfile,
			Preset:       cfg.Sync.Preset,
			CRF:          cfg.Sync.CRF,
			PixelFormat:  cfg.Sync.PixelFormat,
			AudioCodec:   cfg.Sync.AudioCodec,
			AudioBitrate: cfg.Sync.AudioBitrate,
		},
		OverrunPolicy:   cfg.Sync.OverrunPolicy,
		RetryAttempts:   cfg.Sync.RetryAttempts,
		RetryDelay:      cfg.RetryDelay(),
		Placeholders:    cfg.Sync.PlaceholderAudio,
		PlaceholderRate: cfg.Sync.PlaceholderSampleRate,
	}
}

// Synchronizer produces one muxed output file per beat.
type Synchronizer struct {
	opts       Options
	prober     Prober
	transcoder Transcoder
	logger     *slog.Logger
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time
}

// New constructs a Synchronizer.
func New(opts Options, prober Prober, transcoder Transcoder, logger *slog.Logger) *Synchronizer {
	if opts.OverrunPolicy == "" {
		opts.OverrunPolicy = config.OverrunFreeze
	}
	return &Synchronizer{
		opts:       opts,
		prober:     prober,
		transcoder: transcoder,
		logger:     logging.NewComponentLogger(logger, "sync"),
		sleep:      sleepContext,
		now:        time.Now,
	}
}

// Run syncs every beat of plan against the master recording. The error is
// non-nil only when the run cannot start; per-beat failures live in the
// report.
func (s *Synchronizer) Run(ctx context.Context, plan timeline.Plan) (Report, error) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, s.logger)

	report := Report{
		RunID:         runID,
		StartedAt:     s.now(),
		Master:        s.opts.Master,
		OverrunPolicy: s.opts.OverrunPolicy,
		Results:       make([]Result, 0, plan.Len()),
	}

	if !fileutil.Exists(s.opts.Master) {
		return report, services.Wrap(services.ErrMissingInput, stageName, "open master",
			fmt.Sprintf("master video not found: %s", s.opts.Master), nil)
	}
	if plan.Len() == 0 {
		return report, services.Wrap(services.ErrConfiguration, stageName, "load plan", "plan has no beats", nil)
	}
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return report, services.Wrap(services.ErrConfiguration, stageName, "prepare output", s.opts.OutputDir, err)
	}

	master := s.prober.Probe(ctx, s.opts.Master)
	report.MasterDuration = master.DurationSeconds
	if !master.Probed || master.DurationSeconds <= 0 {
		logging.WarnWithContext(logger, "master duration unknown; window bounds will not be checked", "master_probe_degraded",
			logging.String("master", s.opts.Master),
			logging.String(logging.FieldImpact, "beats past the end of the recording may be truncated by ffmpeg"),
		)
	}

	report.Findings = timeline.Check(plan, report.MasterDuration)
	for _, f := range report.Findings {
		logging.WarnWithContext(logger, "timeline check: "+f.Message, "timeline_"+f.Kind,
			logging.String(logging.FieldBeatID, f.BeatID),
			logging.String(logging.FieldImpact, "advisory only; sync continues"),
		)
	}

	logger.Info("sync started",
		logging.String("master", s.opts.Master),
		logging.Float64("master_duration", report.MasterDuration),
		logging.Int("beats", plan.Len()),
		logging.String("overrun_policy", s.opts.OverrunPolicy),
	)

	for i, beat := range plan.Beats {
		result := s.syncBeat(ctx, i, beat, report.MasterDuration)
		report.Results = append(report.Results, result)
		if s.opts.Progress != nil {
			s.opts.Progress(Progress{Done: i + 1, Total: plan.Len(), Result: result})
		}
	}

	report.FinishedAt = s.now()
	logger.Info("sync finished",
		logging.Int("succeeded", report.Succeeded()),
		logging.Int("failed", report.Failed()),
		logging.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
	return report, nil
}

func (s *Synchronizer) syncBeat(ctx context.Context, index int, beat timeline.Beat, masterDuration float64) Result {
	ctx = services.WithBeatID(ctx, beat.ID)
	logger := logging.WithContext(ctx, s.logger)

	result := Result{
		BeatID:          beat.ID,
		Title:           beat.Title,
		Start:           beat.Start,
		PlannedDuration: beat.Duration,
		ActualDuration:  beat.Duration,
		AudioPath:       s.opts.Resolver.Resolve(beat),
		OutputPath:      filepath.Join(s.opts.OutputDir, OutputName(index, beat)),
	}

	fail := func(err error) Result {
		result.Success = false
		result.Error = err.Error()
		result.FailureKind = services.Classify(err)
		logging.ErrorWithContext(logger, "beat sync failed", "beat_sync_failed",
			logging.Error(err),
			logging.String("failure_kind", result.FailureKind),
			logging.String(logging.FieldErrorHint, hintFor(result.FailureKind)),
		)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(services.Wrap(services.ErrTimeout, stageName, "start beat", "run deadline reached before this beat", err))
	}

	if !fileutil.Exists(result.AudioPath) {
		if !s.opts.Placeholders {
			return fail(services.Wrap(services.ErrMissingInput, stageName, "resolve audio",
				fmt.Sprintf("audio file not found: %s", result.AudioPath), nil))
		}
		if err := s.writePlaceholder(result.AudioPath, beat.Duration); err != nil {
			return fail(services.Wrap(services.ErrMissingInput, stageName, "placeholder audio",
				fmt.Sprintf("audio file not found and placeholder failed: %s", result.AudioPath), err))
		}
		result.Placeholder = true
		logging.WarnWithContext(logger, "narration missing; wrote silent placeholder", "placeholder_audio",
			logging.String("audio", result.AudioPath),
			logging.Float64("seconds", beat.Duration),
			logging.String(logging.FieldImpact, "beat will have no narration"),
		)
	}

	audio := s.prober.Probe(ctx, result.AudioPath)
	result.AudioDuration = audio.DurationSeconds
	result.ActualDuration = max(beat.Duration, audio.DurationSeconds)

	freeze := 0.0
	if masterDuration > 0 {
		if beat.Start >= masterDuration {
			return fail(services.Wrap(services.ErrValidation, stageName, "check window",
				fmt.Sprintf("beat starts at %.2fs but the master is only %.2fs long", beat.Start, masterDuration), nil))
		}
		if overrun := beat.Start + result.ActualDuration - masterDuration; overrun > overrunTolerance {
			result.Overrun = overrun
			if s.opts.OverrunPolicy == config.OverrunError {
				return fail(services.Wrap(services.ErrValidation, stageName, "check window",
					fmt.Sprintf("window ends %.2fs past the end of the master", overrun), nil))
			}
			freeze = overrun
			logging.WarnWithContext(logger, "window runs past the master; freezing last frame", "window_overrun",
				logging.Float64("overrun_seconds", overrun),
				logging.String(logging.FieldImpact, "final frame is held while narration finishes"),
			)
		}
	}

	if err := os.Remove(result.OutputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fail(services.Wrap(services.ErrConfiguration, stageName, "clear stale output", result.OutputPath, err))
	}

	args := ffmpeg.SegmentArgs(ffmpeg.SegmentRequest{
		Source:        s.opts.Master,
		Audio:         result.AudioPath,
		Output:        result.OutputPath,
		Start:         beat.Start,
		Duration:      result.ActualDuration,
		FreezeSeconds: freeze,
		Encoding:      s.opts.Encoding,
	})
	if err := s.transcode(ctx, logger, args, &result.Attempts); err != nil {
		return fail(err)
	}

	size, err := fileutil.NonEmptyFile(result.OutputPath)
	if err != nil {
		return fail(services.Wrap(services.ErrMalformedOutput, stageName, "verify output", "transcoder produced no usable file", err))
	}
	result.SizeBytes = size
	result.Success = true
	logger.Info("beat synchronized",
		logging.String("output", result.OutputPath),
		logging.Float64("planned", beat.Duration),
		logging.Float64("audio", result.AudioDuration),
		logging.Float64("synced", result.ActualDuration),
		logging.Int64("size_bytes", result.SizeBytes),
		logging.Int("attempts", result.Attempts),
	)
	return result
}

func (s *Synchronizer) transcode(ctx context.Context, logger *slog.Logger, args []string, attempts *int) error {
	maxAttempts := 1 + max(s.opts.RetryAttempts, 0)
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		*attempts = attempt
		lastErr = s.transcoder.Run(ctx, args)
		if lastErr == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return services.Wrap(services.ErrTimeout, stageName, "transcode", "run deadline reached", lastErr)
		}
		if attempt < maxAttempts {
			logging.WarnWithContext(logger, "transcode attempt failed; retrying", "transcode_retry",
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", maxAttempts),
				logging.Error(lastErr),
			)
			if err := s.sleep(ctx, s.opts.RetryDelay); err != nil {
				return services.Wrap(services.ErrTimeout, stageName, "transcode", "run deadline reached while waiting to retry", err)
			}
		}
	}
	return services.Wrap(services.ErrExternalTool, stageName, "transcode",
		fmt.Sprintf("ffmpeg failed after %d attempt(s)", maxAttempts), lastErr)
}

func (s *Synchronizer) writePlaceholder(path string, seconds float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return wavinfo.WriteSilence(path, seconds, s.opts.PlaceholderRate)
}

// OutputName is the per-beat output file name; the index prefix keeps
// directory listings in beat order.
func OutputName(index int, beat timeline.Beat) string {
	name := textutil.SanitizeFileName(beat.ID)
	if name == "" {
		name = "beat"
	}
	return fmt.Sprintf("%02d-%s.mp4", index+1, name)
}

func hintFor(kind string) string {
	switch kind {
	case services.KindMissingInput:
		return "generate the narration file or rerun with --placeholders"
	case services.KindExternalTool:
		return "check the ffmpeg error above and the master recording"
	case services.KindMalformedOutput:
		return "check free disk space and ffmpeg output"
	case services.KindValidation:
		return "adjust the beat window or set overrun_policy = \"freeze\""
	case services.KindTimeout:
		return "raise sync.run_timeout_seconds"
	default:
		return "check logs for details"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
