package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"demoreel/internal/beatsync"
	"demoreel/internal/config"
	"demoreel/internal/deps"
	"demoreel/internal/history"
	"demoreel/internal/logging"
	"demoreel/internal/media/ffmpeg"
	"demoreel/internal/media/ffprobe"
	"demoreel/internal/preflight"
	"demoreel/internal/report"
	"demoreel/internal/runlock"
	"demoreel/internal/services"
)

const defaultFinalName = "demo-final.mp4"

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var storyboard string
	var placeholders bool
	var assemble bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync [master]",
		Short: "Cut each beat from the master recording and mux its narration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			explicit := cfg.Paths.MasterVideo
			if len(args) == 1 {
				explicit = args[0]
			}
			master, err := preflight.ResolveMaster(explicit, cfg.Paths.CaptureDir)
			if err != nil {
				return services.Wrap(services.ErrMissingInput, "sync", "resolve master", "no usable master recording", err)
			}

			plan, err := loadPlan(cfg, storyboard, logger)
			if err != nil {
				return err
			}

			lock, err := runlock.Acquire(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			defer func() { _ = lock.Release() }()

			if err := checkReady(commandCtx(cmd), cfg, master, placeholders || cfg.Sync.PlaceholderAudio); err != nil {
				return err
			}

			runCtx, cancel := withRunTimeout(commandCtx(cmd), cfg.RunTimeout())
			defer cancel()
			runCtx = services.WithRunID(runCtx, uuid.NewString())

			opts := beatsync.OptionsFromConfig(cfg)
			opts.Master = master
			if placeholders {
				opts.Placeholders = true
			}
			stderr := cmd.ErrOrStderr()
			progress, finish := newSyncProgress(stderr, plan.Len(), !jsonOutput && report.ShouldColorize(stderr))
			opts.Progress = progress

			syncer := beatsync.New(opts,
				ffprobe.NewProber(cfg.FFprobeBinary(), logger),
				ffmpeg.NewTranscoder(cfg.FFmpegBinary()),
				logger,
			)
			result, err := syncer.Run(runCtx, plan)
			finish()
			if err != nil {
				return err
			}

			if assemble || cfg.Sync.Assemble {
				finalPath := finalVideoPath(cfg)
				if err := syncer.Assemble(runCtx, result, finalPath); err != nil {
					logging.ErrorWithContext(logging.WithContext(runCtx, logger), "final assembly failed", "assemble_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "inspect the beat outputs and rerun with --assemble"),
					)
				} else {
					result.FinalVideo = finalPath
				}
			}

			reportPath := report.SyncPath(cfg.Paths.ReportDir)
			if err := report.WriteJSON(reportPath, result); err != nil {
				return err
			}
			recordHistory(runCtx, ctx, func(store *history.Store) error {
				return store.RecordSync(runCtx, result, reportPath)
			})

			if jsonOutput {
				if err := writeJSON(cmd, result); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				report.SyncSummary(out, result, report.ShouldColorize(out))
				fmt.Fprintf(out, "\nReport written to %s\n", reportPath)
			}

			if !result.OK() {
				return fmt.Errorf("%d of %d beats failed to synchronize", result.Failed(), len(result.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&storyboard, "storyboard", "", "Markdown storyboard to use instead of the configured beats")
	cmd.Flags().BoolVar(&placeholders, "placeholders", false, "Generate silent narration for beats whose audio is missing")
	cmd.Flags().BoolVar(&assemble, "assemble", false, "Concatenate successful beats into the final video")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the sync report as JSON")
	return cmd
}

// checkReady fails when a blocking preflight check or a required binary is
// missing.
func checkReady(ctx context.Context, cfg *config.Config, master string, placeholders bool) error {
	var problems []string
	for _, r := range preflight.Blocking(preflight.SyncChecks(cfg, master, placeholders)) {
		problems = append(problems, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	statuses := deps.CheckBinaries(ctx, deps.MediaRequirements(cfg.FFmpegBinary(), cfg.FFprobeBinary()))
	for _, name := range deps.MissingRequired(statuses) {
		problems = append(problems, name+" is not installed")
	}
	if len(problems) > 0 {
		return services.Wrap(services.ErrConfiguration, "sync", "preflight", strings.Join(problems, "; "), nil)
	}
	return nil
}

func finalVideoPath(cfg *config.Config) string {
	if path := strings.TrimSpace(cfg.Paths.FinalVideo); path != "" {
		return path
	}
	return filepath.Join(cfg.Paths.ReportDir, defaultFinalName)
}

// withRunTimeout bounds a run; a zero timeout leaves it unbounded.
func withRunTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// recordHistory stores a run when history is enabled. Failures are logged and
// never fail the command.
func recordHistory(ctx context.Context, c *commandContext, fn func(*history.Store) error) {
	err := c.withHistory(func(store *history.Store) error {
		if store == nil {
			return nil
		}
		return fn(store)
	})
	if err == nil {
		return
	}
	logger, _ := c.ensureLogger()
	logging.WarnWithContext(logging.WithContext(ctx, logging.NewComponentLogger(logger, "history")), "run history not recorded", "history_write_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "delete the history database if its schema is outdated"),
		logging.String(logging.FieldImpact, "report files are still written"),
	)
}
