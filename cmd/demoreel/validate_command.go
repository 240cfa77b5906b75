package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"demoreel/internal/beatsync"
	"demoreel/internal/config"
	"demoreel/internal/fileutil"
	"demoreel/internal/history"
	"demoreel/internal/logging"
	"demoreel/internal/media/ffprobe"
	"demoreel/internal/quality"
	"demoreel/internal/report"
	"demoreel/internal/services"
	"demoreel/internal/timeline"
	"demoreel/internal/validation"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var beatsDir string
	var syncReport string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate [video]",
		Short: "Score synced beats and the combined video against the quality standards",
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

			combined := finalVideoPath(cfg)
			if len(args) == 1 {
				combined = args[0]
				if !fileutil.Exists(combined) {
					return services.Wrap(services.ErrMissingInput, "validate", "resolve video", combined, errors.New("file not found"))
				}
			}

			files, err := beatFilesFor(cfg, syncReport, beatsDir, combined)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				return services.Wrap(services.ErrMissingInput, "validate", "collect beats", "no beat outputs found; run demoreel sync first", nil)
			}

			plan, err := loadPlan(cfg, "", logger)
			if err != nil {
				logging.WarnWithContext(logger, "storyboard unavailable; using configured narration", "storyboard_unavailable",
					logging.Error(err),
				)
				plan = timeline.FromConfig(cfg.Beats)
			}

			runCtx := services.WithRunID(commandCtx(cmd), uuid.NewString())
			validator := validation.New(ffprobe.NewProber(cfg.FFprobeBinary(), logger), quality.FromConfig(cfg.Quality), logger)
			outcome := validator.Run(runCtx, validation.Request{
				BeatFiles:     files,
				CombinedVideo: combined,
				Narration:     plan.Narration(),
			})

			reportPath := report.ValidationPath(cfg.Paths.ReportDir)
			if err := report.WriteJSON(reportPath, outcome); err != nil {
				return err
			}
			recordHistory(runCtx, ctx, func(store *history.Store) error {
				return store.RecordValidation(runCtx, outcome, reportPath)
			})

			if jsonOutput {
				if err := writeJSON(cmd, outcome); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				report.ValidationSummary(out, outcome, report.ShouldColorize(out))
				fmt.Fprintf(out, "\nReport written to %s\n", reportPath)
			}

			if !outcome.OK() {
				return fmt.Errorf("quality standards not met: overall %d/%d, %d beat(s) need rework",
					outcome.Video.Overall, outcome.Standards.MinOverall, outcome.Counts.Fail)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&beatsDir, "beats-dir", "", "Directory of synced beat files (defaults to output_dir)")
	cmd.Flags().StringVar(&syncReport, "sync-report", "", "Validate the successful beats listed in a sync report")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the validation report as JSON")
	return cmd
}

// beatFilesFor lists beat outputs from a sync report when one is named,
// otherwise from the beats directory.
func beatFilesFor(cfg *config.Config, syncReport, beatsDir, combined string) ([]validation.BeatFile, error) {
	if path := strings.TrimSpace(syncReport); path != "" {
		rep, err := beatsync.LoadReport(path)
		if err != nil {
			return nil, services.Wrap(services.ErrMissingInput, "validate", "load sync report", path, err)
		}
		return validation.FromSyncReport(rep), nil
	}
	dir := strings.TrimSpace(beatsDir)
	if dir == "" {
		dir = cfg.Paths.OutputDir
	}
	files, err := validation.DiscoverBeatFiles(dir, combined)
	if err != nil {
		return nil, services.Wrap(services.ErrMissingInput, "validate", "discover beats", dir, err)
	}
	return files, nil
}
