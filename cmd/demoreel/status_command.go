package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"demoreel/internal/config"
	"demoreel/internal/deps"
	"demoreel/internal/history"
	"demoreel/internal/preflight"
	"demoreel/internal/report"
)

type statusView struct {
	ConfigPath   string             `json:"config_path"`
	ConfigExists bool               `json:"config_exists"`
	Dependencies []deps.Status      `json:"dependencies"`
	Checks       []preflight.Result `json:"checks"`
	Beats        int                `json:"beats"`
	History      bool               `json:"history_enabled"`
	LastRun      *history.Run       `json:"last_run,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show tool availability, directory checks, and the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			view := statusView{
				Dependencies: deps.CheckBinaries(commandCtx(cmd), deps.MediaRequirements(cfg.FFmpegBinary(), cfg.FFprobeBinary())),
				Checks:       preflight.RunAll(cfg),
				Beats:        len(cfg.Beats),
				History:      cfg.History.Enabled,
			}
			path := ""
			if ctx.configFlag != nil {
				path = strings.TrimSpace(*ctx.configFlag)
			}
			if _, resolved, exists, err := config.Load(path); err == nil {
				view.ConfigPath, view.ConfigExists = resolved, exists
			}
			_ = ctx.withHistory(func(store *history.Store) error {
				if store == nil {
					return nil
				}
				runs, err := store.Recent(commandCtx(cmd), 1)
				if err == nil && len(runs) > 0 {
					view.LastRun = &runs[0]
				}
				return err
			})

			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			colorize := report.ShouldColorize(out)
			lines := report.SectionHeader("demoreel status", colorize)

			configMsg := view.ConfigPath
			configKind := report.KindOK
			if !view.ConfigExists {
				configMsg = "defaults (no file at " + view.ConfigPath + ")"
				configKind = report.KindInfo
			}
			lines = append(lines, report.StatusLine("Config", configKind, configMsg, colorize))
			lines = append(lines, report.StatusLine("Beats", report.KindInfo, fmt.Sprintf("%d configured", view.Beats), colorize))

			for _, dep := range view.Dependencies {
				kind, msg := report.KindOK, dep.Version
				if !dep.Available {
					kind, msg = report.KindError, dep.Detail
				}
				lines = append(lines, report.StatusLine(dep.Name, kind, msg, colorize))
			}
			for _, check := range view.Checks {
				kind := report.KindOK
				if !check.Passed {
					kind = report.KindError
					if check.Advisory {
						kind = report.KindWarn
					}
				}
				lines = append(lines, report.StatusLine(check.Name, kind, check.Detail, colorize))
			}

			switch {
			case !view.History:
				lines = append(lines, report.StatusLine("History", report.KindWarn, "Disabled", colorize))
			case view.LastRun == nil:
				lines = append(lines, report.StatusLine("History", report.KindInfo, "No runs recorded", colorize))
			default:
				run := view.LastRun
				lines = append(lines, report.StatusLine("Last run", runKind(run.Status), fmt.Sprintf("%s %s %s (%s)",
					run.Kind, run.Status, run.StartedAt.Local().Format("2006-01-02 15:04"), run.ID), colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print status as JSON")
	return cmd
}

func runKind(status string) report.Kind {
	if status == history.StatusSucceeded {
		return report.KindOK
	}
	return report.KindError
}
