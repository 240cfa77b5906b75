package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"demoreel/internal/history"
	"demoreel/internal/report"
)

type runDetail struct {
	Run   history.Run          `json:"run"`
	Beats []history.BeatRecord `json:"beats"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded sync and validate runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				if store == nil {
					return errors.New("run history is disabled in configuration")
				}
				if id := strings.TrimSpace(runID); id != "" {
					run, err := store.Get(commandCtx(cmd), id)
					if err != nil {
						return err
					}
					beats, err := store.Beats(commandCtx(cmd), id)
					if err != nil {
						return err
					}
					if jsonOutput {
						return writeJSON(cmd, runDetail{Run: run, Beats: beats})
					}
					renderRunDetail(cmd, run, beats)
					return nil
				}

				runs, err := store.Recent(commandCtx(cmd), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					if runs == nil {
						runs = []history.Run{}
					}
					return writeJSON(cmd, runs)
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						run.ID,
						run.Kind,
						run.StartedAt.Local().Format("2006-01-02 15:04:05"),
						run.Elapsed().Round(time.Second).String(),
						run.Status,
						fmt.Sprintf("%d/%d", run.Succeeded, run.Succeeded+run.Failed),
						scoreText(run),
					})
				}
				fmt.Fprintln(out, report.RenderTable(
					[]string{"Run", "Kind", "Started", "Elapsed", "Status", "Beats", "Overall"},
					rows,
					report.Columns(7, 3, 5, 6),
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show the beats of one run")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print runs as JSON")
	return cmd
}

func renderRunDetail(cmd *cobra.Command, run history.Run, beats []history.BeatRecord) {
	out := cmd.OutOrStdout()
	colorize := report.ShouldColorize(out)
	lines := report.SectionHeader(fmt.Sprintf("%s run %s", run.Kind, run.ID), colorize)
	lines = append(lines, report.StatusLine("Status", runKind(run.Status), run.Status, colorize))
	if run.Master != "" {
		lines = append(lines, report.StatusLine("Media", report.KindInfo, run.Master, colorize))
	}
	if run.MeetsStandards != nil {
		lines = append(lines, report.StatusLine("Meets standards", report.KindInfo, yesNo(*run.MeetsStandards), colorize))
	}
	if run.ReportPath != "" {
		lines = append(lines, report.StatusLine("Report", report.KindInfo, run.ReportPath, colorize))
	}
	rows := make([][]string, 0, len(beats))
	for _, b := range beats {
		score := ""
		if b.Score != nil {
			score = strconv.Itoa(*b.Score)
		}
		rows = append(rows, []string{b.BeatID, yesNo(b.Success), fmt.Sprintf("%.1fs", b.Duration), score, b.Error})
	}
	lines = append(lines, report.RenderTable([]string{"Beat", "OK", "Duration", "Score", "Error"}, rows, report.Columns(5, 2, 3)))
	fmt.Fprintln(out, strings.Join(lines, "\n"))
}

func scoreText(run history.Run) string {
	if run.Overall == nil {
		return "-"
	}
	return strconv.Itoa(*run.Overall)
}
