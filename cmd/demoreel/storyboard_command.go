package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"demoreel/internal/report"
	"demoreel/internal/timeline"
)

type storyboardView struct {
	Beats       []timeline.Beat       `json:"beats"`
	Diagnostics []timeline.Diagnostic `json:"diagnostics"`
	Findings    []timeline.Finding    `json:"findings"`
	Total       float64               `json:"total_duration"`
}

func newStoryboardCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "storyboard FILE",
		Short: "Parse a markdown storyboard and show the beats it defines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			plan, diags, err := parseStoryboardFile(args[0])
			if err != nil {
				return err
			}
			view := storyboardView{
				Beats:       plan.Beats,
				Diagnostics: diags,
				Findings:    timeline.Check(plan, 0),
				Total:       plan.TotalDuration(),
			}
			if view.Beats == nil {
				view.Beats = []timeline.Beat{}
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			resolver := timeline.AudioResolver{Dir: cfg.Paths.AudioDir, Names: cfg.AudioNames}
			rows := make([][]string, 0, len(plan.Beats))
			for _, b := range plan.Beats {
				rows = append(rows, []string{
					strconv.Itoa(b.Index + 1),
					b.ID,
					b.Title,
					clock(b.Start),
					clock(b.End()),
					strconv.FormatFloat(b.Duration, 'f', 0, 64) + "s",
					resolver.Resolve(b),
				})
			}
			out := cmd.OutOrStdout()
			colorize := report.ShouldColorize(out)
			fmt.Fprintln(out, report.RenderTable(
				[]string{"#", "ID", "Title", "Start", "End", "Length", "Narration audio"},
				rows,
				report.Columns(7, 0, 3, 4, 5),
			))
			for _, d := range diags {
				fmt.Fprintln(out, report.StatusLine(fmt.Sprintf("line %d", d.Line), report.KindWarn, d.Reason, colorize))
			}
			for _, f := range view.Findings {
				fmt.Fprintln(out, report.StatusLine(f.Kind, report.KindWarn, f.Message, colorize))
			}
			fmt.Fprintln(out, report.StatusLine("beats", report.KindInfo, fmt.Sprintf("%d scenes, %s total", plan.Len(), clock(plan.TotalDuration())), colorize))
			if plan.Len() == 0 {
				return fmt.Errorf("storyboard %s contains no usable scenes", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print beats, diagnostics, and findings as JSON")
	return cmd
}

// clock formats seconds as MM:SS.
func clock(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
