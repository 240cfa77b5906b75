package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"demoreel/internal/logging"
	"demoreel/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var filter logs.Filter

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent demoreel log lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.FileName)
			out := cmd.OutOrStdout()

			// Over-read so filtering still leaves roughly the requested count.
			window := lines
			if filter != (logs.Filter{}) {
				window = lines * 10
			}
			recent, offset, err := logs.Last(path, window)
			if err != nil {
				return err
			}
			var shown []string
			for _, line := range recent {
				if filter.Match(line) {
					shown = append(shown, line)
				}
			}
			if len(shown) > lines {
				shown = shown[len(shown)-lines:]
			}
			for _, line := range shown {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}
			return logs.Follow(commandCtx(cmd), path, offset, 0, func(line string) {
				if filter.Match(line) {
					fmt.Fprintln(out, line)
				}
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&filter.Level, "level", "", "Minimum level to show (debug, info, warn, error)")
	cmd.Flags().StringVar(&filter.BeatID, "beat", "", "Only show lines for this beat id")
	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only show lines for this run id (json log format)")
	return cmd
}
