package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"demoreel/internal/media/ffprobe"
	"demoreel/internal/report"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe FILE...",
		Short: "Show duration, resolution, bitrate, and framerate of media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			prober := ffprobe.NewProber(cfg.FFprobeBinary(), logger)

			infos := make([]ffprobe.MediaInfo, 0, len(args))
			failed := 0
			for _, path := range args {
				info := prober.Probe(commandCtx(cmd), path)
				if !info.Probed {
					failed++
				}
				infos = append(infos, info)
			}

			if jsonOutput {
				if err := writeJSON(cmd, infos); err != nil {
					return err
				}
			} else {
				rows := make([][]string, 0, len(infos))
				for _, info := range infos {
					size := ""
					if info.SizeBytes > 0 {
						size = humanize.IBytes(uint64(info.SizeBytes))
					}
					status := "ok"
					if !info.Probed {
						status = info.Error
					}
					rows = append(rows, []string{
						info.Path,
						fmt.Sprintf("%.2fs", info.DurationSeconds),
						fmt.Sprintf("%dx%d", info.Width, info.Height),
						fmt.Sprintf("%.0f kbps", info.BitrateKbps),
						fmt.Sprintf("%.2f", info.Framerate),
						codecs(info),
						size,
						status,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), report.RenderTable(
					[]string{"File", "Duration", "Resolution", "Bitrate", "FPS", "Codecs", "Size", "Status"},
					rows,
					report.Columns(8, 1, 3, 4, 6),
				))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be probed", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print media info as JSON")
	return cmd
}

func codecs(info ffprobe.MediaInfo) string {
	switch {
	case info.VideoCodec != "" && info.AudioCodec != "":
		return info.VideoCodec + "/" + info.AudioCodec
	case info.VideoCodec != "":
		return info.VideoCodec
	default:
		return info.AudioCodec
	}
}
