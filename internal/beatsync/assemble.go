package beatsync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"demoreel/internal/fileutil"
	"demoreel/internal/logging"
	"demoreel/internal/media/ffmpeg"
	"demoreel/internal/services"
)

// Assemble concatenates the report's successful outputs, in beat order, into
// finalPath without re-encoding.
func (s *Synchronizer) Assemble(ctx context.Context, report Report, finalPath string) error {
	outputs := report.Outputs()
	if len(outputs) == 0 {
		return services.Wrap(services.ErrMissingInput, "assemble", "collect outputs", "no successful beats to assemble", nil)
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "assemble", "prepare output", filepath.Dir(finalPath), err)
	}

	list, err := os.CreateTemp(s.opts.OutputDir, ".concat-*.txt")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "assemble", "create concat list", "", err)
	}
	listPath := list.Name()
	_ = list.Close()
	defer os.Remove(listPath)

	if err := ffmpeg.WriteConcatList(listPath, outputs); err != nil {
		return services.Wrap(services.ErrConfiguration, "assemble", "write concat list", listPath, err)
	}
	if err := s.transcoder.Run(ctx, ffmpeg.ConcatArgs(listPath, finalPath)); err != nil {
		return services.Wrap(services.ErrExternalTool, "assemble", "concat", "ffmpeg concat failed", err)
	}
	if _, err := fileutil.NonEmptyFile(finalPath); err != nil {
		return services.Wrap(services.ErrMalformedOutput, "assemble", "verify output", finalPath, err)
	}

	logging.WithContext(ctx, s.logger).Info("final video assembled",
		logging.String("output", finalPath),
		logging.Int("beats", len(outputs)),
		logging.Int("skipped", report.Failed()),
		logging.String(logging.FieldEventType, "assembly_complete"),
	)
	if report.Failed() > 0 {
		logging.WarnWithContext(s.logger, fmt.Sprintf("final video omits %d failed beat(s)", report.Failed()), "assembly_incomplete",
			logging.String(logging.FieldImpact, "final video is shorter than planned"),
		)
	}
	return nil
}
