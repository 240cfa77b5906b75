package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"demoreel/internal/config"
	"demoreel/internal/logging"
	"demoreel/internal/timeline"
)

// loadPlan returns the storyboard plan when a storyboard is named, otherwise
// the configured beat table.
func loadPlan(cfg *config.Config, storyboard string, logger *slog.Logger) (timeline.Plan, error) {
	path := strings.TrimSpace(storyboard)
	if path == "" {
		path = strings.TrimSpace(cfg.Paths.Storyboard)
	}
	if path == "" {
		return timeline.FromConfig(cfg.Beats), nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return timeline.Plan{}, fmt.Errorf("resolve storyboard path: %w", err)
	}
	plan, diags, err := parseStoryboardFile(expanded)
	if err != nil {
		return timeline.Plan{}, err
	}
	for _, d := range diags {
		logging.WarnWithContext(logger, "storyboard line ignored", "storyboard_diagnostic",
			logging.String("storyboard", expanded),
			logging.Int("line", d.Line),
			logging.String("reason", d.Reason),
			logging.String(logging.FieldErrorHint, "fix the storyboard line or scene header"),
		)
	}
	if plan.Len() == 0 {
		return timeline.Plan{}, fmt.Errorf("storyboard %s contains no usable scenes", expanded)
	}
	return plan, nil
}

func parseStoryboardFile(path string) (timeline.Plan, []timeline.Diagnostic, error) {
	file, err := os.Open(path)
	if err != nil {
		return timeline.Plan{}, nil, fmt.Errorf("open storyboard: %w", err)
	}
	defer file.Close()
	return timeline.ParseStoryboard(file)
}
