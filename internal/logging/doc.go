// Package logging assembles structured slog loggers and formatting helpers used
// across demoreel.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log
// lines with run IDs, stages, and beat IDs. The console handler lifts the
// component and beat into a readable prefix; the JSON handler keeps every
// field for machine consumption. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
