package history

import (
	"context"

	"demoreel/internal/beatsync"
	"demoreel/internal/validation"
)

// FromSync converts a sync report into a run row and its beat rows.
func FromSync(report beatsync.Report, reportPath string) (Run, []BeatRecord) {
	run := Run{
		ID:         report.RunID,
		Kind:       KindSync,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		Status:     StatusSucceeded,
		Master:     report.Master,
		Succeeded:  report.Succeeded(),
		Failed:     report.Failed(),
		ReportPath: reportPath,
	}
	if !report.OK() {
		run.Status = StatusFailed
	}
	beats := make([]BeatRecord, 0, len(report.Results))
	for _, res := range report.Results {
		beats = append(beats, BeatRecord{
			BeatID:   res.BeatID,
			Success:  res.Success,
			Duration: res.ActualDuration,
			Error:    res.Error,
		})
	}
	return run, beats
}

// FromValidation converts a validation outcome into a run row and its beat rows.
func FromValidation(outcome validation.Outcome, reportPath string) (Run, []BeatRecord) {
	overall := outcome.Video.Overall
	meets := outcome.Video.MeetsStandards
	run := Run{
		ID:             outcome.RunID,
		Kind:           KindValidate,
		StartedAt:      outcome.StartedAt,
		FinishedAt:     outcome.FinishedAt,
		Status:         StatusSucceeded,
		Master:         outcome.CombinedVideo,
		Overall:        &overall,
		MeetsStandards: &meets,
		Succeeded:      outcome.Counts.Pass + outcome.Counts.Warn,
		Failed:         outcome.Counts.Fail,
		ReportPath:     reportPath,
	}
	if !outcome.OK() {
		run.Status = StatusFailed
	}
	beats := make([]BeatRecord, 0, len(outcome.Beats))
	for _, b := range outcome.Beats {
		score := b.Score
		rec := BeatRecord{
			BeatID:   b.BeatID,
			Success:  b.Passed,
			Duration: b.Duration(),
			Score:    &score,
		}
		if len(b.Issues) > 0 {
			rec.Error = b.Issues[0]
		}
		beats = append(beats, rec)
	}
	return run, beats
}

// RecordSync stores a sync report.
func (s *Store) RecordSync(ctx context.Context, report beatsync.Report, reportPath string) error {
	run, beats := FromSync(report, reportPath)
	return s.Record(ctx, run, beats)
}

// RecordValidation stores a validation outcome.
func (s *Store) RecordValidation(ctx context.Context, outcome validation.Outcome, reportPath string) error {
	run, beats := FromValidation(outcome, reportPath)
	return s.Record(ctx, run, beats)
}
