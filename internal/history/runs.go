package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run kinds.
const (
	KindSync     = "sync"
	KindValidate = "validate"
)

// Run statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// ErrRunNotFound is returned when a run id is unknown.
var ErrRunNotFound = errors.New("run not found")

// Run summarizes one sync or validate invocation.
type Run struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	StartedAt      time.Time `json:"started_at"`
	FinishedAt     time.Time `json:"finished_at"`
	Status         string    `json:"status"`
	Master         string    `json:"master,omitempty"`
	Overall        *int      `json:"overall,omitempty"`
	MeetsStandards *bool     `json:"meets_standards,omitempty"`
	Succeeded      int       `json:"succeeded"`
	Failed         int       `json:"failed"`
	ReportPath     string    `json:"report_path,omitempty"`
}

// Elapsed returns the wall-clock run time.
func (r Run) Elapsed() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// BeatRecord is one beat's outcome within a run.
type BeatRecord struct {
	BeatID   string  `json:"beat_id"`
	Success  bool    `json:"success"`
	Duration float64 `json:"duration"`
	Score    *int    `json:"score,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// timestampLayout is fixed width so started_at orders correctly as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "id, kind, started_at, finished_at, status, master, overall, meets_standards, succeeded, failed, report_path"

// Record stores a run and its beats in one transaction.
func (s *Store) Record(ctx context.Context, run Run, beats []BeatRecord) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO runs ("+runColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			run.ID,
			run.Kind,
			run.StartedAt.UTC().Format(timestampLayout),
			run.FinishedAt.UTC().Format(timestampLayout),
			run.Status,
			nullableString(run.Master),
			nullableInt(run.Overall),
			nullableBool(run.MeetsStandards),
			run.Succeeded,
			run.Failed,
			nullableString(run.ReportPath),
		); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
		for i, beat := range beats {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO beat_results (run_id, position, beat_id, success, duration, score, error) VALUES (?, ?, ?, ?, ?, ?, ?)",
				run.ID, i, beat.BeatID, boolToInt(beat.Success), beat.Duration, nullableInt(beat.Score), nullableString(beat.Error),
			); err != nil {
				return fmt.Errorf("insert beat %s: %w", beat.BeatID, err)
			}
		}
		return tx.Commit()
	})
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, "SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns a single run.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE id = ?", id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// Beats returns the beat records of a run in their original order.
func (s *Store) Beats(ctx context.Context, runID string) ([]BeatRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		"SELECT beat_id, success, duration, score, error FROM beat_results WHERE run_id = ? ORDER BY position", runID)
	if err != nil {
		return nil, fmt.Errorf("query beats: %w", err)
	}
	defer rows.Close()

	var beats []BeatRecord
	for rows.Next() {
		var (
			rec     BeatRecord
			success int
			score   sql.NullInt64
			errText sql.NullString
		)
		if err := rows.Scan(&rec.BeatID, &success, &rec.Duration, &score, &errText); err != nil {
			return nil, fmt.Errorf("scan beat: %w", err)
		}
		rec.Success = success != 0
		if score.Valid {
			v := int(score.Int64)
			rec.Score = &v
		}
		rec.Error = errText.String
		beats = append(beats, rec)
	}
	return beats, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  string
		finishedRaw string
		master      sql.NullString
		overall     sql.NullInt64
		meets       sql.NullInt64
		reportPath  sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Kind,
		&startedRaw,
		&finishedRaw,
		&run.Status,
		&master,
		&overall,
		&meets,
		&run.Succeeded,
		&run.Failed,
		&reportPath,
	); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	run.Master = master.String
	run.ReportPath = reportPath.String
	if overall.Valid {
		v := int(overall.Int64)
		run.Overall = &v
	}
	if meets.Valid {
		v := meets.Int64 != 0
		run.MeetsStandards = &v
	}
	return run, nil
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullableBool(value *bool) any {
	if value == nil {
		return nil
	}
	return boolToInt(*value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
