// Package history persists a summary of every sync and validate run in SQLite.
//
// Reports on disk are overwritten by each run; the history database keeps the
// per-run outcome and per-beat results so earlier runs can be compared. The
// store applies WAL mode and retries briefly on SQLITE_BUSY.
package history
