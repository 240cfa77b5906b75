// Package report persists run reports as JSON and renders them for the
// terminal.
//
// JSON files are written atomically so a crashed run never leaves a torn
// report behind. Console rendering uses rounded go-pretty tables and only
// emits ANSI colour when the destination is a terminal.
package report
