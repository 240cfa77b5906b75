// Package logs reads the demoreel log file for the CLI.
//
// Last returns the final N lines with bounded memory, Follow polls for lines
// appended after an offset until its context ends, and Filter narrows lines by
// level or beat for both the console and JSON log formats.
package logs
