// Package preflight checks the filesystem before a sync run.
//
// The sync command runs RunAll and refuses to start when an input directory is
// unreadable, an output directory is not writable, free space is short, or no
// master recording can be resolved. "demoreel status" prints the same results.
package preflight
