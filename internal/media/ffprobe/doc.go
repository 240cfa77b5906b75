// Package ffprobe wraps ffprobe JSON output and flattens it into MediaInfo.
//
// Inspect runs ffprobe as an argument array and decodes its JSON. Prober sits
// on top and never returns an error: a failed probe yields zero values with
// Probed=false and the cause recorded, so callers can tolerate degraded data
// while still telling "probe failed" apart from a zero-length clip.
package ffprobe
