// Package beatsync cuts each beat's window out of the master recording and
// muxes it with that beat's narration.
//
// Every beat yields a Result whether it succeeds or not; a missing narration
// file, a transcoder failure, or an empty output marks only that beat as
// failed and the run moves on. The synced duration is the longer of the
// planned duration and the narration, so narration is never truncated. When a
// window runs past the end of the master the last frame is frozen, or the
// beat fails if the overrun policy is "error". A beat that starts after the
// master ends always fails.
package beatsync
