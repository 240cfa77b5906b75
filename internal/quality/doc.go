// Package quality scores probed beat and video media against fixed standards.
//
// Everything here is pure: the same MediaInfo and Standards always produce the
// same BeatValidation and VideoValidation. Beats start at 100 and lose points
// for issues and warnings; the whole video is scored in four categories whose
// rounded mean is the overall score. MeetsStandards is conjunctive: every
// category, the overall score, and the total duration must each clear their
// own threshold.
package quality
