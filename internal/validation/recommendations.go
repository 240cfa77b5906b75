package validation

import (
	"fmt"
	"strings"
)

// Recommendations turns an outcome into actionable follow-ups. The list is
// empty when the video meets standards and every beat passed cleanly.
func Recommendations(o Outcome) []string {
	recs := []string{}
	std := o.Standards
	v := o.Video

	if v.TechnicalAccuracy < std.MinTechnicalAccuracy {
		recs = append(recs, fmt.Sprintf("Re-export %d beat(s) flagged for rework; technical accuracy is %d", v.ReworkBeats, v.TechnicalAccuracy))
	}
	if v.VisualQuality < std.MinVisualQuality {
		recs = append(recs, fmt.Sprintf("Raise capture resolution to %dx%d and framerate to at least %.0f fps", std.ExpectedWidth, std.ExpectedHeight, std.MinFramerate))
	}
	if v.Pacing < std.MinPacing {
		recs = append(recs, fmt.Sprintf("Tighten pacing toward %.0fs total with beats between %.0fs and %.0fs", std.TargetDurationSeconds, std.BeatMinSeconds, std.BeatMaxSeconds))
	}
	if v.Engagement < std.MinEngagement {
		recs = append(recs, "Vary beat lengths and fix failing beats to lift engagement")
	}
	if v.DurationSeconds < std.MinDurationSeconds || v.DurationSeconds > std.MaxDurationSeconds {
		recs = append(recs, fmt.Sprintf("Adjust total runtime %.1fs into the %.0fs-%.0fs window", v.DurationSeconds, std.MinDurationSeconds, std.MaxDurationSeconds))
	}
	if len(o.Topics.Missing) > 0 {
		recs = append(recs, "Cover missing narration topics: "+strings.Join(o.Topics.Missing, ", "))
	}
	if len(o.Topics.Forbidden) > 0 {
		recs = append(recs, "Remove forbidden narration topics: "+strings.Join(o.Topics.Forbidden, ", "))
	}
	for _, b := range o.Beats {
		if b.NeedsRework {
			recs = append(recs, fmt.Sprintf("Rework beat %s (score %d): %s", b.BeatID, b.Score, strings.Join(b.Issues, "; ")))
		}
	}
	if o.Synthesized && o.CombinedVideo == "" && len(o.Beats) > 0 {
		recs = append(recs, "Assemble the final video so whole-video checks run against real media")
	}
	return recs
}
