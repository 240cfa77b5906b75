package timeline

import (
	"fmt"
	"sort"

	"demoreel/internal/textutil"
)

// Finding kinds reported by Check.
const (
	FindingDuplicateID      = "duplicate_id"
	FindingNonPositive      = "non_positive_duration"
	FindingGap              = "gap"
	FindingOverlap          = "overlap"
	FindingBeyondMaster     = "beyond_master"
	FindingOverrunsMaster   = "overruns_master"
	FindingRepeatsNarration = "repeated_narration"
)

const (
	timingTolerance     = 0.001
	narrationSimilarity = 0.9
)

// Finding is an advisory observation about a plan.
type Finding struct {
	Kind    string `json:"kind"`
	BeatID  string `json:"beat_id,omitempty"`
	Message string `json:"message"`
}

// Check reports structural problems in plan. masterDuration <= 0 skips the
// bounds checks against the master recording.
func Check(plan Plan, masterDuration float64) []Finding {
	var findings []Finding
	seen := make(map[string]bool, len(plan.Beats))
	for _, b := range plan.Beats {
		if seen[b.ID] {
			findings = append(findings, Finding{Kind: FindingDuplicateID, BeatID: b.ID, Message: fmt.Sprintf("beat id %q appears more than once", b.ID)})
		}
		seen[b.ID] = true
		if b.Duration <= 0 {
			findings = append(findings, Finding{Kind: FindingNonPositive, BeatID: b.ID, Message: fmt.Sprintf("duration %.2fs is not positive", b.Duration)})
		}
		if masterDuration > 0 {
			switch {
			case b.Start >= masterDuration:
				findings = append(findings, Finding{Kind: FindingBeyondMaster, BeatID: b.ID, Message: fmt.Sprintf("starts at %.2fs, past the %.2fs master recording", b.Start, masterDuration)})
			case b.End() > masterDuration+timingTolerance:
				findings = append(findings, Finding{Kind: FindingOverrunsMaster, BeatID: b.ID, Message: fmt.Sprintf("ends at %.2fs, %.2fs past the master recording", b.End(), b.End()-masterDuration)})
			}
		}
	}

	ordered := append([]Beat(nil), plan.Beats...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Start < ordered[j].Start })
	cursor := 0.0
	for i, b := range ordered {
		switch {
		case b.Start > cursor+timingTolerance:
			findings = append(findings, Finding{Kind: FindingGap, BeatID: b.ID, Message: fmt.Sprintf("%.2fs gap before this beat (%.2fs-%.2fs)", b.Start-cursor, cursor, b.Start)})
		case i > 0 && b.Start < cursor-timingTolerance:
			findings = append(findings, Finding{Kind: FindingOverlap, BeatID: b.ID, Message: fmt.Sprintf("overlaps %q by %.2fs", ordered[i-1].ID, cursor-b.Start)})
		}
		cursor = max(cursor, b.End())
	}

	findings = append(findings, repeatedNarration(plan)...)
	return findings
}

func repeatedNarration(plan Plan) []Finding {
	prints := make([]*textutil.Fingerprint, len(plan.Beats))
	for i, b := range plan.Beats {
		prints[i] = textutil.NewFingerprint(b.Narration)
	}
	var findings []Finding
	for i := range plan.Beats {
		for j := i + 1; j < len(plan.Beats); j++ {
			if textutil.CosineSimilarity(prints[i], prints[j]) >= narrationSimilarity {
				findings = append(findings, Finding{
					Kind:    FindingRepeatsNarration,
					BeatID:  plan.Beats[j].ID,
					Message: fmt.Sprintf("narration nearly repeats %q", plan.Beats[i].ID),
				})
			}
		}
	}
	return findings
}
