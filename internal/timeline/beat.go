package timeline

import (
	"strings"

	"demoreel/internal/config"
	"demoreel/internal/textutil"
)

// Beat is one named window of the master recording paired with narration.
type Beat struct {
	Index     int      `json:"index"`
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Start     float64  `json:"start"`
	Duration  float64  `json:"duration"`
	Narration string   `json:"narration,omitempty"`
	Actions   []string `json:"actions,omitempty"`
	Callouts  []string `json:"callouts,omitempty"`
	Audio     string   `json:"audio,omitempty"`
}

// End returns the planned end offset in seconds.
func (b Beat) End() float64 {
	return b.Start + b.Duration
}

// Plan is an ordered, read-only sequence of beats.
type Plan struct {
	Beats []Beat `json:"beats"`
}

// FromConfig builds a plan from the configured beat table.
func FromConfig(beats []config.Beat) Plan {
	plan := Plan{Beats: make([]Beat, 0, len(beats))}
	for i, b := range beats {
		plan.Beats = append(plan.Beats, Beat{
			Index:     i,
			ID:        strings.TrimSpace(b.ID),
			Title:     textutil.TitleCase(b.Title),
			Start:     b.Start,
			Duration:  b.Duration,
			Narration: strings.TrimSpace(b.Narration),
			Audio:     strings.TrimSpace(b.Audio),
		})
	}
	return plan
}

// Len returns the number of beats.
func (p Plan) Len() int {
	return len(p.Beats)
}

// TotalDuration sums planned beat durations.
func (p Plan) TotalDuration() float64 {
	var total float64
	for _, b := range p.Beats {
		total += b.Duration
	}
	return total
}

// Lookup returns the beat with the given id.
func (p Plan) Lookup(id string) (Beat, bool) {
	for _, b := range p.Beats {
		if b.ID == id {
			return b, true
		}
	}
	return Beat{}, false
}

// Narration joins every beat's narration in order.
func (p Plan) Narration() string {
	parts := make([]string, 0, len(p.Beats))
	for _, b := range p.Beats {
		if b.Narration != "" {
			parts = append(parts, b.Narration)
		}
	}
	return strings.Join(parts, " ")
}
