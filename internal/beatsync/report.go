package beatsync

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"demoreel/internal/timeline"
)

// Result is the outcome of syncing one beat.
type Result struct {
	BeatID          string  `json:"beat_id"`
	Title           string  `json:"title,omitempty"`
	Success         bool    `json:"success"`
	OutputPath      string  `json:"output_path,omitempty"`
	AudioPath       string  `json:"audio_path,omitempty"`
	Start           float64 `json:"start"`
	PlannedDuration float64 `json:"planned_duration"`
	AudioDuration   float64 `json:"audio_duration"`
	ActualDuration  float64 `json:"actual_duration"`
	Overrun         float64 `json:"overrun,omitempty"`
	Placeholder     bool    `json:"placeholder,omitempty"`
	Attempts        int     `json:"attempts"`
	SizeBytes       int64   `json:"size_bytes,omitempty"`
	Error           string  `json:"error,omitempty"`
	FailureKind     string  `json:"failure_kind,omitempty"`
}

// Report aggregates one synchronization run.
type Report struct {
	RunID          string             `json:"run_id"`
	StartedAt      time.Time          `json:"started_at"`
	FinishedAt     time.Time          `json:"finished_at"`
	Master         string             `json:"master"`
	MasterDuration float64            `json:"master_duration"`
	OverrunPolicy  string             `json:"overrun_policy"`
	Results        []Result           `json:"results"`
	Findings       []timeline.Finding `json:"findings,omitempty"`
	FinalVideo     string             `json:"final_video,omitempty"`
}

// Succeeded counts successful beats.
func (r Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// Failed counts failed beats.
func (r Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Failures returns the failed results in beat order.
func (r Report) Failures() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// Outputs returns successful output paths in beat order.
func (r Report) Outputs() []string {
	var outputs []string
	for _, res := range r.Results {
		if res.Success && res.OutputPath != "" {
			outputs = append(outputs, res.OutputPath)
		}
	}
	return outputs
}

// OK reports whether every beat succeeded.
func (r Report) OK() bool {
	return len(r.Results) > 0 && r.Failed() == 0
}

// TotalDuration sums the synced durations of successful beats.
func (r Report) TotalDuration() float64 {
	var total float64
	for _, res := range r.Results {
		if res.Success {
			total += res.ActualDuration
		}
	}
	return total
}

// LoadReport reads a beat sync report written by a previous run.
func LoadReport(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return Report{}, fmt.Errorf("decode sync report %s: %w", path, err)
	}
	return report, nil
}
