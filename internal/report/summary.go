package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"demoreel/internal/beatsync"
	"demoreel/internal/validation"
)

// SyncTable renders one row per beat result.
func SyncTable(r beatsync.Report) string {
	headers := []string{"#", "Beat", "Status", "Planned", "Audio", "Actual", "Size", "Detail"}
	rows := make([][]string, 0, len(r.Results))
	for i, res := range r.Results {
		status := "ok"
		detail := res.OutputPath
		switch {
		case !res.Success:
			status = "failed"
			detail = res.Error
		case res.Overrun > 0:
			status = "frozen"
			detail = fmt.Sprintf("+%.1fs freeze, %s", res.Overrun, res.OutputPath)
		}
		if res.Placeholder {
			status += " (silent)"
		}
		size := ""
		if res.SizeBytes > 0 {
			size = humanize.IBytes(uint64(res.SizeBytes))
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			res.BeatID,
			status,
			seconds(res.PlannedDuration),
			seconds(res.AudioDuration),
			seconds(res.ActualDuration),
			size,
			detail,
		})
	}
	return RenderTable(headers, rows, Columns(len(headers), 0, 3, 4, 5, 6))
}

// SyncSummary writes the sync table, findings, and totals.
func SyncSummary(w io.Writer, r beatsync.Report, colorize bool) {
	lines := SectionHeader("Beat synchronization", colorize)
	lines = append(lines, SyncTable(r), "")
	for _, f := range r.Findings {
		lines = append(lines, StatusLine("timeline", KindWarn, f.Message, colorize))
	}
	kind := KindOK
	if !r.OK() {
		kind = KindError
	}
	lines = append(lines, StatusLine("beats", kind, fmt.Sprintf("%d/%d synchronized", r.Succeeded(), len(r.Results)), colorize))
	lines = append(lines, StatusLine("runtime", KindInfo, seconds(r.TotalDuration())+"s of output", colorize))
	if r.FinalVideo != "" {
		lines = append(lines, StatusLine("final video", KindOK, r.FinalVideo, colorize))
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

// ValidationTable renders one row per validated beat.
func ValidationTable(o validation.Outcome) string {
	headers := []string{"Beat", "Score", "Status", "Duration", "Resolution", "Bitrate", "Notes"}
	rows := make([][]string, 0, len(o.Beats))
	for _, b := range o.Beats {
		status := "pass"
		switch {
		case !b.Passed:
			status = "rework"
		case len(b.Warnings) > 0:
			status = "warn"
		}
		notes := append(append([]string{}, b.Issues...), b.Warnings...)
		rows = append(rows, []string{
			b.BeatID,
			strconv.Itoa(b.Score),
			status,
			seconds(b.Media.DurationSeconds) + "s",
			fmt.Sprintf("%dx%d", b.Media.Width, b.Media.Height),
			fmt.Sprintf("%.0f kbps", b.Media.BitrateKbps),
			strings.Join(notes, "; "),
		})
	}
	return RenderTable(headers, rows, Columns(len(headers), 1, 3, 5))
}

// ScoreTable renders the category scores against their minimums.
func ScoreTable(o validation.Outcome) string {
	v, std := o.Video, o.Standards
	type row struct {
		name         string
		got, minimum int
	}
	categories := []row{
		{"Technical accuracy", v.TechnicalAccuracy, std.MinTechnicalAccuracy},
		{"Visual quality", v.VisualQuality, std.MinVisualQuality},
		{"Pacing", v.Pacing, std.MinPacing},
		{"Engagement", v.Engagement, std.MinEngagement},
		{"Overall", v.Overall, std.MinOverall},
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		status := "pass"
		if c.got < c.minimum {
			status = "below"
		}
		rows = append(rows, []string{c.name, strconv.Itoa(c.got), strconv.Itoa(c.minimum), status})
	}
	return RenderTable([]string{"Category", "Score", "Minimum", "Status"}, rows, Columns(4, 1, 2))
}

// ValidationSummary writes beat and category tables, the verdict, and
// recommendations.
func ValidationSummary(w io.Writer, o validation.Outcome, colorize bool) {
	lines := SectionHeader("Quality validation", colorize)
	lines = append(lines, ValidationTable(o), "", ScoreTable(o), "")

	source := o.CombinedVideo
	if o.Synthesized {
		source = "aggregated from beats"
	}
	lines = append(lines, StatusLine("video", KindInfo, fmt.Sprintf("%ss, %s", seconds(o.Video.DurationSeconds), source), colorize))
	total := o.Counts.Total()
	lines = append(lines, StatusLine("beats", KindInfo, fmt.Sprintf("%d pass (%s), %d warn (%s), %d fail (%s)",
		o.Counts.Pass, percent(o.Counts.Pass, total),
		o.Counts.Warn, percent(o.Counts.Warn, total),
		o.Counts.Fail, percent(o.Counts.Fail, total),
	), colorize))
	if o.OK() {
		lines = append(lines, StatusLine("standards", KindOK, "met", colorize))
	} else {
		for _, failure := range o.Video.Failures {
			lines = append(lines, StatusLine("standards", KindError, failure, colorize))
		}
		if len(o.Video.Failures) == 0 {
			lines = append(lines, StatusLine("standards", KindError, "beats need rework", colorize))
		}
	}
	if len(o.Recommendations) > 0 {
		lines = append(lines, "")
		lines = append(lines, SectionHeader("Recommendations", colorize)...)
		for i, rec := range o.Recommendations {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, rec))
		}
	}
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

func seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', 1, 64)
}

func percent(part, total int) string {
	if total == 0 {
		return "0%"
	}
	return strconv.Itoa(int(math.Round(float64(part)*100/float64(total)))) + "%"
}
