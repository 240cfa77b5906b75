package quality

import (
	"reflect"
	"strings"
	"testing"

	"demoreel/internal/media/ffprobe"
)

func fullHD(duration, kbps, fps float64) ffprobe.MediaInfo {
	return ffprobe.MediaInfo{
		DurationSeconds: duration,
		Width:           1920,
		Height:          1080,
		BitrateKbps:     kbps,
		Framerate:       fps,
		Probed:          true,
	}
}

func TestScoreBeatShortBeatLosesIssuePenalty(t *testing.T) {
	v := ScoreBeat("hook", fullHD(3, 1500, 30), DefaultStandards())
	if v.Score > 85 {
		t.Fatalf("expected score <= 85, got %d", v.Score)
	}
	if v.Score != 85 {
		t.Fatalf("expected exactly 85 for one issue and no bonus, got %d", v.Score)
	}
	if len(v.Issues) != 1 || len(v.Warnings) != 0 {
		t.Fatalf("unexpected findings issues=%v warnings=%v", v.Issues, v.Warnings)
	}
	if v.Passed || !v.NeedsRework {
		t.Fatalf("beat with an issue must need rework: %+v", v)
	}
}

func TestScoreBeatBonusesClampAt100(t *testing.T) {
	v := ScoreBeat("hook", fullHD(20, 2500, 30), DefaultStandards())
	if v.Score != 100 {
		t.Fatalf("expected clamp at 100, got %d", v.Score)
	}
	if !v.Passed || v.NeedsRework {
		t.Fatalf("expected pass, got %+v", v)
	}
}

func TestScoreBeatWarnings(t *testing.T) {
	info := ffprobe.MediaInfo{DurationSeconds: 150, Width: 1280, Height: 720, BitrateKbps: 800, Framerate: 15, Probed: true}
	v := ScoreBeat("long", info, DefaultStandards())
	if len(v.Warnings) != 4 || len(v.Issues) != 0 {
		t.Fatalf("expected 4 warnings, got %v / %v", v.Warnings, v.Issues)
	}
	if v.Score != 80 {
		t.Fatalf("expected 80, got %d", v.Score)
	}
	if len(v.Suggestions) != 4 {
		t.Fatalf("expected a suggestion per warning, got %v", v.Suggestions)
	}
}

func TestScoreBeatDegradedProbe(t *testing.T) {
	v := ScoreBeat("missing", ffprobe.MediaInfo{Path: "x.mp4", Error: "exit status 1"}, DefaultStandards())
	if v.Passed {
		t.Fatal("degraded probe must not pass")
	}
	if v.Score != 70 {
		t.Fatalf("expected 100-15-3*5=70, got %d", v.Score)
	}
	last := v.Suggestions[len(v.Suggestions)-1]
	if !strings.Contains(last, "probe failed") {
		t.Fatalf("expected probe failure suggestion, got %v", v.Suggestions)
	}
}

func TestBeatScoresStayInRange(t *testing.T) {
	std := DefaultStandards()
	for _, d := range []float64{0, 2, 5, 10, 30, 60, 121, 1000} {
		for _, kbps := range []float64{0, 500, 1000, 2000, 9000} {
			for _, fps := range []float64{0, 12, 24, 60} {
				for _, dims := range [][2]int{{0, 0}, {1280, 720}, {1920, 1080}, {3840, 2160}} {
					info := ffprobe.MediaInfo{DurationSeconds: d, BitrateKbps: kbps, Framerate: fps, Width: dims[0], Height: dims[1]}
					if s := ScoreBeat("b", info, std).Score; s < 0 || s > 100 {
						t.Fatalf("score %d out of range for %+v", s, info)
					}
				}
			}
		}
	}
}

func TestVisualQualityFullHD(t *testing.T) {
	if got := VisualQuality(fullHD(240, 2500, 30), DefaultStandards()); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestVisualQualityTiers(t *testing.T) {
	std := DefaultStandards()
	tests := []struct {
		name string
		info ffprobe.MediaInfo
		want int
	}{
		{"hd ready mid bitrate", ffprobe.MediaInfo{Width: 1280, Height: 720, BitrateKbps: 1200, Framerate: 25}, 100},
		{"low everything", ffprobe.MediaInfo{Width: 640, Height: 480, BitrateKbps: 300, Framerate: 15}, 55},
		{"wrong res high bitrate", ffprobe.MediaInfo{Width: 800, Height: 600, BitrateKbps: 3000, Framerate: 30}, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VisualQuality(tt.info, std); got != tt.want {
				t.Fatalf("VisualQuality = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPacing(t *testing.T) {
	std := DefaultStandards()
	long := []BeatValidation{
		{Media: ffprobe.MediaInfo{DurationSeconds: 61}},
		{Media: ffprobe.MediaInfo{DurationSeconds: 61}},
		{Media: ffprobe.MediaInfo{DurationSeconds: 61}},
	}
	if got := Pacing(100, long, std); got != 70 {
		t.Fatalf("expected 100-20-10=70, got %d", got)
	}
	if got := Pacing(100, nil, std); got != 80 {
		t.Fatalf("expected under-length penalty, got %d", got)
	}
	if got := Pacing(400, nil, std); got != 85 {
		t.Fatalf("expected over-length penalty, got %d", got)
	}
	short := make([]BeatValidation, 4)
	if got := Pacing(100, short, std); got != 75 {
		t.Fatalf("expected short-beat penalty, got %d", got)
	}
}

func TestOverallIsRoundedMean(t *testing.T) {
	values := []int{0, 1, 33, 50, 67, 74, 75, 99, 100}
	for _, a := range values {
		for _, b := range values {
			for _, c := range values {
				for _, d := range values {
					sum := a + b + c + d
					want := sum / 4
					if sum%4 >= 2 {
						want++
					}
					if got := OverallScore(a, b, c, d); got != want {
						t.Fatalf("OverallScore(%d,%d,%d,%d) = %d, want %d", a, b, c, d, got, want)
					}
				}
			}
		}
	}
}

func engagementFailingFixture() (ffprobe.MediaInfo, []BeatValidation) {
	std := DefaultStandards()
	var beats []BeatValidation
	for range 5 {
		beats = append(beats, ScoreBeat("good", fullHD(46, 2500, 30), std))
	}
	for range 3 {
		beats = append(beats, ScoreBeat("short", fullHD(3, 2500, 30), std))
	}
	return fullHD(239, 2500, 30), beats
}

func TestMeetsStandardsIsConjunctive(t *testing.T) {
	video, beats := engagementFailingFixture()
	v := Evaluate(video, beats, DefaultStandards())
	if v.Overall < DefaultStandards().MinOverall {
		t.Fatalf("fixture should clear the overall threshold, got %+v", v)
	}
	if v.Engagement >= DefaultStandards().MinEngagement {
		t.Fatalf("fixture should fail engagement, got %d", v.Engagement)
	}
	if v.MeetsStandards {
		t.Fatal("one failing category must fail the gate")
	}
	if len(v.Failures) != 1 || !strings.Contains(v.Failures[0], "engagement") {
		t.Fatalf("expected only the engagement failure, got %v", v.Failures)
	}
	if v.PassedBeats != 5 || v.ReworkBeats != 3 {
		t.Fatalf("unexpected beat counts %+v", v)
	}
}

func TestMeetsStandardsRequiresDurationWindow(t *testing.T) {
	std := DefaultStandards()
	beats := []BeatValidation{ScoreBeat("a", fullHD(20, 2500, 30), std)}
	v := Evaluate(fullHD(20, 2500, 30), beats, std)
	if v.MeetsStandards {
		t.Fatalf("20s video must fail the duration gate: %+v", v)
	}
}

func TestEvaluateAllGood(t *testing.T) {
	std := DefaultStandards()
	var beats []BeatValidation
	for range 8 {
		beats = append(beats, ScoreBeat("b", fullHD(30, 2500, 30), std))
	}
	v := Evaluate(fullHD(240, 2500, 30), beats, std)
	if !v.MeetsStandards || v.Overall != 100 {
		t.Fatalf("expected perfect run, got %+v", v)
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	video, beats := engagementFailingFixture()
	snapshot := append([]BeatValidation(nil), beats...)
	first := Evaluate(video, beats, DefaultStandards())
	second := Evaluate(video, beats, DefaultStandards())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results\n%+v\n%+v", first, second)
	}
	if !reflect.DeepEqual(beats, snapshot) {
		t.Fatal("Evaluate must not mutate its input")
	}
}

func TestTechnicalAccuracyEdgeCases(t *testing.T) {
	if got := TechnicalAccuracy(nil); got != 0 {
		t.Fatalf("expected 0 with no beats, got %d", got)
	}
	zero := []BeatValidation{{Score: 80}, {Score: 61}}
	if got := TechnicalAccuracy(zero); got != 71 {
		t.Fatalf("expected simple mean 70.5 rounded to 71, got %d", got)
	}
	weighted := []BeatValidation{
		{Score: 100, Media: ffprobe.MediaInfo{DurationSeconds: 30}},
		{Score: 40, Media: ffprobe.MediaInfo{DurationSeconds: 10}},
	}
	if got := TechnicalAccuracy(weighted); got != 85 {
		t.Fatalf("expected weighted mean 85, got %d", got)
	}
}

func TestEngagement(t *testing.T) {
	std := DefaultStandards()
	if got := Engagement(nil, std); got != 100 {
		t.Fatalf("expected 100 without beats, got %d", got)
	}
	beats := []BeatValidation{
		{Score: 100, Passed: true},
		{Score: 60, Passed: false},
	}
	if got := Engagement(beats, std); got != 82 {
		t.Fatalf("expected 100-15-8+5=82, got %d", got)
	}
}

func TestCheckTopics(t *testing.T) {
	std := DefaultStandards()
	coverage := CheckTopics("Real time evacuation routes. Results guaranteed!", std)
	if !reflect.DeepEqual(coverage.Covered, []string{"real-time", "evacuation"}) {
		t.Fatalf("covered = %v", coverage.Covered)
	}
	if !reflect.DeepEqual(coverage.Missing, []string{"resource"}) {
		t.Fatalf("missing = %v", coverage.Missing)
	}
	if !reflect.DeepEqual(coverage.Forbidden, []string{"guaranteed"}) {
		t.Fatalf("forbidden = %v", coverage.Forbidden)
	}
	if coverage.OK() {
		t.Fatal("expected coverage to report problems")
	}
}

func TestStandardsAreCopied(t *testing.T) {
	std := DefaultStandards()
	std.RequiredTopics[0] = "mutated"
	if DefaultStandards().RequiredTopics[0] == "mutated" {
		t.Fatal("standards must not share topic slices")
	}
}
