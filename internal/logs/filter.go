package logs

import (
	"encoding/json"
	"strings"
)

// Filter selects log lines. Empty fields match everything.
type Filter struct {
	Level  string // minimum level: debug, info, warn, or error
	BeatID string
	RunID  string
}

var levelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// Match reports whether line passes the filter. JSON lines are matched on
// their fields; console lines on the level label and "[beat]" subject.
func (f Filter) Match(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "{") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(trimmed), &entry); err == nil {
			return f.matchFields(entry)
		}
	}
	return f.matchConsole(trimmed)
}

func (f Filter) matchFields(entry map[string]any) bool {
	field := func(key string) string {
		value, _ := entry[key].(string)
		return value
	}
	if !f.levelAllows(field("level")) {
		return false
	}
	if f.BeatID != "" && field("beat_id") != f.BeatID {
		return false
	}
	if f.RunID != "" && field("run_id") != f.RunID {
		return false
	}
	return true
}

func (f Filter) matchConsole(line string) bool {
	// "2006-01-02 15:04:05 LEVEL subject: message"
	fields := strings.Fields(line)
	level := ""
	if len(fields) > 2 {
		level = fields[2]
	}
	if !f.levelAllows(level) {
		return false
	}
	if f.BeatID != "" && !strings.Contains(line, "["+f.BeatID+"]") {
		return false
	}
	// Console lines omit the run id.
	return f.RunID == ""
}

func (f Filter) levelAllows(level string) bool {
	want, ok := levelRank[strings.ToLower(strings.TrimSpace(f.Level))]
	if !ok {
		return true
	}
	got, ok := levelRank[strings.ToLower(strings.TrimSpace(level))]
	if !ok {
		return true
	}
	return got >= want
}
