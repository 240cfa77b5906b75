package timeline

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"demoreel/internal/textutil"
)

var (
	sceneHeaderPattern = regexp.MustCompile(`^##\s+Scene\s+(\d+)\s*:\s*(.+?)\s*\(\s*(\d{1,3}):([0-5]\d)\s*-\s*(\d{1,3}):([0-5]\d)\s*\)\s*$`)
	scenePrefixPattern = regexp.MustCompile(`(?i)^##\s+scene\b`)
	sectionPattern     = regexp.MustCompile(`^[-*]\s+\*\*(Voice-Over|Visual Actions|Key Message):\*\*\s*(.*)$`)
	continuationBullet = regexp.MustCompile(`^[-*]\s+(.*)$`)
)

type section int

const (
	sectionNone section = iota
	sectionNarration
	sectionActions
	sectionCallouts
)

// Diagnostic describes a storyboard line the parser could not use.
type Diagnostic struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %q", d.Line, d.Reason, d.Text)
}

const (
	reasonMalformedHeader = "malformed scene header; scene skipped"
	reasonBadRange        = "scene end is not after start; scene skipped"
	reasonSkippedScene    = "belongs to a skipped scene"
	reasonOutsideScene    = "text outside any scene"
	reasonNoSection       = "continuation without a Voice-Over, Visual Actions, or Key Message section"
	reasonUnrecognized    = "unrecognized line"
)

// ParseStoryboard reads a markdown storyboard into a plan. Scene headers look
// like "## Scene 3: Title (01:05-01:40)" and carry the beat window; bullets
// "- **Voice-Over:**", "- **Visual Actions:**", and "- **Key Message:**"
// open sections whose indented bullets continue them. The error is non-nil
// only when reading fails.
func ParseStoryboard(r io.Reader) (Plan, []Diagnostic, error) {
	p := &storyboardParser{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		p.line(lineNo, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Plan{}, p.diags, fmt.Errorf("read storyboard: %w", err)
	}
	p.flush()
	return Plan{Beats: p.beats}, p.diags, nil
}

type storyboardParser struct {
	beats    []Beat
	diags    []Diagnostic
	current  *Beat
	narr     []string
	section  section
	skipping bool
}

func (p *storyboardParser) line(n int, raw string) {
	text := strings.TrimRight(raw, " \t\r")
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return
	}

	if scenePrefixPattern.MatchString(trimmed) {
		p.flush()
		p.header(n, trimmed)
		return
	}

	if p.skipping {
		p.diagnose(n, trimmed, reasonSkippedScene)
		return
	}
	if p.current == nil {
		p.diagnose(n, trimmed, reasonOutsideScene)
		return
	}

	indented := text != strings.TrimLeft(text, " \t")
	if !indented {
		if m := sectionPattern.FindStringSubmatch(trimmed); m != nil {
			p.openSection(m[1], m[2])
			return
		}
		p.section = sectionNone
		p.diagnose(n, trimmed, reasonUnrecognized)
		return
	}

	if p.section == sectionNone {
		p.diagnose(n, trimmed, reasonNoSection)
		return
	}
	content := trimmed
	if m := continuationBullet.FindStringSubmatch(trimmed); m != nil {
		content = m[1]
	}
	p.appendContent(content)
}

func (p *storyboardParser) header(n int, trimmed string) {
	m := sceneHeaderPattern.FindStringSubmatch(trimmed)
	if m == nil {
		p.skipping = true
		p.diagnose(n, trimmed, reasonMalformedHeader)
		return
	}
	start := clockSeconds(m[3], m[4])
	end := clockSeconds(m[5], m[6])
	if end <= start {
		p.skipping = true
		p.diagnose(n, trimmed, reasonBadRange)
		return
	}
	p.skipping = false
	p.current = &Beat{
		Index:    len(p.beats),
		ID:       "scene-" + strings.TrimLeft(m[1], "0"),
		Title:    textutil.TitleCase(m[2]),
		Start:    start,
		Duration: end - start,
	}
	if p.current.ID == "scene-" {
		p.current.ID = "scene-0"
	}
}

func (p *storyboardParser) openSection(name, rest string) {
	switch name {
	case "Voice-Over":
		p.section = sectionNarration
	case "Visual Actions":
		p.section = sectionActions
	case "Key Message":
		p.section = sectionCallouts
	}
	if rest = strings.TrimSpace(rest); rest != "" {
		p.appendContent(rest)
	}
}

func (p *storyboardParser) appendContent(content string) {
	content = strings.TrimSpace(strings.Trim(strings.TrimSpace(content), `"“”`))
	if content == "" {
		return
	}
	switch p.section {
	case sectionNarration:
		p.narr = append(p.narr, content)
	case sectionActions:
		p.current.Actions = append(p.current.Actions, content)
	case sectionCallouts:
		p.current.Callouts = append(p.current.Callouts, content)
	}
}

func (p *storyboardParser) flush() {
	if p.current != nil {
		p.current.Narration = strings.Join(p.narr, " ")
		p.beats = append(p.beats, *p.current)
	}
	p.current = nil
	p.narr = nil
	p.section = sectionNone
	p.skipping = false
}

func (p *storyboardParser) diagnose(n int, text, reason string) {
	p.diags = append(p.diags, Diagnostic{Line: n, Text: text, Reason: reason})
}

func clockSeconds(minutes, seconds string) float64 {
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	return float64(m*60 + s)
}
