package quality

import "demoreel/internal/textutil"

// TopicCoverage reports required topics absent from the narration and
// forbidden topics present in it. It informs recommendations only.
type TopicCoverage struct {
	Covered   []string `json:"covered"`
	Missing   []string `json:"missing"`
	Forbidden []string `json:"forbidden"`
}

// OK reports whether every required topic is covered and none is forbidden.
func (c TopicCoverage) OK() bool {
	return len(c.Missing) == 0 && len(c.Forbidden) == 0
}

// CheckTopics matches topics against narration as whole-word phrases.
func CheckTopics(narration string, std Standards) TopicCoverage {
	coverage := TopicCoverage{Covered: []string{}, Missing: []string{}, Forbidden: []string{}}
	for _, topic := range std.RequiredTopics {
		if textutil.ContainsPhrase(narration, topic) {
			coverage.Covered = append(coverage.Covered, topic)
		} else {
			coverage.Missing = append(coverage.Missing, topic)
		}
	}
	for _, topic := range std.ForbiddenTopics {
		if textutil.ContainsPhrase(narration, topic) {
			coverage.Forbidden = append(coverage.Forbidden, topic)
		}
	}
	return coverage
}
