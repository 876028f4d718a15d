package hashcat

import (
	"regexp"
	"strconv"
)

// StatusUpdate is one progress snapshot extracted from a line of engine
// status output. Fields that did not appear on the line keep their zero
// value.
type StatusUpdate struct {
	Progress  float64 // percentage, 0-100
	Speed     string  // e.g. "1234.5 kH/s"
	ETA       string  // free text after the Time.Estimated label
	Recovered int
	Total     int
}

// fieldExtractor matches one status field independently of the others
type fieldExtractor struct {
	name    string
	pattern *regexp.Regexp
	apply   func(matches []string, u *StatusUpdate)
}

// statusExtractors is the ordered extractor table applied to every status
// line. Each entry matches on its own; a line only needs one of them to
// produce a snapshot.
var statusExtractors = []fieldExtractor{
	{
		name:    "progress",
		pattern: regexp.MustCompile(`Progress\.*:\s*(\d+)/(\d+)\s*\((\d+(?:\.\d+)?)%\)`),
		apply: func(m []string, u *StatusUpdate) {
			if pct, err := strconv.ParseFloat(m[3], 64); err == nil {
				u.Progress = pct
			}
		},
	},
	{
		name:    "speed",
		pattern: regexp.MustCompile(`(\d+(?:\.\d+)?)\s+([a-zA-Z]+/s)`),
		apply: func(m []string, u *StatusUpdate) {
			u.Speed = m[1] + " " + m[2]
		},
	},
	{
		name:    "eta",
		pattern: regexp.MustCompile(`Time\.Estimated\.*:\s*(.+)`),
		apply: func(m []string, u *StatusUpdate) {
			u.ETA = m[1]
		},
	},
	{
		name:    "recovered",
		pattern: regexp.MustCompile(`Recovered\.*:\s*(\d+)/(\d+)`),
		apply: func(m []string, u *StatusUpdate) {
			u.Recovered, _ = strconv.Atoi(m[1])
			u.Total, _ = strconv.Atoi(m[2])
		},
	},
}

// ParseStatusLine extracts a progress snapshot from one line of engine
// status text. Every extractor is tried independently; the snapshot is
// returned if any field matched. Lines with no recognizable token yield
// (nil, false).
func ParseStatusLine(line string) (*StatusUpdate, bool) {
	var update StatusUpdate
	matched := false

	for _, ex := range statusExtractors {
		if m := ex.pattern.FindStringSubmatch(line); m != nil {
			ex.apply(m, &update)
			matched = true
		}
	}

	if !matched {
		return nil, false
	}
	return &update, true
}
