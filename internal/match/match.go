// Package match decides whether a scraped product title refers to one of the
// target product names.
package match

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultThreshold is the minimum partial-ratio score counted as a match
const DefaultThreshold = 85

// Scorer returns a similarity score in [0, 100]
type Scorer func(a, b string) int

// Matcher compares titles against an ordered list of targets
type Matcher struct {
	targets   []string
	threshold int
	score     Scorer
}

// New creates a Matcher using partial-ratio scoring. A threshold outside
// (0, 100] falls back to DefaultThreshold.
func New(targets []string, threshold int) *Matcher {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultThreshold
	}
	t := make([]string, len(targets))
	copy(t, targets)

	return &Matcher{
		targets:   t,
		threshold: threshold,
		score:     PartialRatio,
	}
}

// WithScorer swaps the scoring function
func (m *Matcher) WithScorer(s Scorer) *Matcher {
	m.score = s
	return m
}

// Threshold returns the configured threshold
func (m *Matcher) Threshold() int {
	return m.threshold
}

// Len returns the number of targets
func (m *Matcher) Len() int {
	return len(m.targets)
}

// IsMatch reports whether title matches a target. The first target in order
// reaching the threshold wins; later targets are not considered.
func (m *Matcher) IsMatch(title string) (bool, string) {
	clean := strings.ToLower(title)
	for _, target := range m.targets {
		if m.score(clean, strings.ToLower(target)) >= m.threshold {
			return true, target
		}
	}
	return false, ""
}

// PartialRatio scores the best alignment of the shorter string inside the longer one
func PartialRatio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	return fuzzy.PartialRatio(a, b)
}
