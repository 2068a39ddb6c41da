package matching

import "strings"

// Default similarity thresholds. Commodity names get a slightly stricter
// cutoff because the catalog contains many short, near-collision names
// ("Gram" / "Green Gram"). Both are configurable via [common.MatchingConfig].
const (
	DefaultTextThreshold      = 0.85
	DefaultCommodityThreshold = 0.87
)

// Matcher decides whether two free-text labels denote the same entity.
// Exact and substring checks handle the common cases (pluralization,
// trailing descriptors like "APMC"); the similarity-ratio fallback tolerates
// transliteration variants such as Soyabean/Soybean.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher with the given similarity threshold.
// Out-of-range thresholds fall back to DefaultTextThreshold.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultTextThreshold
	}
	return &Matcher{threshold: threshold}
}

// Threshold returns the configured similarity threshold.
func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// Matches reports whether candidate and target denote the same entity:
// normalize both, then exact equality, substring containment in either
// direction, and finally the similarity-ratio fallback.
func (m *Matcher) Matches(candidate, target string) bool {
	c := NormalizeText(candidate)
	t := NormalizeText(target)
	if c == "" || t == "" {
		return false
	}
	if c == t {
		return true
	}
	if strings.Contains(c, t) || strings.Contains(t, c) {
		return true
	}
	return Ratio(c, t) >= m.threshold
}
