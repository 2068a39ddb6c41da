package matching

import (
	"math"
	"testing"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"abc", "abc", 1.0},
		{"", "", 1.0},
		{"abc", "xyz", 0.0},
		{"soyabean", "soybean", 14.0 / 15.0},
		{"cotton", "onion", 4.0 / 11.0},
	}
	for _, tt := range tests {
		got := Ratio(tt.a, tt.b)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Ratio(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestMatcherMatches(t *testing.T) {
	m := NewMatcher(DefaultCommodityThreshold)

	tests := []struct {
		candidate string
		target    string
		want      bool
	}{
		{"Soyabean", "Soyabean", true},        // exact
		{"Soyabean", "SOYABEAN", true},        // case-insensitive
		{"Soyabean (Black)", "Soyabean", true}, // substring after normalization
		{"Akola APMC", "Akola", true},          // trailing descriptor
		{"soyabean", "soybean", true},          // transliteration via ratio
		{"Cotton", "Onion", false},
		{"", "Cotton", false},
		{"Cotton", "", false},
	}
	for _, tt := range tests {
		got := m.Matches(tt.candidate, tt.target)
		if got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.candidate, tt.target, got, tt.want)
		}
	}
}

func TestNewMatcherClampsThreshold(t *testing.T) {
	tests := []struct {
		threshold float64
		want      float64
	}{
		{0.87, 0.87},
		{0, DefaultTextThreshold},
		{-1, DefaultTextThreshold},
		{1.5, DefaultTextThreshold},
	}
	for _, tt := range tests {
		m := NewMatcher(tt.threshold)
		if m.Threshold() != tt.want {
			t.Errorf("NewMatcher(%f).Threshold() = %f, want %f", tt.threshold, m.Threshold(), tt.want)
		}
	}
}
