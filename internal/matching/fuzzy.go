package matching

import (
	"math"

	"github.com/agnivade/levenshtein"
)

// FuzzyMatcher scores how well needle appears somewhere inside haystack, on a 0-100 scale.
type FuzzyMatcher interface {
	PartialRatio(needle, haystack string) float64
}

// LevenshteinMatcher computes a partial ratio by sliding a needle-sized window over the haystack
// and keeping the best edit-distance similarity.
type LevenshteinMatcher struct{}

// PartialRatio implements FuzzyMatcher.
func (LevenshteinMatcher) PartialRatio(needle, haystack string) float64 {
	short, long := []rune(needle), []rune(haystack)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	s := string(short)
	best := 0.0
	for start := 0; start+len(short) <= len(long); start++ {
		window := string(long[start : start+len(short)])
		dist := levenshtein.ComputeDistance(s, window)
		ratio := (1 - float64(dist)/float64(len(short))) * 100
		if ratio > best {
			best = ratio
			if best == 100 {
				break
			}
		}
	}
	return math.Round(best)
}
