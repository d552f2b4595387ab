// Package suggest offers "did you mean" candidates for mistyped filenames.
package suggest

import (
	"github.com/hbollon/go-edlib"
)

// threshold is the minimum Jaro-Winkler similarity for a suggestion.
// Below it, staying silent beats a misleading guess.
const threshold = 0.75

// Closest returns the candidate most similar to name, if any clears the
// threshold. Ties keep the earliest candidate, so the result is
// deterministic for a given candidate order.
func Closest(name string, candidates []string) (string, bool) {
	var best string
	var bestScore float64
	for _, candidate := range candidates {
		score := float64(edlib.JaroWinklerSimilarity(name, candidate))
		if score >= threshold && score > bestScore {
			best = candidate
			bestScore = score
		}
	}
	return best, best != ""
}
