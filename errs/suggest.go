package errs

import "github.com/agext/levenshtein"

// maxSuggestionDistance is the largest edit distance for which Suggest
// still proposes a "did you mean" hint (spec.md §4.3: "suppress
// suggestions beyond distance 3").
const maxSuggestionDistance = 3

// Suggest finds the candidate closest to name by Levenshtein distance and
// returns a "Did you mean '...'?" hint, or "" if nothing is close enough.
func Suggest(name string, candidates []string) string {
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, c := range candidates {
		d := levenshtein.Distance(name, c, nil)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if best == "" || bestDist > maxSuggestionDistance {
		return ""
	}
	return "Did you mean '" + best + "'?"
}
