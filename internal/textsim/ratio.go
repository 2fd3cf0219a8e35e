// Package textsim provides the string and vector similarity primitives used by the ranking stages.
package textsim

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0,1], computed over runes
// as 2*M/T where M is the number of matched runes and T the total rune count.
// Two empty strings are identical and score 1.0.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(runes(a), runes(b)).Ratio()
}

// runes splits s into one element per code point
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
