// Package fuzzy implements the bounded edit-distance tests used for patient
// name matching and placeholder grouping.
package fuzzy

import "github.com/agnivade/levenshtein"

// Levenshtein returns the insert/delete/substitute distance between a and b,
// counted in characters.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// OSA returns the optimal string alignment distance: Levenshtein plus
// transposition of two adjacent characters as a single edit.
func OSA(a, b string) int {
	return osa([]rune(a), []rune(b))
}

// Within reports whether Levenshtein(a, b) <= max.
func Within(a, b string, max int) bool {
	if !lengthsWithin([]rune(a), []rune(b), max) {
		return false
	}
	return levenshtein.ComputeDistance(a, b) <= max
}

// WithinOSA reports whether OSA(a, b) <= max.
func WithinOSA(a, b string, max int) bool {
	ra, rb := []rune(a), []rune(b)
	if !lengthsWithin(ra, rb, max) {
		return false
	}
	return osa(ra, rb) <= max
}

func lengthsWithin(a, b []rune, max int) bool {
	if max < 0 {
		return false
	}
	d := len(a) - len(b)
	return d <= max && -d <= max
}

func osa(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Three rolling rows: two back is needed for transpositions.
	prev2 := make([]int, len(b)+1)
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && a[i-1] == b[j-2] && a[i-2] == b[j-1] {
				cur[j] = min(cur[j], prev2[j-2]+1)
			}
		}
		prev2, prev, cur = prev, cur, prev2
	}
	return prev[len(b)]
}
