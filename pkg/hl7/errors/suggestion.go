package errors

import (
	"fmt"
	"strings"
)

// Suggest returns a "Did you mean" hint for an unknown name, using the
// Levenshtein distance to pick the closest candidate. It returns an empty
// string when no candidate is close enough to be a plausible typo.
func Suggest(unknown string, candidates []string) string {
	if len(candidates) == 0 || unknown == "" {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, c := range candidates {
		dist := levenshteinDistance(strings.ToUpper(unknown), strings.ToUpper(c))
		if dist < minDistance {
			minDistance = dist
			bestMatch = c
		}
	}

	// Segment and datatype codes are short; more than one edit is noise.
	if minDistance <= 1 || (minDistance <= 2 && len(unknown) > 4) {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}
	return ""
}

// SuggestRange describes the valid range of an index for error messages.
func SuggestRange(what string, max int) string {
	if max <= 0 {
		return ""
	}
	if max == 1 {
		return fmt.Sprintf("%s must be 1", what)
	}
	return fmt.Sprintf("%s must be between 1 and %d", what, max)
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
