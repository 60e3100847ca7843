package errors

import (
	"fmt"
	"strings"
)

// SuggestName suggests the closest known name for an unrecognized one.
// It uses Levenshtein distance and only suggests names within a few edits.
func SuggestName(unknown string, known []string) string {
	if len(known) == 0 || unknown == "" {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, name := range known {
		dist := levenshteinDistance(strings.ToLower(unknown), strings.ToLower(name))
		if dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	if minDistance == 0 || minDistance >= 4 {
		return ""
	}
	return fmt.Sprintf("Did you mean '%s'?", bestMatch)
}

// SuggestMissingProperty suggests adding a required entity property.
func SuggestMissingProperty(key string, exampleValue string) string {
	if exampleValue != "" {
		return fmt.Sprintf("Add \"%s\" \"%s\" to the entity", key, exampleValue)
	}
	return fmt.Sprintf("Add a \"%s\" property to the entity", key)
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
