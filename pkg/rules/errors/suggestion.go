package errors

import (
	"fmt"
	"sort"
	"strings"
)

// SuggestField suggests a field name when a rule references a field the record lacks.
// It uses Levenshtein distance to find the closest available field.
func SuggestField(unknown string, available []string) string {
	if len(available) == 0 {
		return ""
	}

	fields := append([]string(nil), available...)
	sort.Strings(fields)

	minDistance := 1000
	var bestMatch string
	for _, field := range fields {
		dist := levenshteinDistance(unknown, field)
		if dist < minDistance {
			minDistance = dist
			bestMatch = field
		}
	}

	// Only suggest if the distance is reasonable (< 3 edits)
	if minDistance < 3 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(fields) > 5 {
		return fmt.Sprintf("Available fields include: %s, ...", strings.Join(fields[:5], ", "))
	}
	return fmt.Sprintf("Available fields: %s", strings.Join(fields, ", "))
}

// SuggestComparator lists the supported comparators.
func SuggestComparator() string {
	return "Valid comparators: =, >, <, >=, <="
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	// Two rows are enough: the previous and the current one.
	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // Deletion
				curr[j-1]+1,    // Insertion
				prev[j-1]+cost, // Substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}
