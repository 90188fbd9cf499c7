// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty values from a slice of any
// string type, trimming whitespace from each element. Order is preserved.
//
// Example:
//
//	DedupeAndTrim([]reference.ID{"  7 ", "8", "7", "", "  "})
//	// Returns: []reference.ID{"7", "8"}
func DedupeAndTrim[S ~string](values []S) []S {
	if len(values) == 0 {
		return values
	}

	seen := make(map[S]struct{}, len(values))
	result := make([]S, 0, len(values))

	for _, v := range values {
		trimmed := S(strings.TrimSpace(string(v)))
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
