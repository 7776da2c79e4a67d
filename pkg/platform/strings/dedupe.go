// Package strings provides string list helpers.
package strings

import (
	"slices"
	"strings"
)

// DedupeAndTrim trims each element and drops empties and repeats, keeping
// first-seen order.
//
//	DedupeAndTrim([]string{"  apple ", "google", "apple", ""})
//	// []string{"apple", "google"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with case folded to lower.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

// JoinSorted lowercases, dedupes, and sorts values, then joins them with sep.
// It returns empty when nothing remains.
//
//	JoinSorted([]string{"Google", "apple", "google"}, ", ", "none")
//	// "apple, google"
func JoinSorted(values []string, sep, empty string) string {
	cleaned := DedupeAndTrimLower(values)
	if len(cleaned) == 0 {
		return empty
	}
	slices.Sort(cleaned)
	return strings.Join(cleaned, sep)
}

func dedupe(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}
