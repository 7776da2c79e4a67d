package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{name: "nil slice", input: nil, expected: nil},
		{name: "empty slice", input: []string{}, expected: []string{}},
		{name: "trims and drops empties", input: []string{" apple ", "", "  ", "google"}, expected: []string{"apple", "google"}},
		{name: "keeps first-seen order", input: []string{"google", "apple", "google"}, expected: []string{"google", "apple"}},
		{name: "case sensitive", input: []string{"Apple", "apple"}, expected: []string{"Apple", "apple"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestDedupeAndTrimLower(t *testing.T) {
	assert.Nil(t, DedupeAndTrimLower(nil))
	assert.Equal(t, []string{"apple", "google"}, DedupeAndTrimLower([]string{" APPLE ", "google", "Apple", "GOOGLE"}))
}

func TestJoinSorted(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected string
	}{
		{name: "nil uses empty value", input: nil, expected: "none"},
		{name: "only blanks uses empty value", input: []string{" ", ""}, expected: "none"},
		{name: "single", input: []string{"Apple"}, expected: "apple"},
		{name: "sorted and deduped", input: []string{"google", "Facebook", "apple", "GOOGLE"}, expected: "apple, facebook, google"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JoinSorted(tt.input, ", ", "none"))
		})
	}
}
