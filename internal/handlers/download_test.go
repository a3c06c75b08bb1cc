// download_test.go contains tests for download helper functions.
//
// Go Pattern: Table-driven tests are the standard Go testing pattern.
// You define a slice of test cases (each with a name, inputs, and expected
// outputs), then loop through them.
package handlers

import (
	"strings"
	"testing"
)

// TestSanitizeFilename verifies unsafe characters never reach the
// Content-Disposition header.
func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean name passes through",
			input:    "merged.pdf",
			expected: "merged.pdf",
		},
		{
			name:     "path separators replaced",
			input:    "photos/vacation.pdf",
			expected: "photos-vacation.pdf",
		},
		{
			name:     "header-breaking quote replaced",
			input:    `report "final".pdf`,
			expected: "report -final-.pdf",
		},
		{
			name:     "newlines collapsed",
			input:    "report\nfinal.pdf",
			expected: "report final.pdf",
		},
		{
			name:     "consecutive hyphens collapsed",
			input:    "a//b.pdf",
			expected: "a-b.pdf",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  result.pdf  ",
			expected: "result.pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}

	t.Run("long names truncated", func(t *testing.T) {
		long := strings.Repeat("a", 150) + ".pdf"
		result := sanitizeFilename(long)
		if len(result) > 100 {
			t.Errorf("sanitized length = %d, want at most 100", len(result))
		}
	})
}
