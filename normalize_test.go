package md2report

import "testing"

func TestNormalizeContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "LF unchanged",
			input:    "line1\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "CRLF to LF",
			input:    "line1\r\nline2",
			expected: "line1\nline2",
		},
		{
			name:     "CR to LF",
			input:    "line1\rline2",
			expected: "line1\nline2",
		},
		{
			name:     "BOM stripped",
			input:    "﻿# Title",
			expected: "# Title",
		},
		{
			name:     "literal newline escape",
			input:    `first\nsecond`,
			expected: "first\nsecond",
		},
		{
			name:     "literal tab escape",
			input:    `a\tb`,
			expected: "a\tb",
		},
		{
			name:     "blank runs collapse to one blank line",
			input:    "a\n\n\n\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "single blank line preserved",
			input:    "a\n\nb",
			expected: "a\n\nb",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeContent(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeContent() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormalizeContentIdempotent(t *testing.T) {
	inputs := []string{
		"# Title\r\n\r\n\r\nBody text\\nwith escapes\\tand tabs\n\n\n\nEnd",
		"﻿plain",
		"already\n\nnormal\n",
	}

	for _, input := range inputs {
		once := normalizeContent(input)
		twice := normalizeContent(once)
		if once != twice {
			t.Errorf("normalizeContent not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}
