package md2report

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Collapse runs of blank lines to a single blank line
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
)

// literalEscapes unescapes two-character escape sequences that LLM
// output sometimes emits verbatim instead of the characters they name.
var literalEscapes = strings.NewReplacer(`\n`, "\n", `\t`, "\t")

// normalizeContent prepares raw Markdown for the rest of the pipeline.
// The transform is idempotent: applying it twice yields the same string
// as applying it once.
func normalizeContent(content string) string {
	content = strings.TrimPrefix(content, "\uFEFF")
	content = literalEscapes.Replace(content)
	content = normalizeLineEndings(content)
	content = collapseBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// collapseBlankLines limits consecutive blank lines to one.
func collapseBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}
