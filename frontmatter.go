package md2report

import (
	"strings"

	"github.com/haruda/go-md2report/internal/yamlutil"
)

const frontmatterDelimiter = "---"

// splitFrontmatter separates an optional YAML frontmatter block from the
// Markdown body. It never fails: malformed YAML, a missing closing
// delimiter, or an empty block all degrade to an empty Meta with the
// complete original text as the body. A YAML block that parses to
// something other than a mapping is stripped from the body but yields
// no metadata.
func splitFrontmatter(content string) (Meta, string) {
	trimmed := strings.TrimLeft(content, " \t\n")
	if !strings.HasPrefix(trimmed, frontmatterDelimiter+"\n") && trimmed != frontmatterDelimiter {
		return Meta{}, content
	}

	rest := trimmed[len(frontmatterDelimiter):]
	rest = strings.TrimPrefix(rest, "\n")

	end := findClosingDelimiter(rest)
	if end < 0 {
		return Meta{}, content
	}

	block := rest[:end]
	body := rest[end+len(frontmatterDelimiter):]
	body = strings.TrimPrefix(body, "\n")

	if strings.TrimSpace(block) == "" {
		return Meta{}, content
	}

	var parsed any
	if err := yamlutil.Unmarshal([]byte(block), &parsed); err != nil {
		// Not YAML at all: keep the whole text, delimiters included.
		return Meta{}, content
	}
	meta, ok := parsed.(map[string]any)
	if !ok {
		// Parsed but not a mapping; the block is still consumed.
		return Meta{}, body
	}
	return Meta(meta), body
}

// findClosingDelimiter returns the offset of the closing delimiter line
// in s, or -1 when there is none.
func findClosingDelimiter(s string) int {
	offset := 0
	for {
		idx := strings.Index(s[offset:], frontmatterDelimiter)
		if idx < 0 {
			return -1
		}
		pos := offset + idx
		lineStart := pos == 0 || s[pos-1] == '\n'
		lineEnd := pos+len(frontmatterDelimiter) == len(s) || s[pos+len(frontmatterDelimiter)] == '\n'
		if lineStart && lineEnd {
			return pos
		}
		offset = pos + len(frontmatterDelimiter)
	}
}
