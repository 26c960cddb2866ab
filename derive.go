package md2report

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	// Leftover key-value lines ("Company: Acme") that sometimes precede
	// the real body; a colon this early marks the line as metadata.
	metadataColonPos = 30

	headingLine   = regexp.MustCompile(`^#{1,6}\s`)
	outlinePrefix = regexp.MustCompile(`^\d+(\.\d+)*\.?\s+`)
	htmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// extractIntro finds the first real body paragraph of a section and
// renders it to HTML. The scan skips leading blanks, stray delimiter
// lines, metadata-looking lines, and headings, then collects contiguous
// lines until a heading or a second consecutive blank line. The result
// is never empty: when nothing usable is found, a fixed fallback
// sentence is returned.
func extractIntro(ctx context.Context, conv htmlConverter, content string) string {
	lines := strings.Split(content, "\n")

	var collected []string
	blanks := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if len(collected) == 0 {
			switch {
			case trimmed == "" || trimmed == frontmatterDelimiter:
				continue
			case headingLine.MatchString(trimmed):
				continue
			case looksLikeMetadata(trimmed):
				continue
			}
			collected = append(collected, trimmed)
			continue
		}

		if headingLine.MatchString(trimmed) {
			break
		}
		if trimmed == "" {
			blanks++
			if blanks >= 2 {
				break
			}
			collected = append(collected, "")
			continue
		}
		blanks = 0
		collected = append(collected, trimmed)
	}

	text := strings.TrimSpace(strings.Join(collected, "\n"))
	if text == "" {
		return fallbackIntro
	}

	html, err := conv.ToHTML(ctx, text)
	if err != nil || strings.TrimSpace(html) == "" {
		return fallbackIntro
	}
	return strings.TrimSpace(html)
}

// looksLikeMetadata reports whether a line reads as a leftover
// key-value pair rather than prose.
func looksLikeMetadata(line string) bool {
	idx := strings.Index(line, ":")
	return idx >= 0 && idx < metadataColonPos
}

// extractKeyTopics collects level-2 and level-3 headings in document
// order as the section's key topics. The first heading is dropped when
// it is level-2, since it usually restates the section title. Numeric
// outline prefixes ("3." or "2.1.") are stripped. At most maxKeyTopics
// are returned, and at least one: an empty result degrades to a fixed
// fallback topic.
func extractKeyTopics(ctx context.Context, conv htmlConverter, content string) []string {
	html, err := conv.ToHTML(ctx, content)
	if err != nil {
		return []string{fallbackTopic}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return []string{fallbackTopic}
	}

	var topics []string
	doc.Find("h2, h3").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i == 0 && goquery.NodeName(s) == "h2" {
			return true
		}
		text := outlinePrefix.ReplaceAllString(strings.TrimSpace(s.Text()), "")
		if text != "" {
			topics = append(topics, text)
		}
		return len(topics) < maxKeyTopics
	})

	if len(topics) == 0 {
		return []string{fallbackTopic}
	}
	return topics
}

// estimateReadingTime returns the estimated minutes to read content at
// readingWPM words per minute, floored at 1 and capped at
// maxReadingMinutes. Deterministic for identical content.
func estimateReadingTime(content string) int {
	text := htmlTag.ReplaceAllString(content, " ")
	words := len(strings.Fields(text))

	minutes := (words + readingWPM/2) / readingWPM
	if minutes < 1 {
		return 1
	}
	if minutes > maxReadingMinutes {
		return maxReadingMinutes
	}
	return minutes
}
