package md2report

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\w\s-]`)
	slugWhitespace   = regexp.MustCompile(`[\s_]+`)
	slugHyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// slugify turns heading or topic text into an anchor-safe identifier:
// lowercase, non-word characters stripped, whitespace collapsed to
// single hyphens.
func slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "section"
	}
	return s
}

// slugSet hands out document-wide unique slugs. Collisions get an
// incrementing numeric suffix: overview, overview-1, overview-2.
type slugSet struct {
	seen map[string]int
}

func newSlugSet() *slugSet {
	return &slugSet{seen: make(map[string]int)}
}

// claim returns a unique variant of the slug for text and records it.
func (s *slugSet) claim(text string) string {
	base := slugify(text)
	n, taken := s.seen[base]
	if !taken {
		s.seen[base] = 0
		return base
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", base, n)
		if _, exists := s.seen[candidate]; !exists {
			s.seen[base] = n
			s.seen[candidate] = 0
			return candidate
		}
	}
}
