package md2report

import (
	"fmt"
	"html"
	"strings"
)

// buildTOC renders the table of contents fragment for the processed
// sections. Sections with empty rendered content are skipped entirely,
// so the TOC never links to a missing chapter. Entry order mirrors
// section order. Topic sub-links reuse the anchors assigned to the
// section divider pages.
func buildTOC(sections []*Section) string {
	var b strings.Builder
	b.WriteString("<div class=\"table-of-contents\">\n")
	b.WriteString("<div class=\"toc-container\">\n")
	b.WriteString("<h1 class=\"toc-title\">Table of Contents</h1>\n")
	b.WriteString("<ul class=\"toc-entries\">\n")

	for _, sec := range sections {
		if strings.TrimSpace(sec.HTMLContent) == "" {
			continue
		}
		fmt.Fprintf(&b, "<li class=\"toc-entry\"><a class=\"toc-link\" href=\"#%s\">%s</a>\n",
			sec.ID, html.EscapeString(sec.Title))
		if len(sec.KeyTopics) > 0 {
			b.WriteString("<ul class=\"toc-subentries\">\n")
			for _, topic := range sec.KeyTopics {
				fmt.Fprintf(&b, "<li class=\"toc-subentry\"><a class=\"toc-sublink\" href=\"#%s\">%s</a></li>\n",
					topicAnchor(sec.ID, topic), html.EscapeString(topic))
			}
			b.WriteString("</ul>\n")
		}
		b.WriteString("</li>\n")
	}

	b.WriteString("</ul>\n</div>\n</div>")
	return b.String()
}

// topicAnchor is the shared anchor ID for one key topic, used both on
// the section divider page and in the TOC sub-link pointing at it.
func topicAnchor(sectionID, topic string) string {
	return sectionID + "-topic-" + slugify(topic)
}
