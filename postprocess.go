package md2report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// numericCell matches currency amounts, percentages, and plain numbers,
// the cell contents that read better right-aligned.
var numericCell = regexp.MustCompile(`^[-+]?([¥$€£]?\s?\d{1,3}(,\d{3})*(\.\d+)?%?|\d+\.?\d*%?)$`)

// maxListLevel caps nesting classes; deeper lists reuse the last style.
const maxListLevel = 4

// postprocessHTML applies the DOM-level enhancement passes to a
// converted section fragment: heading classes and IDs, list nesting
// classes, table styling, definition lists, and footnotes. Heading IDs
// are drawn from slugs, which is shared across all sections of one
// document so anchors stay globally unique.
func postprocessHTML(fragment string, slugs *slugSet) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}

	enhanceHeadings(doc, slugs)
	enhanceLists(doc)
	enhanceTables(doc)
	enhanceDefinitionLists(doc)
	enhanceFootnotes(doc)

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
	}
	return out, nil
}

// enhanceHeadings tags each heading with a level class and gives every
// heading without an ID a document-unique slug.
func enhanceHeadings(doc *goquery.Document, slugs *slugSet) {
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level := goquery.NodeName(s)[1:]
		s.AddClass("heading-h" + level)
		if _, ok := s.Attr("id"); !ok {
			s.SetAttr("id", slugs.claim(s.Text()))
		}
	})
}

// enhanceLists tags lists and items with nesting-level classes. The CSS
// varies marker style per level: disc, circle, square, dash for
// unordered lists; decimal, lower-alpha, lower-roman for ordered.
func enhanceLists(doc *goquery.Document) {
	doc.Find("ul, ol").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered("ul, ol").Length() == 0 {
			tagList(s, 1)
		}
	})
}

func tagList(list *goquery.Selection, level int) {
	if level > maxListLevel {
		level = maxListLevel
	}
	if level == 1 {
		list.AddClass("enhanced-list")
	} else {
		list.AddClass("nested-list")
	}
	list.AddClass(fmt.Sprintf("level-%d", level))

	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		li.AddClass("list-item")
		li.ChildrenFiltered("ul, ol").Each(func(_ int, nested *goquery.Selection) {
			tagList(nested, level+1)
		})
	})
}

// enhanceTables wraps each table in a responsive container, applies
// styling classes, marks header presence, and right-aligns cells whose
// text reads as a number, currency amount, or percentage.
func enhanceTables(doc *goquery.Document) {
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.AddClass("enhanced-table")
		table.AddClass("zebra-stripe")
		if table.Find("thead, th").Length() > 0 {
			table.AddClass("has-header")
		}

		table.Find("td").Each(func(_ int, cell *goquery.Selection) {
			if numericCell.MatchString(strings.TrimSpace(cell.Text())) {
				cell.AddClass("text-right")
			}
		})

		table.WrapHtml(`<div class="table-responsive"></div>`)
	})
}

func enhanceDefinitionLists(doc *goquery.Document) {
	doc.Find("dl").Each(func(_ int, s *goquery.Selection) {
		s.AddClass("definition-list")
	})
}

// enhanceFootnotes styles goldmark's footnote block and makes sure a
// "Footnotes" heading precedes the list when none is there already.
func enhanceFootnotes(doc *goquery.Document) {
	doc.Find("div.footnotes").Each(func(_ int, block *goquery.Selection) {
		block.AddClass("enhanced-footnotes")
		block.Find("ol").AddClass("footnote-list")
		block.Find("li").AddClass("footnote-item")
		if block.Find("h1, h2, h3, h4, h5, h6").Length() == 0 {
			block.PrependHtml(`<h3 class="footnote-title">Footnotes</h3>`)
		}
	})
}
