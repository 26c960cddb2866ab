package md2report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/haruda/go-md2report/internal/assets"
)

// documentData is the root template context for the report document.
type documentData struct {
	Company       string
	Language      string
	GeneratedDate string
	TOC           template.HTML
	Sections      []sectionView
}

// sectionView is one section as the template sees it.
type sectionView struct {
	ID          string
	Title       string
	Topics      []topicView
	ReadingTime int
	IntroHTML   template.HTML
	HTMLContent template.HTML
}

// topicView pairs a key topic with its anchor ID.
type topicView struct {
	Anchor string
	Text   string
}

// assembler merges processed sections, the TOC, and the style sheet
// into the final HTML document.
type assembler struct {
	tmpl *template.Template
}

// newAssembler creates an assembler with the embedded report template.
// Panics if the template cannot be loaded or parsed (programmer error).
func newAssembler() *assembler {
	tmplContent, err := assets.LoadTemplate("report")
	if err != nil {
		panic("failed to load report template: " + err.Error())
	}
	tmpl, err := template.New("report").Parse(tmplContent)
	if err != nil {
		panic("failed to parse report template: " + err.Error())
	}
	return &assembler{tmpl: tmpl}
}

// Assemble renders the full document HTML with the built-in style sheet
// (plus any extra CSS) injected into the head.
func (a *assembler) Assemble(sections []*Section, company, language, extraCSS string) (string, error) {
	data := documentData{
		Company:       company,
		Language:      language,
		GeneratedDate: time.Now().Format("January 2, 2006"),
		TOC:           template.HTML(buildTOC(sections)),
	}
	for _, sec := range sections {
		if strings.TrimSpace(sec.HTMLContent) == "" {
			continue
		}
		view := sectionView{
			ID:          sec.ID,
			Title:       sec.Title,
			ReadingTime: sec.ReadingTime,
			IntroHTML:   template.HTML(sec.IntroHTML),
			HTMLContent: template.HTML(sec.HTMLContent),
		}
		for _, topic := range sec.KeyTopics {
			view.Topics = append(view.Topics, topicView{
				Anchor: topicAnchor(sec.ID, topic),
				Text:   topic,
			})
		}
		data.Sections = append(data.Sections, view)
	}

	var buf bytes.Buffer
	if err := a.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	css, err := assets.LoadStyle("report")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	if extraCSS != "" {
		css += "\n" + extraCSS
	}
	return injectCSS(buf.String(), css), nil
}

// injectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent injection attacks.
func injectCSS(htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	// Try inserting before </head>
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	// Try inserting after <body>
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		// Find the closing > of <body...>
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	// Fallback: prepend
	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
