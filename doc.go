// Package md2report assembles LLM-generated Markdown research sections
// into a single styled, paginated PDF report.
//
// Each section is read from a per-section Markdown file, split from its
// YAML frontmatter, normalized, and enriched with derived information
// (intro paragraph, key topics, reading time). Embedded <GRAPH_JSON>
// chart descriptions are validated and rendered to PNG images, the
// Markdown is converted to HTML, and all sections are combined with a
// table of contents, cover pages, and a fixed style sheet, then laid
// out to PDF by headless Chrome.
//
// The pipeline is deliberately tolerant: malformed frontmatter, broken
// chart JSON, and per-section processing failures all degrade to
// documented fallbacks instead of aborting the document.
package md2report
