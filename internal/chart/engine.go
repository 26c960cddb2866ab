package chart

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/haruda/go-md2report/internal/fileutil"
)

// blockPattern matches an embedded chart description. The match is
// case-insensitive and spans lines, since LLM output varies in both.
var blockPattern = regexp.MustCompile(`(?is)<GRAPH_JSON>(.*?)</GRAPH_JSON>`)

// citationMarker matches inline citation tags like [SS4] that leak from
// retrieval pipelines into source attributions.
var citationMarker = regexp.MustCompile(`\[SS\w*\]`)

// Engine replaces <GRAPH_JSON> blocks in Markdown with rendered chart
// figures. Invalid or unrenderable blocks become HTML comments, so one
// bad chart never takes down the document.
type Engine struct {
	log *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for chart processing diagnostics.
func WithLogger(log *slog.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithSeed fixes the palette randomness, making output bytes reproducible.
func WithSeed(seed int64) EngineOption {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// NewEngine returns an Engine ready to process Markdown.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process replaces every chart block in markdown with a figure element
// referencing a PNG written under graphsDir. Blocks that fail to parse,
// validate, or render are replaced with an HTML comment naming the
// reason. The figure src is relative ("graphs/<file>"), matching the
// layout the PDF step resolves against.
func (e *Engine) Process(markdown, graphsDir string) (string, error) {
	matches := blockPattern.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return markdown, nil
	}

	if err := fileutil.EnsureDir(graphsDir); err != nil {
		return "", fmt.Errorf("chart: creating graphs directory: %w", err)
	}

	var out strings.Builder
	out.Grow(len(markdown))
	lastEnd := 0
	for _, m := range matches {
		out.WriteString(markdown[lastEnd:m[0]])
		out.WriteString(e.replaceBlock(markdown[m[2]:m[3]], graphsDir, m[0]))
		lastEnd = m[1]
	}
	out.WriteString(markdown[lastEnd:])
	return out.String(), nil
}

// replaceBlock turns one raw chart block into figure HTML, or into a
// comment when anything goes wrong.
func (e *Engine) replaceBlock(raw, graphsDir string, offset int) string {
	spec, err := Parse(raw)
	if err != nil {
		e.log.Warn("dropping chart block", "offset", offset, "reason", err)
		return dropComment(fmt.Errorf("%w (block at offset %d)", err, offset))
	}
	if err := spec.Validate(); err != nil {
		e.log.Warn("dropping chart block", "type", spec.Type, "reason", err)
		return dropComment(err)
	}
	for i, ds := range spec.Data.Datasets {
		if ds.AllZero() {
			e.log.Warn("chart dataset is all zeros", "type", spec.Type, "dataset", i)
		}
	}

	name, err := e.fileName(spec, raw)
	if err != nil {
		e.log.Warn("dropping chart block", "type", spec.Type, "reason", err)
		return dropComment(err)
	}

	path := filepath.Join(graphsDir, name)
	if !fileutil.FileExists(path) {
		png, err := e.render(spec)
		if err != nil {
			e.log.Warn("dropping chart block", "type", spec.Type, "reason", err)
			return dropComment(err)
		}
		if err := fileutil.WriteFileAtomic(path, png); err != nil {
			e.log.Warn("dropping chart block", "type", spec.Type, "reason", err)
			return dropComment(err)
		}
	}

	return figureHTML(spec, "graphs/"+name)
}

func (e *Engine) render(spec *Spec) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Render(spec, e.rng, e.log)
}

// fileName derives the deterministic image name for a spec. The hash
// covers the repaired JSON with map keys sorted, so semantically equal
// blocks with different key order share one image.
func (e *Engine) fileName(spec *Spec, raw string) (string, error) {
	canonical, err := canonicalJSON(raw)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(canonical)
	return fmt.Sprintf("graph_%s_%s.png", spec.NormalizedType(), hex.EncodeToString(sum[:])[:12]), nil
}

// canonicalJSON re-encodes the repaired block through a generic decode,
// which sorts object keys.
func canonicalJSON(raw string) ([]byte, error) {
	repaired := trailingComma.ReplaceAllString(strings.TrimSpace(raw), "$1")
	var v any
	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return json.Marshal(v)
}

// figureHTML builds the figure element that replaces a chart block.
func figureHTML(spec *Spec, src string) string {
	alt := spec.Title
	if alt == "" {
		alt = "Chart"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<figure class=\"graph-figure\" data-graph-type=%q>\n", html.EscapeString(spec.NormalizedType()))
	fmt.Fprintf(&b, "<img class=\"graph-image\" src=%q alt=%q />\n", src, html.EscapeString(alt))
	if spec.Description != "" {
		fmt.Fprintf(&b, "<figcaption>%s</figcaption>\n", html.EscapeString(spec.Description))
	}
	if source := cleanSource(spec.Source); source != "" {
		fmt.Fprintf(&b, "<p class=\"graph-source\">%s</p>\n", html.EscapeString(source))
	}
	b.WriteString("</figure>")
	return b.String()
}

// cleanSource strips citation markers from a source attribution.
func cleanSource(s string) string {
	return strings.TrimSpace(citationMarker.ReplaceAllString(s, ""))
}

// dropComment is the in-document marker left where a chart block was
// removed.
func dropComment(err error) string {
	msg := strings.ReplaceAll(err.Error(), "--", "-")
	return fmt.Sprintf("<!-- chart removed: %s -->", msg)
}
