package md2report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/haruda/go-md2report/internal/chart"
	"github.com/haruda/go-md2report/internal/fileutil"
)

// chartProcessor abstracts the chart engine so tests can run without
// rendering PNGs.
type chartProcessor interface {
	Process(markdown, graphsDir string) (string, error)
}

// Service orchestrates the markdown-to-report pipeline.
type Service struct {
	cfg       serviceConfig
	converter htmlConverter
	charts    chartProcessor
	assembler *assembler
	pdf       pdfConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout: defaultTimeout,
			log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		},
		converter: newGoldmarkConverter(),
		assembler: newAssembler(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.charts == nil {
		engineOpts := []chart.EngineOption{chart.WithLogger(s.cfg.log)}
		if s.cfg.seed != nil {
			engineOpts = append(engineOpts, chart.WithSeed(*s.cfg.seed))
		}
		s.charts = chart.NewEngine(engineOpts...)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if s.pdf == nil {
		s.pdf = newRodConverter(s.cfg.timeout)
	}

	return s
}

// GenerateFromDirectory reads the ordered section Markdown files under
// <baseDir>/markdown, runs the full pipeline, and writes the report to
// <baseDir>/pdf/<company>_<language>_Report.pdf, returning that path.
// Chart images land in <baseDir>/pdf/graphs. Missing or empty section
// files are skipped; a section whose processing fails is replaced with
// a placeholder. The whole call fails only when preconditions are
// violated, no section yields content, or the final document render
// fails — in that last case the intermediate HTML is saved next to the
// would-be PDF as a .debug.html file.
func (s *Service) GenerateFromDirectory(ctx context.Context, baseDir, company, language string, order []SectionRef) (string, error) {
	if !fileutil.DirExists(baseDir) {
		return "", fmt.Errorf("%w: %s", ErrBaseDirMissing, baseDir)
	}
	if len(order) == 0 {
		return "", ErrNoSections
	}

	markdownDir := filepath.Join(baseDir, "markdown")
	pdfDir := filepath.Join(baseDir, "pdf")
	graphsDir := filepath.Join(pdfDir, "graphs")
	if err := fileutil.EnsureDir(pdfDir); err != nil {
		return "", err
	}

	sections := s.readSections(markdownDir, order)
	if len(sections) == 0 {
		return "", fmt.Errorf("%w: nothing readable under %s", ErrNoContent, markdownDir)
	}

	slugs := newSlugSet()
	for _, sec := range sections {
		sec.ID = slugs.claim(sec.ID)
		s.processSection(ctx, sec, graphsDir, slugs)
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	rendered := 0
	for _, sec := range sections {
		if strings.TrimSpace(sec.HTMLContent) != "" {
			rendered++
		}
	}
	if rendered == 0 {
		return "", fmt.Errorf("%w: all sections rendered empty", ErrNoContent)
	}

	htmlDoc, err := s.assembler.Assemble(sections, company, language, s.cfg.extraCSS)
	if err != nil {
		return "", err
	}
	htmlDoc, err = rewriteImagePaths(htmlDoc, pdfDir)
	if err != nil {
		return "", fmt.Errorf("rewriting image paths: %w", err)
	}

	pdfPath := filepath.Join(pdfDir, reportFileName(company, language))
	pdfBytes, err := s.pdf.ToPDF(ctx, htmlDoc, company)
	if err != nil {
		s.dumpDebugHTML(pdfPath, htmlDoc)
		return "", fmt.Errorf("converting to PDF: %w", err)
	}

	// #nosec G306 -- PDF output files are intended to be readable
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWritePDF, err)
	}

	s.cfg.log.Info("report generated", "path", pdfPath, "sections", len(sections))
	return pdfPath, nil
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdf != nil {
		return s.pdf.Close()
	}
	return nil
}

// readSections loads the Markdown file for every ref that exists and is
// non-empty, preserving input order.
func (s *Service) readSections(markdownDir string, order []SectionRef) []*Section {
	var sections []*Section
	for _, ref := range order {
		path := filepath.Join(markdownDir, ref.ID+".md")
		raw, err := os.ReadFile(path) // #nosec G304 -- path is built from the caller's section list
		if err != nil {
			s.cfg.log.Warn("skipping section: file not readable", "section", ref.ID, "path", path)
			continue
		}
		if strings.TrimSpace(string(raw)) == "" {
			s.cfg.log.Warn("skipping section: file is empty", "section", ref.ID)
			continue
		}
		sections = append(sections, &Section{
			ID:         ref.ID,
			Title:      ref.Title,
			RawContent: string(raw),
		})
	}
	return sections
}

// processSection runs the per-section pipeline, isolating failures:
// whatever goes wrong, the section comes back populated, at worst with
// the fixed placeholder content.
func (s *Service) processSection(ctx context.Context, sec *Section, graphsDir string, slugs *slugSet) {
	defer func() {
		if r := recover(); r != nil {
			s.cfg.log.Error("section processing panicked", "section", sec.ID, "panic", r)
			markUnavailable(sec)
		}
	}()

	meta, body := splitFrontmatter(sec.RawContent)
	body = normalizeContent(body)
	sec.Metadata = meta

	sec.IntroHTML = extractIntro(ctx, s.converter, body)
	sec.KeyTopics = extractKeyTopics(ctx, s.converter, body)
	sec.ReadingTime = estimateReadingTime(body)

	html, err := s.convertBody(ctx, body, graphsDir)
	if err != nil {
		s.cfg.log.Error("section processing failed", "section", sec.ID, "error", err)
		markUnavailable(sec)
		return
	}
	html, err = postprocessHTML(html, slugs)
	if err != nil {
		s.cfg.log.Error("section postprocessing failed", "section", sec.ID, "error", err)
		markUnavailable(sec)
		return
	}
	sec.HTMLContent = html
}

// convertBody substitutes chart blocks and converts the result to HTML.
// If conversion of the substituted Markdown fails, it falls back to
// converting the original body without chart substitution and appends a
// visible processing notice, so content never disappears silently.
func (s *Service) convertBody(ctx context.Context, body, graphsDir string) (string, error) {
	substituted, err := s.charts.Process(body, graphsDir)
	if err != nil {
		s.cfg.log.Warn("chart processing failed, continuing without charts", "error", err)
		substituted = body
	}

	html, err := s.converter.ToHTML(ctx, substituted)
	if err == nil {
		return html, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	s.cfg.log.Warn("conversion failed, retrying with unsubstituted content", "error", err)
	html, err = s.converter.ToHTML(ctx, body)
	if err != nil {
		return "", err
	}
	return html + `<p class="processing-error">Some content in this section could not be fully processed.</p>`, nil
}

// markUnavailable resets a section to the fixed placeholder.
func markUnavailable(sec *Section) {
	sec.HTMLContent = placeholderHTML
	sec.IntroHTML = fallbackIntro
	sec.KeyTopics = []string{fallbackTopic}
	sec.ReadingTime = 1
}

// dumpDebugHTML saves the assembled HTML next to the would-be PDF when
// the final render fails. This is the only debugging aid for layout
// engine failures.
func (s *Service) dumpDebugHTML(pdfPath, htmlDoc string) {
	debugPath := strings.TrimSuffix(pdfPath, ".pdf") + ".debug.html"
	if err := fileutil.WriteFileAtomic(debugPath, []byte(htmlDoc)); err != nil {
		s.cfg.log.Error("writing debug HTML failed", "path", debugPath, "error", err)
		return
	}
	s.cfg.log.Warn("PDF render failed, debug HTML written", "path", debugPath)
}

// reportFileName builds the deterministic output name for a report.
func reportFileName(company, language string) string {
	return fmt.Sprintf("%s_%s_Report.pdf", sanitizeFileName(company), sanitizeFileName(language))
}

// sanitizeFileName strips path separators and whitespace runs from a
// name component.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	return strings.Join(strings.Fields(name), "_")
}
