package md2report

import (
	"log/slog"
	"time"
)

// SectionRef identifies one section of the report: the Markdown file to
// read and the display title to use for it. The ordering of refs passed
// to GenerateFromDirectory is the document order.
type SectionRef struct {
	ID    string
	Title string
}

// Meta is the parsed YAML frontmatter of a section. Malformed or absent
// frontmatter degrades to an empty map, never to an error.
type Meta map[string]any

// String returns the value for key coerced to a string, or "" when the
// key is absent or not a string.
func (m Meta) String(key string) string {
	s, _ := m[key].(string)
	return s
}

// Section is one logical chapter of the report. It is constructed when
// its Markdown file is read and fully populated by the processing
// pipeline; fields are set exactly once and read-only afterward.
type Section struct {
	ID         string
	Title      string
	RawContent string
	Metadata   Meta

	IntroHTML   string
	KeyTopics   []string
	ReadingTime int // minutes
	HTMLContent string
}

// Derived-info bounds and fallbacks.
const (
	// readingWPM is the assumed reading speed. The estimate is floored
	// at one minute and capped at maxReadingMinutes.
	readingWPM        = 250
	maxReadingMinutes = 10

	// maxKeyTopics caps the topics shown on a section divider.
	maxKeyTopics = 5

	fallbackTopic = "Detailed Analysis"
	fallbackIntro = "<p>This section contains detailed analysis and insights regarding the main topic.</p>"

	// placeholderHTML stands in for a section whose processing failed.
	placeholderHTML = "<p>Content for this section is currently unavailable.</p>"
)

// defaultTimeout bounds the PDF render step when no timeout is configured.
const defaultTimeout = 120 * time.Second

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout  time.Duration
	extraCSS string
	log      *slog.Logger
	seed     *int64
}

// WithTimeout sets the PDF render timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2report: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithLogger sets the logger for pipeline diagnostics. The default
// discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.cfg.log = log
		}
	}
}

// WithExtraCSS appends CSS after the built-in style sheet, letting
// callers override individual rules without replacing the whole sheet.
func WithExtraCSS(css string) Option {
	return func(s *Service) {
		s.cfg.extraCSS = css
	}
}

// WithChartSeed fixes the chart color randomness, making rendered
// graphs byte-stable across runs.
func WithChartSeed(seed int64) Option {
	return func(s *Service) {
		s.cfg.seed = &seed
	}
}
