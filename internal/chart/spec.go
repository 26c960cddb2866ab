// Package chart extracts declarative chart descriptions embedded in
// Markdown, validates them, and renders them to PNG images.
package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Chart type names after normalization.
const (
	TypeBar           = "bar"
	TypeHorizontalBar = "horizontalbar"
	TypeLine          = "line"
	TypePie           = "pie"
	TypeDoughnut      = "doughnut"
	TypeRadar         = "radar"
)

// Validation errors. All of them mean the chart is dropped, never that
// processing of the surrounding Markdown stops.
var (
	ErrMissingType       = errors.New("chart: missing or invalid type")
	ErrMissingData       = errors.New("chart: missing data object")
	ErrMissingLabels     = errors.New("chart: missing or empty labels")
	ErrMissingDatasets   = errors.New("chart: missing or empty datasets")
	ErrEmptyDataset      = errors.New("chart: dataset has no values")
	ErrPlaceholderValues = errors.New("chart: dataset contains placeholder values")
	ErrLengthMismatch    = errors.New("chart: dataset length does not match labels")
	ErrUnsupportedType   = errors.New("chart: unsupported type")
	ErrNoRenderableData  = errors.New("chart: no renderable data")
	ErrInvalidJSON       = errors.New("chart: invalid JSON")
)

// Value prefixes that indicate an LLM left a placeholder instead of a number.
var placeholderPrefixes = []string{"value", "[value", "insert", "replace", "num_", "placeholder"}

// trailingComma matches a trailing comma before a closing brace or bracket,
// a frequent artifact in LLM-emitted JSON.
var trailingComma = regexp.MustCompile(`,\s*([}\]])`)

// Spec is a declarative chart description decoded from a <GRAPH_JSON> block.
type Spec struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Source      string  `json:"source"`
	Data        Data    `json:"data"`
	Options     Options `json:"options"`
}

// Data holds the category labels and the value series.
type Data struct {
	Labels   []any     `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// Dataset is one value series. Color and width fields are optional;
// absent values fall back to generated palette colors and per-type defaults.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []any     `json:"data"`
	BackgroundColor ColorList `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
	BorderWidth     *float64  `json:"borderWidth"`
	Fill            *bool     `json:"fill"`
}

// ColorList accepts either a single color string or an array of color
// strings, both of which appear in Chart.js-style specs.
type ColorList []string

// UnmarshalJSON implements json.Unmarshaler.
func (c *ColorList) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*c = ColorList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*c = ColorList(many)
	return nil
}

// First returns the first color or "" when the list is empty.
func (c ColorList) First() string {
	if len(c) == 0 {
		return ""
	}
	return c[0]
}

// Options mirrors the subset of Chart.js options the renderer honors.
type Options struct {
	Legend Legend `json:"legend"`
	Scales Scales `json:"scales"`
}

// Legend controls legend visibility and placement.
type Legend struct {
	Display  *bool  `json:"display"`
	Position string `json:"position"`
}

// Scales carries per-axis options.
type Scales struct {
	XAxes []Axis `json:"xAxes"`
	YAxes []Axis `json:"yAxes"`
}

// Axis holds tick and label options for one axis.
type Axis struct {
	Ticks      Ticks      `json:"ticks"`
	ScaleLabel ScaleLabel `json:"scaleLabel"`
}

// Ticks holds tick generation options.
type Ticks struct {
	BeginAtZero *bool `json:"beginAtZero"`
}

// ScaleLabel is an optional axis title.
type ScaleLabel struct {
	Display     bool   `json:"display"`
	LabelString string `json:"labelString"`
}

// Parse repairs and decodes a raw JSON chart spec. The repair pass removes
// trailing commas before closing braces and brackets; anything else that
// fails to decode is reported as ErrInvalidJSON.
func Parse(raw string) (*Spec, error) {
	repaired := trailingComma.ReplaceAllString(strings.TrimSpace(raw), "$1")

	var spec Spec
	if err := json.Unmarshal([]byte(repaired), &spec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return &spec, nil
}

// NormalizedType lowercases the type and strips separators, so that
// "horizontal-bar", "horizontal_bar", and "horizontalBar" all map to
// the same renderer.
func (s *Spec) NormalizedType() string {
	t := strings.ToLower(strings.TrimSpace(s.Type))
	t = strings.ReplaceAll(t, "-", "")
	t = strings.ReplaceAll(t, "_", "")
	return t
}

// LabelStrings returns the labels coerced to strings.
func (s *Spec) LabelStrings() []string {
	out := make([]string, len(s.Data.Labels))
	for i, l := range s.Data.Labels {
		out[i] = labelString(l)
	}
	return out
}

func labelString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Validate checks that a decoded spec is structurally renderable.
// It enforces the shape rules only; type support is checked at render time
// so that new chart types fail with ErrUnsupportedType instead of a shape
// error.
func (s *Spec) Validate() error {
	if strings.TrimSpace(s.Type) == "" {
		return ErrMissingType
	}

	typ := s.NormalizedType()
	labelless := typ == TypePie || typ == TypeDoughnut

	hasLabels := len(s.Data.Labels) > 0
	if !hasLabels && !labelless {
		return ErrMissingLabels
	}
	if typ == TypeRadar && len(s.Data.Labels) < 3 {
		return fmt.Errorf("%w: radar needs at least 3 labels", ErrMissingLabels)
	}
	if len(s.Data.Datasets) == 0 {
		return ErrMissingDatasets
	}

	numLabels := len(s.Data.Labels)
	for i, ds := range s.Data.Datasets {
		if len(ds.Data) == 0 {
			return fmt.Errorf("%w: dataset %d", ErrEmptyDataset, i)
		}
		if ds.hasPlaceholders() {
			return fmt.Errorf("%w: dataset %d", ErrPlaceholderValues, i)
		}

		// Pie and doughnut slice one value per label and are exempt from
		// the grid-length rule; every other type must align values with
		// labels (or with the first dataset when labels are absent).
		if labelless {
			continue
		}
		if hasLabels {
			if len(ds.Data) != numLabels {
				return fmt.Errorf("%w: dataset %d has %d values for %d labels",
					ErrLengthMismatch, i, len(ds.Data), numLabels)
			}
		} else if i > 0 {
			if first := len(s.Data.Datasets[0].Data); len(ds.Data) != first {
				return fmt.Errorf("%w: dataset %d has %d values, dataset 0 has %d",
					ErrLengthMismatch, i, len(ds.Data), first)
			}
		}
	}

	return nil
}

// hasPlaceholders reports whether any value looks like an unfilled LLM
// placeholder such as "value_1" or "[VALUE]".
func (ds *Dataset) hasPlaceholders() bool {
	for _, v := range ds.Data {
		str, ok := v.(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(strings.TrimSpace(str))
		for _, prefix := range placeholderPrefixes {
			if strings.HasPrefix(lower, prefix) {
				return true
			}
		}
	}
	return false
}

// AllZero reports whether every numeric value in the dataset is zero.
// All-zero series render fine but usually mean the model had no data,
// so callers log them as suspicious.
func (ds *Dataset) AllZero() bool {
	sawNumeric := false
	for _, v := range ds.Data {
		f := toFloat(v, math.NaN())
		if math.IsNaN(f) {
			continue
		}
		sawNumeric = true
		if math.Abs(f) > 1e-9 {
			return false
		}
	}
	return sawNumeric
}

// valueCleaner strips currency symbols, percent signs, and thousands
// separators before numeric parsing.
var valueCleaner = strings.NewReplacer(",", "", "¥", "", "$", "", "€", "", "£", "", "%", "")

// toFloat coerces a JSON value to float64, substituting def when the value
// is not numeric. Strings like "¥1,234.5" and "12%" parse successfully.
func toFloat(v any, def float64) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		cleaned := strings.TrimSpace(valueCleaner.Replace(t))
		if cleaned == "" {
			return def
		}
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return def
		}
		return f
	default:
		return def
	}
}

// floatValues coerces a dataset's values, substituting def for
// non-numeric entries.
func (ds *Dataset) floatValues(def float64) []float64 {
	out := make([]float64, len(ds.Data))
	for i, v := range ds.Data {
		out[i] = toFloat(v, def)
	}
	return out
}

// beginAtZero reports whether the y axis should include zero.
// Defaults to true, matching Chart.js bar and line behavior.
func (o *Options) beginAtZero() bool {
	if len(o.Scales.YAxes) == 0 || o.Scales.YAxes[0].Ticks.BeginAtZero == nil {
		return true
	}
	return *o.Scales.YAxes[0].Ticks.BeginAtZero
}

// axisTitle returns the configured title for the first axis in the list,
// or "" when not displayed.
func axisTitle(axes []Axis) string {
	if len(axes) == 0 {
		return ""
	}
	sl := axes[0].ScaleLabel
	if !sl.Display || sl.LabelString == "" {
		return ""
	}
	return sl.LabelString
}

// legendVisible reports whether a legend should be drawn. The legend is on
// by default and only drawn when at least one dataset carries a label.
func (s *Spec) legendVisible() bool {
	if s.Options.Legend.Display != nil && !*s.Options.Legend.Display {
		return false
	}
	for _, ds := range s.Data.Datasets {
		if ds.Label != "" {
			return true
		}
	}
	return false
}

// legendPosition returns the normalized legend position, defaulting to top.
func (s *Spec) legendPosition() string {
	switch strings.ToLower(s.Options.Legend.Position) {
	case "bottom":
		return "bottom"
	case "left":
		return "left"
	case "right":
		return "right"
	case "best":
		return "best"
	default:
		return "top"
	}
}
