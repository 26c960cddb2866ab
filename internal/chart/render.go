package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Canvas dimensions in pixels, sized for 150 DPI print embedding.
const (
	defaultWidth  = 1200
	defaultHeight = 750
	wideWidth     = 1500
	wideHeight    = 900

	// Labels beyond this count get the wider canvas.
	wideLabelThreshold = 10

	// Horizontal bars grow the canvas vertically with the label count.
	hbarRowHeight = 90
)

// Font sizes in points at 96 DPI.
const (
	titleFontSize  = 21
	labelFontSize  = 15
	tickFontSize   = 13
	legendFontSize = 14
)

var (
	fontOnce    sync.Once
	fontRegular *sfnt.Font
	fontBold    *sfnt.Font
	fontErr     error
)

func loadFonts() (*sfnt.Font, *sfnt.Font, error) {
	fontOnce.Do(func() {
		fontRegular, fontErr = opentype.Parse(goregular.TTF)
		if fontErr != nil {
			return
		}
		fontBold, fontErr = opentype.Parse(gobold.TTF)
	})
	return fontRegular, fontBold, fontErr
}

func newFace(f *sfnt.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     96,
		Hinting: font.HintingFull,
	})
}

// figure bundles the drawing context with the fonts and palette every
// chart type needs. All per-render state lives here, so nothing leaks
// across render calls.
type figure struct {
	dc      *gg.Context
	width   float64
	height  float64
	regular *sfnt.Font
	bold    *sfnt.Font
	pal     *palette
	log     *slog.Logger
}

// faces the figure switches between while drawing.
func (f *figure) useFace(fnt *sfnt.Font, size float64) error {
	face, err := newFace(fnt, size)
	if err != nil {
		return err
	}
	f.dc.SetFontFace(face)
	return nil
}

// rect is a plot area in canvas coordinates.
type rect struct {
	x0, y0, x1, y1 float64
}

func (r rect) width() float64  { return r.x1 - r.x0 }
func (r rect) height() float64 { return r.y1 - r.y0 }

// Render rasterizes a validated spec to PNG bytes. It returns
// ErrUnsupportedType for unknown chart types and ErrNoRenderableData when
// filtering leaves nothing to draw; both mean "drop the chart", not
// "fail the document".
func Render(spec *Spec, rng *rand.Rand, log *slog.Logger) ([]byte, error) {
	regular, bold, err := loadFonts()
	if err != nil {
		return nil, fmt.Errorf("chart: loading fonts: %w", err)
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	typ := spec.NormalizedType()
	w, h := canvasSize(spec, typ)

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	fig := &figure{
		dc:      dc,
		width:   float64(w),
		height:  float64(h),
		regular: regular,
		bold:    bold,
		pal:     newPalette(rng),
		log:     log,
	}

	switch typ {
	case TypeBar:
		err = fig.drawBar(spec, false)
	case TypeHorizontalBar:
		err = fig.drawBar(spec, true)
	case TypeLine:
		err = fig.drawLine(spec)
	case TypePie, TypeDoughnut:
		err = fig.drawPie(spec, typ == TypeDoughnut)
	case TypeRadar:
		err = fig.drawRadar(spec)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, spec.Type)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("chart: encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// canvasSize picks the canvas dimensions for a spec. Horizontal bar
// charts grow with the label count so rows stay readable.
func canvasSize(spec *Spec, typ string) (int, int) {
	w, h := defaultWidth, defaultHeight
	labels := len(spec.Data.Labels)

	switch typ {
	case TypePie, TypeDoughnut, TypeRadar:
		// Radial charts keep the default square-ish canvas.
	case TypeHorizontalBar:
		if labels > 8 {
			h = max(wideHeight, labels*hbarRowHeight)
		}
	default:
		if labels > wideLabelThreshold {
			w, h = wideWidth, wideHeight
		}
	}
	return w, h
}

// drawTitle renders the bold centered title and returns the y offset
// content should start below.
func (f *figure) drawTitle(title string) (float64, error) {
	if title == "" {
		return 30, nil
	}
	if err := f.useFace(f.bold, titleFontSize); err != nil {
		return 0, err
	}
	f.dc.SetRGB(0, 0, 0)
	f.dc.DrawStringAnchored(title, f.width/2, 34, 0.5, 0.5)
	return 64, nil
}

// legendEntry pairs a swatch color with its dataset label.
type legendEntry struct {
	label string
	color color.Color
}

// legendEntries collects entries for datasets that carry labels, assigning
// each its resolved series color.
func legendEntries(spec *Spec, seriesColors []color.Color) []legendEntry {
	var entries []legendEntry
	for i, ds := range spec.Data.Datasets {
		if ds.Label == "" {
			continue
		}
		c := seriesColors[i%len(seriesColors)]
		entries = append(entries, legendEntry{label: ds.Label, color: c})
	}
	return entries
}

// Legend layout constants.
const (
	legendSwatch  = 16.0
	legendPad     = 8.0
	legendGap     = 28.0
	legendRow     = 26.0
	legendColumn  = 190.0
	legendReserve = 46.0
)

// reserveLegend shrinks the plot area to make room for the legend and
// returns the adjusted rect. The legend itself is drawn afterwards by
// drawLegend, always frameless.
func (f *figure) reserveLegend(spec *Spec, plot rect, entries []legendEntry) rect {
	if len(entries) == 0 || !spec.legendVisible() {
		return plot
	}
	switch spec.legendPosition() {
	case "top":
		plot.y0 += legendReserve
	case "bottom":
		plot.y1 -= legendReserve
	case "left":
		plot.x0 += legendColumn
	case "right":
		plot.x1 -= legendColumn
	}
	// "best" draws inside the plot area, no reservation.
	return plot
}

// drawLegend renders the legend at its configured position.
func (f *figure) drawLegend(spec *Spec, plot rect, entries []legendEntry) error {
	if len(entries) == 0 || !spec.legendVisible() {
		return nil
	}
	if err := f.useFace(f.regular, legendFontSize); err != nil {
		return err
	}

	switch spec.legendPosition() {
	case "top":
		f.drawLegendRow(entries, (plot.x0+plot.x1)/2, plot.y0-legendReserve/2)
	case "bottom":
		f.drawLegendRow(entries, (plot.x0+plot.x1)/2, plot.y1+legendReserve*0.8)
	case "left":
		f.drawLegendColumn(entries, plot.x0-legendColumn+legendPad, (plot.y0+plot.y1)/2)
	case "right":
		f.drawLegendColumn(entries, plot.x1+legendGap, (plot.y0+plot.y1)/2)
	default: // best
		f.drawLegendColumn(entries, plot.x1-legendColumn+legendPad, plot.y0+legendRow)
	}
	return nil
}

// drawLegendRow draws entries in up to three columns centered on cx.
func (f *figure) drawLegendRow(entries []legendEntry, cx, cy float64) {
	ncol := min(3, len(entries))
	nrow := (len(entries) + ncol - 1) / ncol

	widths := make([]float64, len(entries))
	var maxW float64
	for i, e := range entries {
		w, _ := f.dc.MeasureString(e.label)
		widths[i] = legendSwatch + legendPad + w
		maxW = math.Max(maxW, widths[i])
	}
	totalW := float64(ncol)*maxW + float64(ncol-1)*legendGap
	startX := cx - totalW/2
	startY := cy - float64(nrow-1)*legendRow/2

	for i, e := range entries {
		col := i % ncol
		row := i / ncol
		x := startX + float64(col)*(maxW+legendGap)
		y := startY + float64(row)*legendRow
		f.drawLegendEntry(e, x, y)
	}
}

// drawLegendColumn draws entries stacked vertically, centered on cy.
func (f *figure) drawLegendColumn(entries []legendEntry, x, cy float64) {
	startY := cy - float64(len(entries)-1)*legendRow/2
	for i, e := range entries {
		f.drawLegendEntry(e, x, startY+float64(i)*legendRow)
	}
}

func (f *figure) drawLegendEntry(e legendEntry, x, y float64) {
	f.dc.SetColor(e.color)
	f.dc.DrawRectangle(x, y-legendSwatch/2, legendSwatch, legendSwatch)
	f.dc.Fill()
	f.dc.SetRGB(0.2, 0.2, 0.2)
	f.dc.DrawStringAnchored(e.label, x+legendSwatch+legendPad, y, 0, 0.35)
}

// niceStep rounds raw up to a 1/2/5 multiple of a power of ten, giving
// readable axis tick intervals.
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	frac := raw / base
	switch {
	case frac <= 1:
		return base
	case frac <= 2:
		return 2 * base
	case frac <= 5:
		return 5 * base
	default:
		return 10 * base
	}
}

// valueRange returns rounded axis bounds and the tick step for the given
// data extremes, targeting about five ticks.
func valueRange(lo, hi float64, beginAtZero bool) (float64, float64, float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		lo, hi = 0, 1
	}
	if beginAtZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi == lo {
		hi = lo + 1
	}
	step := niceStep((hi - lo) / 4)
	lo = math.Floor(lo/step) * step
	hi = math.Ceil(hi/step) * step
	return lo, hi, step
}

// formatTick renders an axis tick value without trailing zero noise.
func formatTick(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// dataExtent scans all datasets for min and max, substituting def for
// non-numeric values and skipping NaN.
func dataExtent(datasets []Dataset, def float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, ds := range datasets {
		for _, v := range ds.Data {
			fv := toFloat(v, def)
			if math.IsNaN(fv) {
				continue
			}
			lo = math.Min(lo, fv)
			hi = math.Max(hi, fv)
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 1
	}
	return lo, hi
}

// seriesColor resolves one dataset's primary color: explicit spec color
// first, palette otherwise.
func seriesColor(explicit string, generated color.Color) color.Color {
	return parseColor(explicit, generated)
}
