package chart

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	lineMarkerRadius = 5.0
	lineFillAlpha    = 0.25
)

// drawLine renders one polyline per dataset. Non-numeric points become
// gaps: the line breaks and resumes at the next numeric value.
func (f *figure) drawLine(spec *Spec) error {
	labels := spec.LabelStrings()
	datasets := spec.Data.Datasets

	top, err := f.drawTitle(spec.Title)
	if err != nil {
		return err
	}

	generated := f.pal.take(max(len(datasets), 1))
	colors := make([]color.Color, len(datasets))
	for i, ds := range datasets {
		c := ds.BorderColor
		if c == "" {
			c = ds.BackgroundColor.First()
		}
		colors[i] = parseColor(c, generated[i%len(generated)])
	}

	plot := rect{x0: 110, y0: top + 14, x1: f.width - 50, y1: f.height - 120}
	if axisTitle(spec.Options.Scales.YAxes) != "" {
		plot.x0 += 30
	}
	entries := legendEntries(spec, colors)
	plot = f.reserveLegend(spec, plot, entries)

	loV, hiV := dataExtent(datasets, math.NaN())
	lo, hi, step := valueRange(loV, hiV, spec.Options.beginAtZero())

	xFor := func(j int) float64 {
		if len(labels) == 1 {
			return (plot.x0 + plot.x1) / 2
		}
		return plot.x0 + float64(j)/float64(len(labels)-1)*plot.width()
	}
	yFor := func(v float64) float64 {
		return plot.y1 - (v-lo)/(hi-lo)*plot.height()
	}

	if err := f.drawValueGridY(plot, lo, hi, step, yFor); err != nil {
		return err
	}

	for i, ds := range datasets {
		values := ds.floatValues(math.NaN())
		if len(values) > len(labels) {
			values = values[:len(labels)]
		}
		if shouldFill(ds) {
			f.fillUnderLine(values, colors[i], xFor, yFor, plot.y1)
		}
		f.strokeLine(values, colors[i], borderWidthOr(ds, 2.5), xFor, yFor)
		f.drawMarkers(values, colors[i], xFor, yFor)
	}

	if err := f.drawAxisLines(plot); err != nil {
		return err
	}

	if err := f.useFace(f.regular, tickFontSize); err != nil {
		return err
	}
	f.dc.SetRGB(0.25, 0.25, 0.25)
	for j, label := range labels {
		x := xFor(j)
		y := plot.y1 + 14
		f.dc.Push()
		f.dc.RotateAbout(gg.Radians(-30), x, y)
		f.dc.DrawStringAnchored(truncateLabel(label, 28), x, y, 1, 0.5)
		f.dc.Pop()
	}

	if err := f.drawAxisTitles(spec, plot, false); err != nil {
		return err
	}
	return f.drawLegend(spec, plot, entries)
}

// strokeLine draws the polyline, breaking at NaN gaps.
func (f *figure) strokeLine(values []float64, c color.Color, width float64, xFor func(int) float64, yFor func(float64) float64) {
	f.dc.SetColor(c)
	f.dc.SetLineWidth(width)
	open := false
	for j, v := range values {
		if math.IsNaN(v) {
			if open {
				f.dc.Stroke()
				open = false
			}
			continue
		}
		if !open {
			f.dc.MoveTo(xFor(j), yFor(v))
			open = true
			continue
		}
		f.dc.LineTo(xFor(j), yFor(v))
	}
	if open {
		f.dc.Stroke()
	}
}

func (f *figure) drawMarkers(values []float64, c color.Color, xFor func(int) float64, yFor func(float64) float64) {
	f.dc.SetColor(c)
	for j, v := range values {
		if math.IsNaN(v) {
			continue
		}
		f.dc.DrawCircle(xFor(j), yFor(v), lineMarkerRadius)
		f.dc.Fill()
	}
}

// fillUnderLine shades each contiguous numeric run down to the axis.
func (f *figure) fillUnderLine(values []float64, c color.Color, xFor func(int) float64, yFor func(float64) float64, baseY float64) {
	f.dc.SetColor(withAlpha(c, lineFillAlpha))
	start := -1
	flush := func(end int) {
		if start < 0 || end-start < 2 {
			start = -1
			return
		}
		f.dc.MoveTo(xFor(start), baseY)
		for j := start; j < end; j++ {
			f.dc.LineTo(xFor(j), yFor(values[j]))
		}
		f.dc.LineTo(xFor(end-1), baseY)
		f.dc.ClosePath()
		f.dc.Fill()
		start = -1
	}
	for j, v := range values {
		if math.IsNaN(v) {
			flush(j)
			continue
		}
		if start < 0 {
			start = j
		}
	}
	flush(len(values))
}

// shouldFill reports whether the dataset asked for an area fill.
func shouldFill(ds Dataset) bool {
	return ds.Fill != nil && *ds.Fill
}
