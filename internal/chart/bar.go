package chart

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// Fraction of each category slot occupied by the bar group.
const barGroupFraction = 0.8

// drawBar renders grouped vertical bars, or horizontal bars with the
// category axis on the left when horizontal is true.
func (f *figure) drawBar(spec *Spec, horizontal bool) error {
	labels := spec.LabelStrings()
	datasets := spec.Data.Datasets

	top, err := f.drawTitle(spec.Title)
	if err != nil {
		return err
	}

	generated := f.pal.take(max(len(datasets), 1))
	colors := make([]color.Color, len(datasets))
	for i, ds := range datasets {
		colors[i] = seriesColor(ds.BackgroundColor.First(), generated[i%len(generated)])
	}

	plot := rect{x0: 110, y0: top + 14, x1: f.width - 50, y1: f.height - 120}
	if horizontal {
		plot.x0 = 260
		plot.y1 = f.height - 90
	}
	if axisTitle(spec.Options.Scales.YAxes) != "" {
		plot.x0 += 30
	}
	entries := legendEntries(spec, colors)
	plot = f.reserveLegend(spec, plot, entries)

	loV, hiV := dataExtent(datasets, 0)
	lo, hi, step := valueRange(loV, hiV, spec.Options.beginAtZero())

	if horizontal {
		err = f.drawHorizontalBars(spec, plot, labels, colors, lo, hi, step)
	} else {
		err = f.drawVerticalBars(spec, plot, labels, colors, lo, hi, step)
	}
	if err != nil {
		return err
	}

	return f.drawLegend(spec, plot, entries)
}

func (f *figure) drawVerticalBars(spec *Spec, plot rect, labels []string, colors []color.Color, lo, hi, step float64) error {
	datasets := spec.Data.Datasets
	yFor := func(v float64) float64 {
		return plot.y1 - (v-lo)/(hi-lo)*plot.height()
	}

	if err := f.drawValueGridY(plot, lo, hi, step, yFor); err != nil {
		return err
	}

	// Grouped bars, one color per dataset.
	slot := plot.width() / float64(len(labels))
	groupW := slot * barGroupFraction
	barW := groupW / float64(len(datasets))
	baseline := yFor(clamp(0, lo, hi))

	for i, ds := range datasets {
		values := ds.floatValues(0)
		border := parseColor(ds.BorderColor, colors[i])
		for j, v := range values {
			if j >= len(labels) {
				break
			}
			x := plot.x0 + float64(j)*slot + (slot-groupW)/2 + float64(i)*barW
			y := yFor(v)
			f.dc.SetColor(colors[i])
			f.dc.DrawRectangle(x, math.Min(y, baseline), barW, math.Abs(baseline-y))
			f.dc.FillPreserve()
			f.dc.SetColor(border)
			f.dc.SetLineWidth(borderWidthOr(ds, 1))
			f.dc.Stroke()
		}
	}

	if err := f.drawAxisLines(plot); err != nil {
		return err
	}

	// Rotated category labels below the axis.
	if err := f.useFace(f.regular, tickFontSize); err != nil {
		return err
	}
	f.dc.SetRGB(0.25, 0.25, 0.25)
	for j, label := range labels {
		x := plot.x0 + (float64(j)+0.5)*slot
		y := plot.y1 + 14
		f.dc.Push()
		f.dc.RotateAbout(gg.Radians(-30), x, y)
		f.dc.DrawStringAnchored(truncateLabel(label, 28), x, y, 1, 0.5)
		f.dc.Pop()
	}

	return f.drawAxisTitles(spec, plot, false)
}

func (f *figure) drawHorizontalBars(spec *Spec, plot rect, labels []string, colors []color.Color, lo, hi, step float64) error {
	datasets := spec.Data.Datasets
	xFor := func(v float64) float64 {
		return plot.x0 + (v-lo)/(hi-lo)*plot.width()
	}

	if err := f.drawValueGridX(plot, lo, hi, step, xFor); err != nil {
		return err
	}

	// First label at the top, mirroring the vertical variant's reading order.
	slot := plot.height() / float64(len(labels))
	groupH := slot * barGroupFraction
	barH := groupH / float64(len(datasets))
	baseline := xFor(clamp(0, lo, hi))

	for i, ds := range datasets {
		values := ds.floatValues(0)
		border := parseColor(ds.BorderColor, colors[i])
		for j, v := range values {
			if j >= len(labels) {
				break
			}
			y := plot.y0 + float64(j)*slot + (slot-groupH)/2 + float64(i)*barH
			x := xFor(v)
			f.dc.SetColor(colors[i])
			f.dc.DrawRectangle(math.Min(x, baseline), y, math.Abs(x-baseline), barH)
			f.dc.FillPreserve()
			f.dc.SetColor(border)
			f.dc.SetLineWidth(borderWidthOr(ds, 1))
			f.dc.Stroke()
		}
	}

	if err := f.drawAxisLines(plot); err != nil {
		return err
	}

	if err := f.useFace(f.regular, tickFontSize); err != nil {
		return err
	}
	f.dc.SetRGB(0.25, 0.25, 0.25)
	for j, label := range labels {
		y := plot.y0 + (float64(j)+0.5)*slot
		f.dc.DrawStringAnchored(truncateLabel(label, 30), plot.x0-12, y, 1, 0.35)
	}

	return f.drawAxisTitles(spec, plot, true)
}

// drawValueGridY draws horizontal grid lines and tick labels for a
// vertical value axis.
func (f *figure) drawValueGridY(plot rect, lo, hi, step float64, yFor func(float64) float64) error {
	if err := f.useFace(f.regular, tickFontSize); err != nil {
		return err
	}
	f.dc.SetLineWidth(1)
	for v := lo; v <= hi+step/2; v += step {
		y := yFor(v)
		f.dc.SetRGBA(0.5, 0.5, 0.5, 0.55)
		f.dc.SetDash(2, 5)
		f.dc.DrawLine(plot.x0, y, plot.x1, y)
		f.dc.Stroke()
		f.dc.SetDash()
		f.dc.SetRGB(0.3, 0.3, 0.3)
		f.dc.DrawStringAnchored(formatTick(v), plot.x0-10, y, 1, 0.35)
	}
	return nil
}

// drawValueGridX draws vertical grid lines and tick labels for a
// horizontal value axis.
func (f *figure) drawValueGridX(plot rect, lo, hi, step float64, xFor func(float64) float64) error {
	if err := f.useFace(f.regular, tickFontSize); err != nil {
		return err
	}
	f.dc.SetLineWidth(1)
	for v := lo; v <= hi+step/2; v += step {
		x := xFor(v)
		f.dc.SetRGBA(0.5, 0.5, 0.5, 0.55)
		f.dc.SetDash(2, 5)
		f.dc.DrawLine(x, plot.y0, x, plot.y1)
		f.dc.Stroke()
		f.dc.SetDash()
		f.dc.SetRGB(0.3, 0.3, 0.3)
		f.dc.DrawStringAnchored(formatTick(v), x, plot.y1+10, 0.5, 1)
	}
	return nil
}

// drawAxisLines strokes the left and bottom plot borders.
func (f *figure) drawAxisLines(plot rect) error {
	f.dc.SetRGB(0.15, 0.15, 0.15)
	f.dc.SetLineWidth(1.5)
	f.dc.DrawLine(plot.x0, plot.y0, plot.x0, plot.y1)
	f.dc.DrawLine(plot.x0, plot.y1, plot.x1, plot.y1)
	f.dc.Stroke()
	return nil
}

// drawAxisTitles renders the configured axis titles, if any.
func (f *figure) drawAxisTitles(spec *Spec, plot rect, horizontal bool) error {
	xTitle := axisTitle(spec.Options.Scales.XAxes)
	yTitle := axisTitle(spec.Options.Scales.YAxes)
	if xTitle == "" && yTitle == "" {
		return nil
	}
	if err := f.useFace(f.regular, labelFontSize); err != nil {
		return err
	}
	f.dc.SetRGB(0.2, 0.2, 0.2)

	if xTitle != "" {
		f.dc.DrawStringAnchored(xTitle, (plot.x0+plot.x1)/2, f.height-18, 0.5, 0.5)
	}
	if yTitle != "" {
		x := 24.0
		y := (plot.y0 + plot.y1) / 2
		f.dc.Push()
		f.dc.RotateAbout(gg.Radians(-90), x, y)
		f.dc.DrawStringAnchored(yTitle, x, y, 0.5, 0.5)
		f.dc.Pop()
	}
	return nil
}

// borderWidthOr returns the dataset's border width or def when unset.
func borderWidthOr(ds Dataset, def float64) float64 {
	if ds.BorderWidth == nil {
		return def
	}
	return *ds.BorderWidth
}

// truncateLabel shortens long tick labels with an ellipsis.
func truncateLabel(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
