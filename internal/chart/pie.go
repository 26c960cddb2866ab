package chart

import (
	"fmt"
	"image/color"
	"math"
)

const doughnutHoleRatio = 0.70

// slice is one renderable pie wedge after filtering.
type slice struct {
	label string
	value float64
	color color.Color
}

// drawPie renders a pie chart, or a doughnut when doughnut is true.
// Slices with zero or negative values are dropped; if nothing positive
// remains the chart is not renderable.
func (f *figure) drawPie(spec *Spec, doughnut bool) error {
	labels := spec.LabelStrings()
	ds := spec.Data.Datasets[0]
	values := ds.floatValues(0)

	var slices []slice
	var total float64
	for i, v := range values {
		if math.IsNaN(v) || v <= 0 {
			continue
		}
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		slices = append(slices, slice{label: label, value: v, color: explicitSliceColor(ds, i)})
		total += v
	}
	if len(slices) == 0 {
		return fmt.Errorf("%w: no positive values", ErrNoRenderableData)
	}

	generated := f.pal.take(len(slices))
	for i := range slices {
		if slices[i].color == nil {
			slices[i].color = generated[i]
		}
	}

	top, err := f.drawTitle(spec.Title)
	if err != nil {
		return err
	}

	cx := f.width / 2
	cy := top + (f.height-top)/2
	r := math.Min(f.width, f.height-top)/2 - 130

	// Wedges start at twelve o'clock.
	angle := -math.Pi / 2
	for _, s := range slices {
		sweep := s.value / total * 2 * math.Pi
		f.dc.SetColor(s.color)
		f.dc.MoveTo(cx, cy)
		f.dc.DrawArc(cx, cy, r, angle, angle+sweep)
		f.dc.ClosePath()
		f.dc.FillPreserve()
		f.dc.SetRGB(1, 1, 1)
		f.dc.SetLineWidth(2)
		f.dc.Stroke()
		angle += sweep
	}

	if doughnut {
		f.dc.SetRGB(1, 1, 1)
		f.dc.DrawCircle(cx, cy, r*doughnutHoleRatio)
		f.dc.Fill()
	}

	if err := f.drawSliceLabels(slices, total, cx, cy, r, doughnut); err != nil {
		return err
	}

	colors := make([]color.Color, len(spec.Data.Datasets))
	for i := range colors {
		colors[i] = generated[i%len(generated)]
	}
	plot := rect{x0: 60, y0: top, x1: f.width - 60, y1: f.height - 40}
	return f.drawLegend(spec, plot, legendEntries(spec, colors))
}

// drawSliceLabels writes the percentage inside each wedge and the slice
// name just outside it.
func (f *figure) drawSliceLabels(slices []slice, total, cx, cy, r float64, doughnut bool) error {
	pctRadius := r * 0.82
	if doughnut {
		pctRadius = r * (1 + doughnutHoleRatio) / 2
	}

	angle := -math.Pi / 2
	for _, s := range slices {
		sweep := s.value / total * 2 * math.Pi
		mid := angle + sweep/2
		angle += sweep

		if err := f.useFace(f.bold, tickFontSize); err != nil {
			return err
		}
		f.dc.SetRGB(1, 1, 1)
		pct := s.value / total * 100
		f.dc.DrawStringAnchored(fmt.Sprintf("%.1f%%", pct),
			cx+pctRadius*math.Cos(mid), cy+pctRadius*math.Sin(mid), 0.5, 0.35)

		if s.label == "" {
			continue
		}
		if err := f.useFace(f.regular, labelFontSize); err != nil {
			return err
		}
		f.dc.SetRGB(0.2, 0.2, 0.2)
		lx := cx + (r+18)*math.Cos(mid)
		ly := cy + (r+18)*math.Sin(mid)
		// Anchor the label away from the circle.
		ax := 0.5 - 0.5*math.Cos(mid)
		f.dc.DrawStringAnchored(truncateLabel(s.label, 30), lx, ly, ax, 0.5-0.4*math.Sin(mid))
	}
	return nil
}

// explicitSliceColor returns the spec color for slice i, or nil when the
// palette should decide.
func explicitSliceColor(ds Dataset, i int) color.Color {
	if i >= len(ds.BackgroundColor) {
		return nil
	}
	c := parseColor(ds.BackgroundColor[i], nil)
	return c
}
