package chart

import (
	"fmt"
	"image/color"
	"math"
)

const (
	radarRings     = 4
	radarFillAlpha = 0.25
)

// drawRadar renders overlapping polygons on a radial grid. Datasets
// whose value count does not match the label count are skipped
// individually; the chart fails only when nothing is left to draw.
func (f *figure) drawRadar(spec *Spec) error {
	labels := spec.LabelStrings()
	n := len(labels)

	var usable []Dataset
	for _, ds := range spec.Data.Datasets {
		if len(ds.Data) != n {
			f.log.Warn("skipping radar dataset with mismatched length",
				"dataset", ds.Label, "values", len(ds.Data), "labels", n)
			continue
		}
		usable = append(usable, ds)
	}
	if len(usable) == 0 {
		return fmt.Errorf("%w: no dataset matches the label count", ErrNoRenderableData)
	}

	top, err := f.drawTitle(spec.Title)
	if err != nil {
		return err
	}

	cx := f.width / 2
	cy := top + (f.height-top)/2
	r := math.Min(f.width, f.height-top)/2 - 120

	_, hi := dataExtent(usable, 0)
	if hi <= 0 {
		hi = 1
	}
	rmax := niceStep(hi/radarRings) * radarRings
	for rmax < hi {
		rmax += niceStep(hi / radarRings)
	}

	// Spoke k points at angleFor(k), starting at twelve o'clock.
	angleFor := func(k int) float64 {
		return -math.Pi/2 + float64(k)/float64(n)*2*math.Pi
	}
	pointFor := func(k int, v float64) (float64, float64) {
		rr := v / rmax * r
		a := angleFor(k)
		return cx + rr*math.Cos(a), cy + rr*math.Sin(a)
	}

	if err := f.drawRadarGrid(labels, cx, cy, r, rmax, angleFor); err != nil {
		return err
	}

	generated := f.pal.take(len(usable))
	colors := make([]color.Color, len(usable))
	for i, ds := range usable {
		c := ds.BorderColor
		if c == "" {
			c = ds.BackgroundColor.First()
		}
		colors[i] = parseColor(c, generated[i])

		values := ds.floatValues(0)
		f.dc.SetColor(withAlpha(colors[i], radarFillAlpha))
		f.traceRadarPolygon(values, pointFor)
		f.dc.Fill()

		f.dc.SetColor(colors[i])
		f.dc.SetLineWidth(borderWidthOr(ds, 2))
		f.traceRadarPolygon(values, pointFor)
		f.dc.Stroke()

		for k, v := range values {
			x, y := pointFor(k, clamp(v, 0, rmax))
			f.dc.DrawCircle(x, y, 4)
			f.dc.Fill()
		}
	}

	view := &Spec{Data: Data{Datasets: usable}, Options: spec.Options}
	plot := rect{x0: 60, y0: top, x1: f.width - 60, y1: f.height - 40}
	return f.drawLegend(view, plot, legendEntries(view, colors))
}

// traceRadarPolygon builds the closed polygon path for one dataset.
func (f *figure) traceRadarPolygon(values []float64, pointFor func(int, float64) (float64, float64)) {
	for k, v := range values {
		x, y := pointFor(k, math.Max(0, v))
		if k == 0 {
			f.dc.MoveTo(x, y)
			continue
		}
		f.dc.LineTo(x, y)
	}
	f.dc.ClosePath()
}

// drawRadarGrid draws concentric rings, spokes, ring value labels, and
// the axis labels at the spoke ends.
func (f *figure) drawRadarGrid(labels []string, cx, cy, r, rmax float64, angleFor func(int) float64) error {
	n := len(labels)

	f.dc.SetRGBA(0.5, 0.5, 0.5, 0.5)
	f.dc.SetLineWidth(1)
	for ring := 1; ring <= radarRings; ring++ {
		rr := r * float64(ring) / radarRings
		for k := 0; k <= n; k++ {
			a := angleFor(k % n)
			x, y := cx+rr*math.Cos(a), cy+rr*math.Sin(a)
			if k == 0 {
				f.dc.MoveTo(x, y)
				continue
			}
			f.dc.LineTo(x, y)
		}
		f.dc.Stroke()
	}
	for k := 0; k < n; k++ {
		a := angleFor(k)
		f.dc.DrawLine(cx, cy, cx+r*math.Cos(a), cy+r*math.Sin(a))
		f.dc.Stroke()
	}

	if err := f.useFace(f.regular, tickFontSize); err != nil {
		return err
	}
	f.dc.SetRGB(0.45, 0.45, 0.45)
	for ring := 1; ring <= radarRings; ring++ {
		v := rmax * float64(ring) / radarRings
		f.dc.DrawStringAnchored(formatTick(v), cx+6, cy-r*float64(ring)/radarRings, 0, 0.35)
	}

	if err := f.useFace(f.regular, labelFontSize); err != nil {
		return err
	}
	f.dc.SetRGB(0.2, 0.2, 0.2)
	for k, label := range labels {
		a := angleFor(k)
		x := cx + (r+22)*math.Cos(a)
		y := cy + (r+22)*math.Sin(a)
		ax := 0.5 - 0.5*math.Cos(a)
		ay := 0.5 - 0.4*math.Sin(a)
		f.dc.DrawStringAnchored(truncateLabel(label, 26), x, y, ax, ay)
	}
	return nil
}
