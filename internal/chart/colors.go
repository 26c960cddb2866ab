package chart

import (
	"image/color"
	"math"
	"math/rand"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// goldenRatioConjugate partitions the hue circle so consecutive colors are
// maximally distinct regardless of how many are generated.
const goldenRatioConjugate = 0.618033988749895

// Saturation and value are fixed; only hue rotates.
const (
	paletteSaturation = 0.65
	paletteValue      = 0.85
)

// palette generates visually distinct colors by golden-ratio hue rotation.
// The start hue comes from the seeded source so test runs are reproducible.
type palette struct {
	hue float64
}

func newPalette(rng *rand.Rand) *palette {
	return &palette{hue: rng.Float64()}
}

// next returns the next palette color.
func (p *palette) next() colorful.Color {
	p.hue = math.Mod(p.hue+goldenRatioConjugate, 1.0)
	return colorful.Hsv(p.hue*360, paletteSaturation, paletteValue)
}

// take returns n palette colors.
func (p *palette) take(n int) []colorful.Color {
	out := make([]colorful.Color, n)
	for i := range out {
		out[i] = p.next()
	}
	return out
}

// namedColors covers the color words LLMs commonly emit in chart specs.
// Hex strings are handled by go-colorful directly.
var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#d62728",
	"green":  "#2ca02c",
	"blue":   "#1f77b4",
	"orange": "#ff7f0e",
	"purple": "#9467bd",
	"yellow": "#e8c019",
	"gray":   "#7f7f7f",
	"grey":   "#7f7f7f",
	"pink":   "#e377c2",
	"brown":  "#8c564b",
	"cyan":   "#17becf",
	"teal":   "#008080",
	"navy":   "#000080",
}

// parseColor resolves a spec color string to a drawable color, returning
// fallback for empty, "none", or unparseable inputs.
func parseColor(s string, fallback color.Color) color.Color {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" || s == "transparent" {
		return fallback
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}

// withAlpha returns c with the given opacity, used for area and radar fills.
func withAlpha(c color.Color, alpha float64) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
		A: uint8(alpha * 255),
	}
}
