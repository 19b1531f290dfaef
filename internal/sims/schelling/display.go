package schelling

import (
	"image/color"
	"math"
)

var basePalette = []color.RGBA{
	{R: 230, G: 80, B: 70, A: 255},
	{R: 70, G: 130, B: 220, A: 255},
	{R: 240, G: 200, B: 60, A: 255},
	{R: 80, G: 180, B: 100, A: 255},
	{R: 160, G: 90, B: 200, A: 255},
	{R: 240, G: 140, B: 40, A: 255},
	{R: 60, G: 190, B: 190, A: 255},
	{R: 200, G: 200, B: 200, A: 255},
}

// Palette exposes one color per agent type, indexed by display value.
func (w *World) Palette() []color.RGBA {
	return buildPalette(w.cfg.NumTypes)
}

func buildPalette(n int) []color.RGBA {
	n = min(n, 256)
	if n <= len(basePalette) {
		return basePalette[:n:n]
	}
	palette := make([]color.RGBA, n)
	copy(palette, basePalette)
	for i := len(basePalette); i < n; i++ {
		// Golden-angle hue steps keep consecutive types apart.
		palette[i] = hsvToRGBA(math.Mod(float64(i)*137.508, 360), 0.65, 0.9)
	}
	return palette
}

func hsvToRGBA(h, s, v float64) color.RGBA {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.RGBA{
		R: uint8((r+m)*255 + 0.5),
		G: uint8((g+m)*255 + 0.5),
		B: uint8((b+m)*255 + 0.5),
		A: 255,
	}
}
