// Package render turns simulation cells into pixels.
package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black. Values past
// the end of the palette take its last color.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// fillShadeRGBA writes tint into buf with an alpha proportional to each
// weight, clamped to [0, 1]. Zero weights become fully transparent.
func fillShadeRGBA(buf []byte, weights []float64, tint color.RGBA, maxAlpha uint8) {
	for i, w := range weights {
		base := i * 4
		w = min(max(w, 0), 1)
		if w == 0 {
			buf[base+0], buf[base+1], buf[base+2], buf[base+3] = 0, 0, 0, 0
			continue
		}
		// premultiplied for ebiten
		a := w * float64(maxAlpha) / 255
		buf[base+0] = uint8(float64(tint.R)*a + 0.5)
		buf[base+1] = uint8(float64(tint.G)*a + 0.5)
		buf[base+2] = uint8(float64(tint.B)*a + 0.5)
		buf[base+3] = uint8(a*255 + 0.5)
	}
}
