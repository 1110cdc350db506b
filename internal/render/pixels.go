// Package render turns palette-encoded cell buffers into pixels.
package render

import "image/color"

// FillPalette writes one RGBA pixel per cell into buf, looking each cell up in
// palette. Values past the end of the palette take its last color, and an
// empty palette clears the buffer to transparent black.
func FillPalette(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}
	last := len(palette) - 1
	for i, c := range cells {
		col := palette[min(int(c), last)]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Tint returns col with its alpha replaced, premultiplying the color channels
// so the result can be uploaded to an ebiten image directly.
func Tint(col color.RGBA, alpha uint8) color.RGBA {
	scale := func(v uint8) uint8 { return uint8(uint16(v) * uint16(alpha) / 255) }
	return color.RGBA{R: scale(col.R), G: scale(col.G), B: scale(col.B), A: alpha}
}
