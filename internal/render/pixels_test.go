package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFillPaletteClampsToLastColor(t *testing.T) {
	palette := []color.RGBA{{R: 1, G: 2, B: 3, A: 255}, {R: 9, G: 8, B: 7, A: 128}}
	buf := make([]byte, 12)
	FillPalette(buf, []uint8{0, 1, 5}, palette)
	assert.Equal(t, []byte{1, 2, 3, 255, 9, 8, 7, 128, 9, 8, 7, 128}, buf)
}

func TestFillPaletteEmptyClears(t *testing.T) {
	buf := []byte{1, 1, 1, 1, 1, 1, 1, 1, 7}
	FillPalette(buf, []uint8{3, 4}, nil)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0, 7}, buf)
}

func TestTintPremultiplies(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, G: 0, B: 0, A: 255}, Tint(color.RGBA{R: 255, A: 255}, 255))
	assert.Equal(t, color.RGBA{R: 40, G: 20, B: 0, A: 51}, Tint(color.RGBA{R: 200, G: 100, A: 255}, 51))
}
