package bottle

import (
	"image/color"

	"seam-lattice/internal/mask"
)

const (
	displayOutside = iota
	displayUnclaimed
	displayA
	displayB
	displayFrontA
	displayFrontB
	displayOutline
)

var bottlePalette = []color.RGBA{
	displayOutside:   {R: 24, G: 24, B: 27, A: 255},
	displayUnclaimed: {R: 63, G: 63, B: 70, A: 255},
	displayA:         {R: 125, G: 211, B: 252, A: 255},
	displayB:         {R: 251, G: 146, B: 60, A: 255},
	displayFrontA:    {R: 224, G: 242, B: 254, A: 255},
	displayFrontB:    {R: 254, G: 215, B: 170, A: 255},
	displayOutline:   {R: 161, G: 161, B: 170, A: 255},
}

// Palette exposes the colors indexed by Cells values.
func (b *Bottle) Palette() []color.RGBA { return bottlePalette }

// Cells exposes the palette-encoded display buffer.
func (b *Bottle) Cells() []uint8 { return b.display }

// Frontiers returns copies of both live frontiers.
func (b *Bottle) Frontiers() ([]int, []int) {
	return append([]int(nil), b.frontA...), append([]int(nil), b.frontB...)
}

func (b *Bottle) rebuildDisplay() {
	for i, on := range b.mask {
		switch {
		case !on:
			b.display[i] = displayOutside
		case b.regime[i] == mask.A:
			b.display[i] = displayA
		case b.regime[i] == mask.B:
			b.display[i] = displayB
		case b.boundary[i]:
			b.display[i] = displayOutline
		default:
			b.display[i] = displayUnclaimed
		}
	}
	for _, idx := range b.frontA {
		if b.regime[idx] == mask.A {
			b.display[idx] = displayFrontA
		}
	}
	for _, idx := range b.frontB {
		if b.regime[idx] == mask.B {
			b.display[idx] = displayFrontB
		}
	}
}
