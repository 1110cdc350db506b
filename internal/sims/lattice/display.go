package lattice

import "image/color"

// DisplayMode selects how Cells encodes the lattice for rendering.
type DisplayMode string

const (
	ModeDefault     DisplayMode = "default"
	ModeWavePattern DisplayMode = "wave-pattern"
	ModeTimeHeatmap DisplayMode = "time-heatmap"
	ModeGeneration  DisplayMode = "generation"
)

// Modes lists the display modes in cycling order.
var Modes = []DisplayMode{ModeDefault, ModeWavePattern, ModeTimeHeatmap, ModeGeneration}

// ParseMode maps a name to a DisplayMode.
func ParseMode(name string) (DisplayMode, bool) {
	for _, m := range Modes {
		if string(m) == name {
			return m, true
		}
	}
	return ModeDefault, false
}

const (
	displayNegative     = 0
	displayPositive     = 1
	displaySeamNegative = 2
	displaySeamPositive = 3
	displayGenBase      = 4
	displayGenBands     = 6
	displayHeatBase     = displayGenBase + displayGenBands
	displayHeatBands    = 5
	// heatBandSteps is how many steps of age each heatmap band spans.
	heatBandSteps = 4
)

var latticePalette = []color.RGBA{
	displayNegative:     {R: 59, G: 130, B: 246, A: 255},
	displayPositive:     {R: 244, G: 63, B: 94, A: 255},
	displaySeamNegative: {R: 147, G: 197, B: 253, A: 255},
	displaySeamPositive: {R: 253, G: 164, B: 175, A: 255},
	displayGenBase + 0:  {R: 255, G: 255, B: 255, A: 255},
	displayGenBase + 1:  {R: 253, G: 224, B: 71, A: 255},
	displayGenBase + 2:  {R: 251, G: 146, B: 60, A: 255},
	displayGenBase + 3:  {R: 244, G: 63, B: 94, A: 255},
	displayGenBase + 4:  {R: 220, G: 38, B: 38, A: 255},
	displayGenBase + 5:  {R: 147, G: 51, B: 234, A: 255},
	displayHeatBase + 0: {R: 254, G: 240, B: 138, A: 255},
	displayHeatBase + 1: {R: 250, G: 204, B: 21, A: 255},
	displayHeatBase + 2: {R: 234, G: 88, B: 12, A: 255},
	displayHeatBase + 3: {R: 153, G: 27, B: 27, A: 255},
	displayHeatBase + 4: {R: 69, G: 10, B: 10, A: 255},
}

// Palette exposes the colors indexed by Cells values.
func (l *Lattice) Palette() []color.RGBA { return latticePalette }

// Cells exposes the palette-encoded display buffer.
func (l *Lattice) Cells() []uint8 { return l.display }

// Mode returns the active display mode.
func (l *Lattice) Mode() DisplayMode { return l.cfg.Mode }

// SetMode switches the display encoding without touching the simulation.
func (l *Lattice) SetMode(m DisplayMode) {
	if _, ok := ParseMode(string(m)); !ok {
		return
	}
	l.cfg.Mode = m
	l.rebuildDisplay()
}

// CycleMode advances to the next display mode.
func (l *Lattice) CycleMode() {
	for i, m := range Modes {
		if m == l.cfg.Mode {
			l.SetMode(Modes[(i+1)%len(Modes)])
			return
		}
	}
	l.SetMode(ModeDefault)
}

func (l *Lattice) rebuildDisplay() {
	cells := l.grid.Cells()
	for i, c := range cells {
		l.display[i] = l.encode(i, c)
	}
}

func (l *Lattice) encode(idx int, c CellState) uint8 {
	base := uint8(displayNegative)
	if c == Positive {
		base = displayPositive
	}
	if l.meta != nil {
		md := l.meta.cells[idx]
		switch l.cfg.Mode {
		case ModeWavePattern, ModeGeneration:
			if md.Generation >= 0 {
				return displayGenBase + uint8(min(md.Generation, displayGenBands-1))
			}
			return base
		case ModeTimeHeatmap:
			if md.FlippedAtStep >= 0 {
				band := (l.steps - md.FlippedAtStep) / heatBandSteps
				return displayHeatBase + uint8(min(band, displayHeatBands-1))
			}
			return base
		}
	}
	if l.queue.Contains(idx) {
		return base + displaySeamNegative
	}
	return base
}
