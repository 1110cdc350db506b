package bottle

import (
	"math"

	"seam-lattice/internal/mask"
)

// Global is the consensus regime of the whole domain.
type Global int8

const (
	GlobalNone Global = iota
	GlobalA
	GlobalB
)

// String returns the regime label used in reports.
func (g Global) String() string {
	switch g {
	case GlobalA:
		return "A"
	case GlobalB:
		return "B"
	default:
		return "none"
	}
}

// Winner returns the display name of g, empty for GlobalNone.
func (g Global) Winner() string {
	switch g {
	case GlobalA:
		return "Frozen"
	case GlobalB:
		return "Liquid"
	default:
		return ""
	}
}

func globalOf(r mask.Regime) Global {
	switch r {
	case mask.A:
		return GlobalA
	case mask.B:
		return GlobalB
	default:
		return GlobalNone
	}
}

// Fractions returns the share of masked cells owned by each front.
// Unmasked cells are ignored; active must be positive.
func Fractions(regime []mask.Regime, m []bool, active int) (float64, float64) {
	var countA, countB int
	for i, r := range regime {
		if !m[i] {
			continue
		}
		switch r {
		case mask.A:
			countA++
		case mask.B:
			countB++
		}
	}
	return float64(countA) / float64(active), float64(countB) / float64(active)
}

// Hysteresis switches the global regime when a fraction reaches Threshold
// and reverts it once the fraction drops below Threshold-Margin.
type Hysteresis struct {
	Threshold float64
	Margin    float64
}

// Bounds returns the switch-on and revert levels.
func (h Hysteresis) Bounds() (hi, lo float64) {
	return h.Threshold, math.Max(0, h.Threshold-h.Margin)
}

// Apply evaluates A then B against the current global regime. switchFrame
// is set to step on the first transition into a concrete regime and is left
// alone afterwards.
func (h Hysteresis) Apply(global Global, fracA, fracB float64, step, switchFrame int) (Global, int, bool) {
	hi, lo := h.Bounds()
	prev := global

	if global != GlobalA && fracA >= hi {
		global = GlobalA
	} else if global == GlobalA && fracA < lo {
		global = GlobalNone
	}

	if global != GlobalB && fracB >= hi {
		global = GlobalB
	} else if global == GlobalB && fracB < lo {
		global = GlobalNone
	}

	changed := global != prev
	if changed && global != GlobalNone && switchFrame == -1 {
		switchFrame = step
	}
	return global, switchFrame, changed
}
