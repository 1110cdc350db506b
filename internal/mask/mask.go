// Package mask supplies the activity domains and seed sets consumed by the
// bottle engine.
package mask

// Regime identifies which front owns a cell.
type Regime int8

const (
	// Unclaimed marks a cell no front owns yet.
	Unclaimed Regime = iota - 1
	// A is the "Frozen" front.
	A
	// B is the "Liquid" front.
	B
)

// String returns the regime's short label.
func (r Regime) String() string {
	switch r {
	case A:
		return "A"
	case B:
		return "B"
	default:
		return "-"
	}
}

// Spawn lists the flat indices each front starts from. When HasFill is set
// every masked cell begins owned by Fill.
type Spawn struct {
	A       []int
	B       []int
	Fill    Regime
	HasFill bool
}

// Provider produces the mask and spawn sets for a domain.
type Provider interface {
	Mask(w, h int) []bool
	Spawn(preset Preset, m []bool, w, h int) Spawn
}

// Count returns the number of active cells.
func Count(m []bool) int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Boundary returns the active cells that have at least one 4-neighbor
// outside the rectangle or outside the mask.
func Boundary(m []bool, w, h int) []int {
	var out []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !m[idx] {
				continue
			}
			if y == 0 || y == h-1 || x == 0 || x == w-1 ||
				!m[idx-w] || !m[idx+w] || !m[idx-1] || !m[idx+1] {
				out = append(out, idx)
			}
		}
	}
	return out
}

// Rect is a Provider whose mask covers the whole rectangle.
type Rect struct{}

// Mask returns an all-active mask.
func (Rect) Mask(w, h int) []bool {
	if w <= 0 || h <= 0 {
		return nil
	}
	m := make([]bool, w*h)
	for i := range m {
		m[i] = true
	}
	return m
}

// Spawn delegates to the shared preset rules.
func (Rect) Spawn(preset Preset, m []bool, w, h int) Spawn {
	return SpawnPoints(preset, m, w, h)
}
