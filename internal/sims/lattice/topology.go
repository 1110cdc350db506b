package lattice

import "seam-lattice/internal/core"

// CellState is one of Positive or Negative.
type CellState int8

const (
	Positive CellState = 1
	Negative CellState = -1
)

// Coord addresses a lattice cell.
type Coord struct {
	Row, Col int
}

// Wrap maps v onto a torus of size n.
func Wrap(v, n int) int { return core.Wrap(v, n) }

// Neighbors returns the toroidal up, down, left and right neighbors of c.
func Neighbors(c Coord, n int) [4]Coord {
	return [4]Coord{
		{Row: Wrap(c.Row-1, n), Col: c.Col},
		{Row: Wrap(c.Row+1, n), Col: c.Col},
		{Row: c.Row, Col: Wrap(c.Col-1, n)},
		{Row: c.Row, Col: Wrap(c.Col+1, n)},
	}
}

// IsUniform reports whether every cell equals the first one. An empty slice
// is uniform.
func IsUniform(cells []CellState) bool {
	if len(cells) == 0 {
		return true
	}
	first := cells[0]
	for _, c := range cells[1:] {
		if c != first {
			return false
		}
	}
	return true
}

// Coherence is the mean cell value in [-1, 1]. Empty input yields 0.
func Coherence(cells []CellState) float64 {
	if len(cells) == 0 {
		return 0
	}
	sum := 0
	for _, c := range cells {
		sum += int(c)
	}
	return float64(sum) / float64(len(cells))
}
