package lattice

// CellMetadata records how and when a cell took part in the cascade.
type CellMetadata struct {
	// FlippedAtStep is the 1-based step of the most recent flip, or -1.
	FlippedAtStep int `json:"flipped_at_step"`
	// Generation is the propagation distance from the origin, assigned when
	// the cell is first queued; -1 if it never was.
	Generation int `json:"generation"`
	FlipCount  int `json:"flip_count"`
}

// Metadata is a companion table of CellMetadata keyed by flat index. The
// engine's state machine never reads it.
type Metadata struct {
	cells []CellMetadata
}

// NewMetadata allocates metadata for total cells.
func NewMetadata(total int) *Metadata {
	m := &Metadata{cells: make([]CellMetadata, total)}
	m.Clear()
	return m
}

// Clear resets every entry to the never-touched state.
func (m *Metadata) Clear() {
	for i := range m.cells {
		m.cells[i] = CellMetadata{FlippedAtStep: -1, Generation: -1}
	}
}

// At returns the entry for idx.
func (m *Metadata) At(idx int) CellMetadata { return m.cells[idx] }

// Cells exposes all entries.
func (m *Metadata) Cells() []CellMetadata { return m.cells }

func (m *Metadata) queued(idx, generation int) {
	if m.cells[idx].Generation < 0 {
		m.cells[idx].Generation = generation
	}
}

func (m *Metadata) flipped(idx, step int) {
	m.cells[idx].FlippedAtStep = step
	m.cells[idx].FlipCount++
}

// Generations returns the generation of every cell, row-major.
func (m *Metadata) Generations() []int {
	out := make([]int, len(m.cells))
	for i, c := range m.cells {
		out[i] = c.Generation
	}
	return out
}

// FlipSteps returns the last flip step of every cell, row-major.
func (m *Metadata) FlipSteps() []int {
	out := make([]int, len(m.cells))
	for i, c := range m.cells {
		out[i] = c.FlippedAtStep
	}
	return out
}
