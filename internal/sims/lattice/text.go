package lattice

import (
	"fmt"
	"io"
	"strings"
)

// WriteASCII draws the grid with '+' and '-' cells, queued cells as '*'.
func (l *Lattice) WriteASCII(w io.Writer) error {
	var b strings.Builder
	cells := l.grid.Cells()
	for row := 0; row < l.n; row++ {
		for col := 0; col < l.n; col++ {
			idx := row*l.n + col
			switch {
			case l.queue.Contains(idx):
				b.WriteByte('*')
			case cells[idx] == Positive:
				b.WriteByte('+')
			default:
				b.WriteByte('-')
			}
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatInts lays out n×n values as right-aligned columns, one row per line.
func FormatInts(vals []int, n int) string {
	var b strings.Builder
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			fmt.Fprintf(&b, "%3d", vals[row*n+col])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
