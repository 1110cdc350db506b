package ui

import (
	"fmt"
	"strings"

	"seam-lattice/internal/core"
	"seam-lattice/internal/stats"
)

type latticeStats interface {
	Stats() stats.Lattice
}

type bottleStats interface {
	Stats() stats.Bottle
}

type seamProvider interface {
	SeamIndices() []int
}

type frontierProvider interface {
	Frontiers() ([]int, []int)
}

// StatusLine summarizes the sim's current step in one line of text.
func StatusLine(sim core.Sim) string {
	var b strings.Builder
	switch s := sim.(type) {
	case latticeStats:
		st := s.Stats()
		fmt.Fprintf(&b, "step %d  coherence %.3f  seams %d  v %.1f", st.Steps, st.Coherence, st.ActiveSeams, st.Velocity)
		switch {
		case st.Running && st.PredictedAnnihilation >= 0:
			fmt.Fprintf(&b, "  eta %d", st.PredictedAnnihilation)
		case st.Annihilated:
			b.WriteString("  annihilated")
		case !st.Running && st.Steps > 0:
			b.WriteString("  died out")
		}
	case bottleStats:
		st := s.Stats()
		fmt.Fprintf(&b, "step %d  A %.3f  B %.3f  global %s  front %d", st.Steps, st.FracA, st.FracB, st.Global, st.FrontierSize())
		if st.SwitchFrame >= 0 {
			fmt.Fprintf(&b, "  switch @%d", st.SwitchFrame)
		}
		if st.Complete {
			b.WriteString("  complete")
		}
	default:
		return sim.Name()
	}
	return b.String()
}

// highlights returns the cell indices an overlay should outline: the live
// seam of a lattice, or the A and B frontiers of a bottle.
func highlights(sim core.Sim) (primary, secondary []int) {
	switch s := sim.(type) {
	case seamProvider:
		return s.SeamIndices(), nil
	case frontierProvider:
		return s.Frontiers()
	}
	return nil, nil
}
