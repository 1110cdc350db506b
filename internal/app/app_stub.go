//go:build !ebiten

package app

import (
	"errors"

	"seam-lattice/internal/core"
)

// ErrHeadless is returned by the headless Game, which cannot open a window.
var ErrHeadless = errors.New("app: the viewer requires building with the 'ebiten' tag")

// Game stands in for the viewer in headless builds. It keeps the sim so the
// reset keys still have something to act on in tests.
type Game struct {
	sim  core.Sim
	seed int64
}

// New returns a headless Game for sim.
func New(sim core.Sim, _ int, seed int64, _ int) *Game {
	return &Game{sim: sim, seed: seed}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
}

// Update reports that no window can be driven.
func (g *Game) Update() error { return ErrHeadless }

// Draw is a no-op in headless builds.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }
