//go:build ebiten

package app

import (
	"image/color"
	"log"
	"time"

	"seam-lattice/internal/core"
	"seam-lattice/internal/render"
	"seam-lattice/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type paletteProvider interface {
	Palette() []color.RGBA
}

type igniter interface {
	IgniteCenter() error
	Randomize()
}

type modeCycler interface {
	CycleMode()
}

type spawnCycler interface {
	CycleSpawn()
}

var grayscale = []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for sim. hudWidth is the parameter panel width, zero
// to hide it.
func New(sim core.Sim, scale int, seed int64, hudWidth int) *Game {
	size := sim.Size()
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, scale),
		hud:     ui.NewHUD(sim, hudWidth),
		scale:   scale,
		seed:    seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	g.handleSimKeys()

	g.overlay.Update()
	g.hud.Update(g.gridWidth())

	if !g.paused || g.tickOnce {
		g.sim.Step()
		g.tickOnce = false
	}
	return nil
}

// handleSimKeys binds the engine-specific actions: I ignites the center, X
// scrambles then ignites, M cycles the display mode, P cycles the spawn.
func (g *Game) handleSimKeys() {
	if ig, ok := g.sim.(igniter); ok {
		if inpututil.IsKeyJustPressed(ebiten.KeyX) {
			ig.Randomize()
			g.ignite(ig)
		} else if inpututil.IsKeyJustPressed(ebiten.KeyI) {
			g.ignite(ig)
		}
	}
	if mc, ok := g.sim.(modeCycler); ok && inpututil.IsKeyJustPressed(ebiten.KeyM) {
		mc.CycleMode()
	}
	if sc, ok := g.sim.(spawnCycler); ok && inpututil.IsKeyJustPressed(ebiten.KeyP) {
		sc.CycleSpawn()
	}
}

func (g *Game) ignite(ig igniter) {
	if err := ig.IgniteCenter(); err != nil {
		log.Printf("seam: ignite: %v", err)
		g.paused = true
	}
}

// Draw renders the grid, the overlay and the parameter panel.
func (g *Game) Draw(screen *ebiten.Image) {
	palette := grayscale
	if p, ok := g.sim.(paletteProvider); ok {
		palette = p.Palette()
	}
	size := g.sim.Size()
	g.painter.Blit(screen, size.W, size.H, g.sim.Cells(), palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.gridWidth(), size.H*g.scale+ui.StatusHeight)
}

// Layout returns the logical screen size. It follows the sim, whose size can
// change when the HUD rebuilds it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return g.gridWidth() + g.hud.Width(), s.H*g.scale + ui.StatusHeight
}

func (g *Game) gridWidth() int { return g.sim.Size().W * g.scale }
