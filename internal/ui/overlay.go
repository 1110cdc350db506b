//go:build ebiten

package ui

import (
	"image/color"

	"seam-lattice/internal/core"
	"seam-lattice/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	primaryMark   = render.Tint(color.RGBA{R: 255, G: 255, B: 255, A: 255}, 150)
	secondaryMark = render.Tint(color.RGBA{R: 34, G: 211, B: 238, A: 255}, 150)
	statusBG      = render.Tint(color.RGBA{A: 255}, 170)
	statusText    = color.RGBA{R: 235, G: 235, B: 240, A: 255}
)

// StatusHeight is the height of the status strip drawn under the grid.
const StatusHeight = 20

// Overlay outlines the live seam or frontiers on top of the grid and prints
// the status line. Key O toggles the outline.
type Overlay struct {
	sim       core.Sim
	scale     int
	showMarks bool
	pixel     *ebiten.Image
}

// NewOverlay constructs an overlay for sim drawn at scale.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	o := &Overlay{sim: sim, scale: max(1, scale), showMarks: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay's key bindings.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		o.showMarks = !o.showMarks
	}
}

// Draw renders the outline and status strip onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	if size.W <= 0 || size.H <= 0 {
		return
	}
	if o.showMarks {
		primary, secondary := highlights(o.sim)
		o.mark(screen, primary, size.W, primaryMark)
		o.mark(screen, secondary, size.W, secondaryMark)
	}

	top := size.H * o.scale
	o.rect(screen, 0, float64(top), float64(screen.Bounds().Dx()), StatusHeight, statusBG)
	text.Draw(screen, StatusLine(o.sim), basicfont.Face7x13, 4, top+14, statusText)
}

// mark frames each cell in cells with a one-pixel border, or fills it when the
// scale is too small for a border to read.
func (o *Overlay) mark(screen *ebiten.Image, cells []int, w int, col color.Color) {
	s := float64(o.scale)
	for _, idx := range cells {
		x, y := float64(idx%w)*s, float64(idx/w)*s
		if o.scale < 4 {
			o.rect(screen, x, y, s, s, col)
			continue
		}
		o.rect(screen, x, y, s, 1, col)
		o.rect(screen, x, y+s-1, s, 1, col)
		o.rect(screen, x, y+1, 1, s-2, col)
		o.rect(screen, x+s-1, y+1, 1, s-2, col)
	}
}

func (o *Overlay) rect(screen *ebiten.Image, x, y, w, h float64, col color.Color) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
