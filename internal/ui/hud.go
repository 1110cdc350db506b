//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"strings"

	"seam-lattice/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	panelBG     = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	textBright  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	textDim     = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonBG    = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	buttonOff   = color.RGBA{R: 32, G: 34, B: 40, A: 255}
	buttonLabel = color.RGBA{R: 120, G: 120, B: 130, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 36
	buttonSize     = 24
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 24
	controlsTop    = panelPadding + headerBaseline + 14
)

// HUD renders the parameter panel to the right of the simulation view.
// Clicking a control's +/- button steps the value through the sim's setter,
// which rebuilds the run.
type HUD struct {
	sim      core.Sim
	width    int
	panel    *ebiten.Image
	pixel    *ebiten.Image
	controls []control
	offsetX  int
}

// NewHUD constructs a HUD for sim with a panel width in pixels. A width of
// zero disables the panel.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(0, width), controls: newControls(sim)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Width returns the panel width.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes control values and handles clicks. offsetX is where the
// panel starts on screen.
func (h *HUD) Update(offsetX int) {
	if h == nil || h.width == 0 {
		return
	}
	h.offsetX = offsetX
	if provider, ok := h.sim.(core.ParameterProvider); ok {
		refresh(h.controls, provider.Parameters())
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx-h.offsetX, my)
	for i := range h.controls {
		minus, plus := buttonRects(h.width, i)
		switch {
		case pt.In(minus):
			adjust(h.sim, &h.controls[i], -1)
			return
		case pt.In(plus):
			adjust(h.sim, &h.controls[i], 1)
			return
		}
	}
}

// Draw paints the panel at offsetX with the given height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width == 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(panelBG)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, strings.ToUpper(h.sim.Name()), face, panelPadding, y, textBright)
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, y+lineHeight, textDim)
	}
	for i, c := range h.controls {
		top := controlsTop + i*lineHeight
		text.Draw(h.panel, c.Label, face, panelPadding, top+labelBaseline, textBright)

		minus, plus := buttonRects(h.width, i)
		valueCol := textBright
		if !c.known {
			valueCol = textDim
		}
		w := text.BoundString(face, c.text).Dx()
		text.Draw(h.panel, c.text, face, minus.Min.X-buttonGap-w, top+labelBaseline, valueCol)

		_, canDown := c.target(-1)
		_, canUp := c.target(1)
		h.drawButton(minus, "-", canDown)
		h.drawButton(plus, "+", canUp)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg, fg := buttonBG, textBright
	if !enabled {
		bg, fg = buttonOff, buttonLabel
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

// buttonRects lays out the minus and plus buttons of control row i.
func buttonRects(width, i int) (minus, plus image.Rectangle) {
	top := controlsTop + i*lineHeight
	y := top + (lineHeight-buttonSize)/2
	plus = image.Rect(width-panelPadding-buttonSize, y, width-panelPadding, y+buttonSize)
	minus = image.Rect(plus.Min.X-buttonGap-buttonSize, y, plus.Min.X-buttonGap, y+buttonSize)
	return minus, plus
}
