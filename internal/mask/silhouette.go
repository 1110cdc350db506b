package mask

import (
	"image"

	"golang.org/x/image/vector"
)

// Point is a vertex in normalized [0,1] domain coordinates.
type Point struct{ X, Y float32 }

// BottleOutline is the water bottle silhouette used by default.
var BottleOutline = []Point{
	{0.35, 0.02}, {0.65, 0.02}, {0.65, 0.06}, {0.58, 0.08},
	{0.58, 0.12}, {0.62, 0.14}, {0.62, 0.16}, {0.72, 0.20},
	{0.75, 0.28}, {0.76, 0.40}, {0.76, 0.85}, {0.72, 0.94},
	{0.60, 0.98}, {0.40, 0.98}, {0.28, 0.94}, {0.24, 0.85},
	{0.24, 0.40}, {0.25, 0.28}, {0.28, 0.20}, {0.38, 0.16},
	{0.38, 0.14}, {0.42, 0.12}, {0.42, 0.08}, {0.35, 0.06},
}

// coverageCutoff is the alpha above which a cell counts as inside.
const coverageCutoff = 128

// Silhouette rasterizes a closed polygon into a cell mask.
type Silhouette struct {
	Outline []Point
}

// NewBottle returns the default bottle-shaped provider.
func NewBottle() Silhouette {
	return Silhouette{Outline: BottleOutline}
}

// Mask fills the outline scaled to w×h.
func (s Silhouette) Mask(w, h int) []bool {
	if w <= 0 || h <= 0 || len(s.Outline) < 3 {
		return make([]bool, max(w, 0)*max(h, 0))
	}
	r := vector.NewRasterizer(w, h)
	fw, fh := float32(w), float32(h)
	r.MoveTo(s.Outline[0].X*fw, s.Outline[0].Y*fh)
	for _, p := range s.Outline[1:] {
		r.LineTo(p.X*fw, p.Y*fh)
	}
	r.ClosePath()

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})

	m := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m[y*w+x] = dst.Pix[y*dst.Stride+x] > coverageCutoff
		}
	}
	return m
}

// Spawn delegates to the shared preset rules.
func (s Silhouette) Spawn(preset Preset, m []bool, w, h int) Spawn {
	return SpawnPoints(preset, m, w, h)
}
