package mask

// Preset names a spawn layout.
type Preset string

const (
	// CapVsBase seeds A along the top edge of the mask and B along the bottom.
	CapVsBase Preset = "capVsBase"
	// LeftVsRight seeds B along the left edge and A along the right.
	LeftVsRight Preset = "leftVsRight"
	// NeckVsBody seeds A in the neck band and B in the body band.
	NeckVsBody Preset = "neckVsBody"
	// FrozenStart fills the mask with A and grows B from a central disk.
	FrozenStart Preset = "frozenStart"
	// LiquidStart fills the mask with B and grows A from a central disk.
	LiquidStart Preset = "liquidStart"
	// Custom places both seeds on the center cell.
	Custom Preset = "custom"
)

// Presets lists every known preset in display order.
var Presets = []Preset{CapVsBase, LeftVsRight, NeckVsBody, FrozenStart, LiquidStart, Custom}

// ParsePreset maps a name to a Preset. Unknown names resolve to Custom.
func ParsePreset(name string) (Preset, bool) {
	for _, p := range Presets {
		if string(p) == name {
			return p, true
		}
	}
	return Custom, false
}

const (
	neckBandEnd   = 0.2
	bodyBandStart = 0.5
	diskCenterY   = 0.6
	diskRadius    = 2
)

// SpawnPoints computes the seed sets for preset over mask m.
func SpawnPoints(preset Preset, m []bool, w, h int) Spawn {
	var s Spawn
	switch preset {
	case CapVsBase:
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				if m[y*w+x] {
					s.A = append(s.A, y*w+x)
					break
				}
			}
			for y := h - 1; y >= 0; y-- {
				if m[y*w+x] {
					s.B = append(s.B, y*w+x)
					break
				}
			}
		}
	case LeftVsRight:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if m[y*w+x] {
					s.B = append(s.B, y*w+x)
					break
				}
			}
			for x := w - 1; x >= 0; x-- {
				if m[y*w+x] {
					s.A = append(s.A, y*w+x)
					break
				}
			}
		}
	case NeckVsBody:
		neckY := int(float64(h) * neckBandEnd)
		bodyY := int(float64(h) * bodyBandStart)
		for x := 0; x < w; x++ {
			for y := 0; y < neckY; y++ {
				if m[y*w+x] {
					s.A = append(s.A, y*w+x)
				}
			}
			for y := bodyY; y < h; y++ {
				if m[y*w+x] {
					s.B = append(s.B, y*w+x)
				}
			}
		}
	case FrozenStart:
		s.B = disk(m, w, h)
		s.Fill, s.HasFill = A, true
	case LiquidStart:
		s.A = disk(m, w, h)
		s.Fill, s.HasFill = B, true
	default:
		cx, cy := w/2, h/2
		if cx < w && cy < h && m[cy*w+cx] {
			idx := cy*w + cx
			s.A = append(s.A, idx)
			s.B = append(s.B, idx)
		}
	}
	return s
}

// disk collects the masked cells of a small square cluster in the body of
// the domain, slightly below center.
func disk(m []bool, w, h int) []int {
	cx := w / 2
	cy := int(float64(h) * diskCenterY)
	var out []int
	for dy := -diskRadius; dy <= diskRadius; dy++ {
		for dx := -diskRadius; dx <= diskRadius; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			if m[y*w+x] {
				out = append(out, y*w+x)
			}
		}
	}
	return out
}
