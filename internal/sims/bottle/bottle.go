package bottle

import (
	"slices"

	"seam-lattice/internal/core"
	"seam-lattice/internal/mask"
	"seam-lattice/internal/stats"
	random "seam-lattice/pkg/core"
)

// Bottle runs two competing fronts over a masked domain and tracks which of
// them holds consensus.
type Bottle struct {
	params   Params
	provider mask.Provider
	hyst     Hysteresis

	w, h     int
	mask     []bool
	active   int
	boundary []bool

	regime []mask.Regime
	strA   []float32
	strB   []float32

	frontA []int
	frontB []int
	// queued marks cells pushed to the live frontier during a sub-step.
	queued []bool

	fracA, fracB float64
	global       Global
	step         int
	switchFrame  int
	switched     bool

	rng     *random.RNG
	display []uint8
}

// New validates params and the provider's domain, then seeds both fronts.
// A nil provider uses the bottle silhouette.
func New(params Params, provider mask.Provider) (*Bottle, error) {
	if provider == nil {
		provider = mask.NewBottle()
	}
	if params.Width <= 0 || params.Height <= 0 {
		return nil, core.Preconditionf("bottle.new", "dimensions %dx%d must be positive", params.Width, params.Height)
	}
	if params.SpeedA < 0 || params.SpeedB < 0 {
		return nil, core.Preconditionf("bottle.new", "speeds %d/%d must not be negative", params.SpeedA, params.SpeedB)
	}

	w, h := params.Width, params.Height
	total := w * h
	m := provider.Mask(w, h)
	if len(m) != total {
		return nil, core.Preconditionf("bottle.new", "mask has %d cells, want %d", len(m), total)
	}
	active := mask.Count(m)
	if active == 0 {
		return nil, core.Preconditionf("bottle.new", "mask has no active cells")
	}
	spawn := provider.Spawn(params.Spawn, m, w, h)
	for _, set := range [][]int{spawn.A, spawn.B} {
		for _, idx := range set {
			if idx < 0 || idx >= total || !m[idx] {
				return nil, core.Preconditionf("bottle.new", "spawn index %d outside mask", idx)
			}
		}
	}

	b := &Bottle{
		params:      params,
		provider:    provider,
		hyst:        Hysteresis{Threshold: params.Threshold, Margin: params.Hysteresis},
		w:           w,
		h:           h,
		mask:        m,
		active:      active,
		boundary:    make([]bool, total),
		regime:      make([]mask.Regime, total),
		strA:        make([]float32, total),
		strB:        make([]float32, total),
		queued:      make([]bool, total),
		switchFrame: -1,
		rng:         random.NewRNG(params.Seed),
		display:     make([]uint8, total),
	}
	for _, idx := range mask.Boundary(m, w, h) {
		b.boundary[idx] = true
	}
	b.seed(spawn, random.NewRNG(params.Seed))
	b.fracA, b.fracB = Fractions(b.regime, b.mask, b.active)
	b.rebuildDisplay()
	return b, nil
}

func (b *Bottle) seed(spawn mask.Spawn, rng *random.RNG) {
	for i := range b.regime {
		b.regime[i] = mask.Unclaimed
	}
	if spawn.HasFill {
		str := b.strengths(spawn.Fill)
		for i, on := range b.mask {
			if on {
				b.regime[i] = spawn.Fill
				str[i] = float32(rng.Range(0.8, 1.0))
			}
		}
		b.global = globalOf(spawn.Fill)
	}

	for _, idx := range spawn.A {
		if b.regime[idx] == mask.Unclaimed || (spawn.HasFill && spawn.Fill == mask.B) {
			b.regime[idx] = mask.A
			b.strA[idx] = float32(1 + b.params.BiasA + rng.Float64()*0.1)
			b.strB[idx] = 0
			b.frontA = append(b.frontA, idx)
		}
	}

	for _, idx := range spawn.B {
		switch {
		case b.regime[idx] == mask.Unclaimed || (spawn.HasFill && spawn.Fill == mask.A):
			b.regime[idx] = mask.B
			b.strB[idx] = float32(1 + b.params.BiasB + rng.Float64()*0.1)
			b.strA[idx] = 0
			b.frontB = append(b.frontB, idx)
		case b.regime[idx] == mask.A && !spawn.HasFill:
			// Both fronts seeded the same cell; B takes it only when stronger.
			str := 1 + b.params.BiasB + rng.Float64()*0.1
			if str > float64(b.strA[idx]) {
				b.regime[idx] = mask.B
				b.strB[idx] = float32(str)
				b.strA[idx] = 0
				if i := slices.Index(b.frontA, idx); i >= 0 {
					b.frontA = slices.Delete(b.frontA, i, i+1)
				}
				b.frontB = append(b.frontB, idx)
			}
		}
	}
}

// Name returns the simulation identifier.
func (b *Bottle) Name() string { return "bottle" }

// Size returns the domain dimensions.
func (b *Bottle) Size() core.Size { return core.Size{W: b.w, H: b.h} }

// Params returns the configuration in use.
func (b *Bottle) Params() Params { return b.params }

// Reset rebuilds the run from scratch. A zero seed keeps the configured one.
func (b *Bottle) Reset(seed int64) {
	p := b.params
	if seed != 0 {
		p.Seed = seed
	}
	b.rebuild(p)
}

// Step expands front A SpeedA times, then front B SpeedB times, and
// re-evaluates consensus. It returns false without touching the state once
// both frontiers are empty.
func (b *Bottle) Step() bool {
	if b.Complete() {
		return false
	}
	for s := 0; s < b.params.SpeedA; s++ {
		b.expandFront(mask.A)
	}
	for s := 0; s < b.params.SpeedB; s++ {
		b.expandFront(mask.B)
	}
	b.fracA, b.fracB = Fractions(b.regime, b.mask, b.active)
	b.global, b.switchFrame, b.switched = b.hyst.Apply(b.global, b.fracA, b.fracB, b.step, b.switchFrame)
	b.step++
	b.rebuildDisplay()
	return true
}

// expandFront consumes the current frontier of front and replaces it with
// the cells claimed from it. Claims land in the shared arrays immediately,
// so later frontier cells see earlier claims of the same pass.
func (b *Bottle) expandFront(front mask.Regime) {
	queue, own, other, bias := &b.frontA, b.strA, b.strB, b.params.BiasA
	if front == mask.B {
		queue, own, other, bias = &b.frontB, b.strB, b.strA, b.params.BiasB
	}
	current := *queue
	if len(current) == 0 {
		return
	}
	next := make([]int, 0, len(current))

	var buf [4]int
	for _, idx := range current {
		for _, n := range b.neighbors(idx, &buf) {
			candidate := float64(own[idx])*b.rng.Range(0.9, 1.1) + bias*b.rng.Float64()
			switch b.regime[n] {
			case front:
				continue
			case mask.Unclaimed:
			default:
				if candidate <= float64(other[n]) {
					continue
				}
				other[n] = 0
			}
			b.regime[n] = front
			own[n] = float32(candidate)
			if !b.queued[n] {
				b.queued[n] = true
				next = append(next, n)
			}
		}
	}
	for _, n := range next {
		b.queued[n] = false
	}
	*queue = next
}

// neighbors collects the in-mask up, down, left and right neighbors of idx.
// The domain does not wrap.
func (b *Bottle) neighbors(idx int, buf *[4]int) []int {
	x, y := idx%b.w, idx/b.w
	out := buf[:0]
	if y > 0 && b.mask[idx-b.w] {
		out = append(out, idx-b.w)
	}
	if y < b.h-1 && b.mask[idx+b.w] {
		out = append(out, idx+b.w)
	}
	if x > 0 && b.mask[idx-1] {
		out = append(out, idx-1)
	}
	if x < b.w-1 && b.mask[idx+1] {
		out = append(out, idx+1)
	}
	return out
}

func (b *Bottle) strengths(r mask.Regime) []float32 {
	if r == mask.B {
		return b.strB
	}
	return b.strA
}

// Complete reports whether both frontiers are empty.
func (b *Bottle) Complete() bool { return len(b.frontA) == 0 && len(b.frontB) == 0 }

// Global returns the current consensus regime.
func (b *Bottle) Global() Global { return b.global }

// Winner names the regime holding consensus, or "" when there is none.
func (b *Bottle) Winner() string { return b.global.Winner() }

// Switched reports whether the last Step changed the global regime.
func (b *Bottle) Switched() bool { return b.switched }

// SwitchFrame is the step of the first switch into a concrete regime, or -1.
func (b *Bottle) SwitchFrame() int { return b.switchFrame }

// Steps returns the number of completed steps.
func (b *Bottle) Steps() int { return b.step }

// Fractions returns the current A and B shares of the masked domain.
func (b *Bottle) Fractions() (float64, float64) { return b.fracA, b.fracB }

// ActiveCells returns the number of masked cells.
func (b *Bottle) ActiveCells() int { return b.active }

// Stats summarizes the run after the last step.
func (b *Bottle) Stats() stats.Bottle {
	return stats.Bottle{
		Steps:       b.step,
		FracA:       b.fracA,
		FracB:       b.fracB,
		FrontierA:   len(b.frontA),
		FrontierB:   len(b.frontB),
		Global:      b.global.String(),
		SwitchFrame: b.switchFrame,
		Complete:    b.Complete(),
	}
}

// State is a deep copy of the engine arrays.
type State struct {
	Width, Height int
	Regime        []mask.Regime
	StrengthA     []float32
	StrengthB     []float32
	Mask          []bool
	FracA, FracB  float64
	Global        Global
	ActiveCells   int
	FrontierA     []int
	FrontierB     []int
	Step          int
	SwitchFrame   int
}

// State copies the current engine state.
func (b *Bottle) State() State {
	return State{
		Width:       b.w,
		Height:      b.h,
		Regime:      slices.Clone(b.regime),
		StrengthA:   slices.Clone(b.strA),
		StrengthB:   slices.Clone(b.strB),
		Mask:        slices.Clone(b.mask),
		FracA:       b.fracA,
		FracB:       b.fracB,
		Global:      b.global,
		ActiveCells: b.active,
		FrontierA:   slices.Clone(b.frontA),
		FrontierB:   slices.Clone(b.frontB),
		Step:        b.step,
		SwitchFrame: b.switchFrame,
	}
}

func (b *Bottle) rebuild(p Params) bool {
	next, err := New(p, b.provider)
	if err != nil {
		return false
	}
	*b = *next
	return true
}

func init() {
	core.Register("bottle", func(cfg map[string]string) (core.Sim, error) {
		b, err := New(FromMap(cfg), nil)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}
