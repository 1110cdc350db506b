package bottle

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seam-lattice/internal/core"
	"seam-lattice/internal/mask"
)

type stubProvider struct {
	m     []bool
	spawn mask.Spawn
}

func (s stubProvider) Mask(w, h int) []bool { return s.m }

func (s stubProvider) Spawn(mask.Preset, []bool, int, int) mask.Spawn { return s.spawn }

func rectParams(w, h int) Params {
	p := DefaultParams()
	p.Width, p.Height = w, h
	return p
}

func dominantA(w, h int) Params {
	p := rectParams(w, h)
	p.Threshold = 0.6
	p.BiasA, p.BiasB = 0.5, 0
	p.SpeedA, p.SpeedB = 4, 1
	return p
}

func runUntilComplete(t *testing.T, bt *Bottle, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if !bt.Step() {
			return
		}
	}
	t.Fatalf("run did not complete within %d steps", limit)
}

func TestDeterministicForSeed(t *testing.T) {
	p := rectParams(20, 30)
	a, err := New(p, mask.Rect{})
	require.NoError(t, err)
	b, err := New(p, mask.Rect{})
	require.NoError(t, err)

	require.Equal(t, a.State(), b.State())
	for i := 0; i < 40; i++ {
		sa, sb := a.Step(), b.Step()
		require.Equal(t, sa, sb)
		require.Equal(t, a.State(), b.State(), "diverged at step %d", i)
	}
}

func TestResetReplays(t *testing.T) {
	bt, err := New(rectParams(16, 24), mask.Rect{})
	require.NoError(t, err)
	for i := 0; i < 15; i++ {
		bt.Step()
	}
	first := bt.State()

	bt.Reset(0)
	assert.Equal(t, 0, bt.Steps())
	for i := 0; i < 15; i++ {
		bt.Step()
	}
	assert.Equal(t, first, bt.State())
}

func TestFractionsStayBounded(t *testing.T) {
	bt, err := New(rectParams(24, 32), mask.Rect{})
	require.NoError(t, err)
	for i := 0; i < 200 && bt.Step(); i++ {
		fa, fb := bt.Fractions()
		require.GreaterOrEqual(t, fa, 0.0)
		require.GreaterOrEqual(t, fb, 0.0)
		require.LessOrEqual(t, fa+fb, 1.0+1e-12)
	}
}

func TestFractionsIgnoreUnmaskedCells(t *testing.T) {
	regime := []mask.Regime{mask.A, mask.B, mask.A, mask.Unclaimed}
	m := []bool{true, true, false, true}
	fa, fb := Fractions(regime, m, 3)
	assert.InDelta(t, 1.0/3, fa, 1e-12)
	assert.InDelta(t, 1.0/3, fb, 1e-12)
}

func TestDominantFrontWinsAndSwitchFrameIsSticky(t *testing.T) {
	bt, err := New(dominantA(20, 30), mask.Rect{})
	require.NoError(t, err)
	assert.Equal(t, -1, bt.SwitchFrame())
	assert.Equal(t, GlobalNone, bt.Global())

	first := -1
	for i := 0; i < 500 && bt.Step(); i++ {
		if first == -1 && bt.SwitchFrame() != -1 {
			first = bt.SwitchFrame()
			assert.True(t, bt.Switched())
			assert.Equal(t, bt.Steps()-1, first)
		}
		if first != -1 {
			require.Equal(t, first, bt.SwitchFrame())
		}
	}
	require.True(t, bt.Complete())
	assert.NotEqual(t, -1, first)
	assert.Equal(t, GlobalA, bt.Global())
	assert.Equal(t, "Frozen", bt.Winner())

	st := bt.Stats()
	assert.True(t, st.Complete)
	assert.Equal(t, 0, st.FrontierSize())
	assert.Equal(t, "A", st.Global)
}

func TestStepAfterCompleteDoesNothing(t *testing.T) {
	bt, err := New(dominantA(10, 12), mask.Rect{})
	require.NoError(t, err)
	runUntilComplete(t, bt, 500)

	before := bt.State()
	assert.False(t, bt.Step())
	assert.Equal(t, before, bt.State())
}

func TestHysteresis(t *testing.T) {
	h := Hysteresis{Threshold: 0.9, Margin: 0.05}

	g, sf, changed := h.Apply(GlobalNone, 0.95, 0.05, 3, -1)
	assert.Equal(t, GlobalA, g)
	assert.Equal(t, 3, sf)
	assert.True(t, changed)

	g, sf, changed = h.Apply(g, 0.87, 0.1, 4, sf)
	assert.Equal(t, GlobalA, g)
	assert.Equal(t, 3, sf)
	assert.False(t, changed)

	g, sf, changed = h.Apply(g, 0.849, 0.1, 5, sf)
	assert.Equal(t, GlobalNone, g)
	assert.Equal(t, 3, sf)
	assert.True(t, changed)

	g, sf, _ = h.Apply(g, 0.02, 0.96, 9, sf)
	assert.Equal(t, GlobalB, g)
	assert.Equal(t, 3, sf, "switch frame must not move after the first switch")
}

func TestHysteresisRevertingAThenSwitchingB(t *testing.T) {
	h := Hysteresis{Threshold: 0.5, Margin: 0.1}
	g, sf, changed := h.Apply(GlobalA, 0.3, 0.6, 7, -1)
	assert.Equal(t, GlobalB, g)
	assert.Equal(t, 7, sf)
	assert.True(t, changed)
}

func TestHysteresisLowerBoundClampsAtZero(t *testing.T) {
	hi, lo := Hysteresis{Threshold: 0.05, Margin: 0.2}.Bounds()
	assert.Equal(t, 0.05, hi)
	assert.Equal(t, 0.0, lo)
}

func TestPreconditions(t *testing.T) {
	full := make([]bool, 16)
	for i := range full {
		full[i] = true
	}
	holed := append([]bool(nil), full...)
	holed[5] = false

	cases := map[string]struct {
		params   Params
		provider mask.Provider
	}{
		"zero width":     {params: rectParams(0, 4), provider: mask.Rect{}},
		"negative speed": {params: func() Params { p := rectParams(4, 4); p.SpeedB = -1; return p }(), provider: mask.Rect{}},
		"empty mask":     {params: rectParams(4, 4), provider: stubProvider{m: make([]bool, 16)}},
		"short mask":     {params: rectParams(4, 4), provider: stubProvider{m: full[:8]}},
		"spawn unmasked": {params: rectParams(4, 4), provider: stubProvider{m: holed, spawn: mask.Spawn{A: []int{0}, B: []int{5}}}},
		"spawn outside":  {params: rectParams(4, 4), provider: stubProvider{m: full, spawn: mask.Spawn{A: []int{16}}}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			bt, err := New(tc.params, tc.provider)
			require.Error(t, err)
			assert.Nil(t, bt)
			assert.True(t, errors.Is(err, core.ErrPrecondition))
			var pe *core.PreconditionError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "bottle.new", pe.Op)
		})
	}
}

func TestCoLocatedSpawnConflict(t *testing.T) {
	p := rectParams(5, 5)
	p.Spawn = mask.Custom

	p.BiasA, p.BiasB = 0, 0.5
	bt, err := New(p, mask.Rect{})
	require.NoError(t, err)
	st := bt.State()
	assert.Equal(t, mask.B, st.Regime[12])
	assert.Empty(t, st.FrontierA)
	assert.Equal(t, []int{12}, st.FrontierB)
	assert.Zero(t, st.StrengthA[12])

	p.BiasA, p.BiasB = 0.5, 0
	bt, err = New(p, mask.Rect{})
	require.NoError(t, err)
	st = bt.State()
	assert.Equal(t, mask.A, st.Regime[12])
	assert.Equal(t, []int{12}, st.FrontierA)
	assert.Empty(t, st.FrontierB)
}

func TestFillPresetStartsInFillRegime(t *testing.T) {
	p := rectParams(20, 20)
	p.Spawn = mask.FrozenStart
	bt, err := New(p, mask.Rect{})
	require.NoError(t, err)

	assert.Equal(t, GlobalA, bt.Global())
	assert.Equal(t, -1, bt.SwitchFrame())
	fa, fb := bt.Fractions()
	assert.InDelta(t, 25.0/400, fb, 1e-12)
	assert.InDelta(t, 375.0/400, fa, 1e-12)

	st := bt.State()
	assert.Empty(t, st.FrontierA)
	assert.Len(t, st.FrontierB, 25)
	for i, r := range st.Regime {
		if r == mask.A {
			assert.Zero(t, st.StrengthB[i])
			assert.GreaterOrEqual(t, st.StrengthA[i], float32(0.8))
		}
	}
}

func TestClaimedCellsZeroTheLoser(t *testing.T) {
	bt, err := New(rectParams(18, 26), mask.Rect{})
	require.NoError(t, err)
	for i := 0; i < 60 && bt.Step(); i++ {
		st := bt.State()
		for idx, r := range st.Regime {
			switch r {
			case mask.A:
				require.Zero(t, st.StrengthB[idx], "cell %d", idx)
			case mask.B:
				require.Zero(t, st.StrengthA[idx], "cell %d", idx)
			}
		}
	}
}

func TestStateIsDeepCopy(t *testing.T) {
	bt, err := New(rectParams(8, 8), mask.Rect{})
	require.NoError(t, err)
	st := bt.State()
	st.Regime[0] = mask.B
	st.FrontierA[0] = -5
	assert.NotEqual(t, st.Regime[0], bt.State().Regime[0])
	assert.NotEqual(t, -5, bt.State().FrontierA[0])
}

func TestSettersRebuild(t *testing.T) {
	bt, err := New(rectParams(12, 16), mask.Rect{})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		bt.Step()
	}

	require.True(t, bt.SetFloatParameter("bias_a", 0.3))
	assert.Equal(t, 0, bt.Steps())
	assert.Equal(t, 0.3, bt.Params().BiasA)
	assert.False(t, bt.SetFloatParameter("nope", 1))

	require.True(t, bt.SetIntParameter("speed_b", 5))
	assert.Equal(t, 5, bt.Params().SpeedB)

	bt.Step()
	before := bt.State()
	assert.False(t, bt.SetIntParameter("width", 0))
	assert.Equal(t, before, bt.State())

	bt.CycleSpawn()
	assert.Equal(t, mask.LeftVsRight, bt.Params().Spawn)

	p, ok := bt.Parameters().Lookup("lo")
	require.True(t, ok)
	assert.Equal(t, "0.95", p.Value)
}

func TestFromMap(t *testing.T) {
	p := FromMap(map[string]string{
		"width":     "60",
		"height":    "80",
		"threshold": "0.9",
		"bias_b":    "0.25",
		"speed_a":   "2",
		"seed":      "7",
		"spawn":     "neckVsBody",
	})
	assert.Equal(t, 60, p.Width)
	assert.Equal(t, 80, p.Height)
	assert.Equal(t, 0.9, p.Threshold)
	assert.Equal(t, 0.25, p.BiasB)
	assert.Equal(t, 2, p.SpeedA)
	assert.Equal(t, int64(7), p.Seed)
	assert.Equal(t, mask.NeckVsBody, p.Spawn)

	assert.Equal(t, mask.Custom, FromMap(map[string]string{"spawn": "bogus"}).Spawn)
	assert.Equal(t, DefaultParams(), FromMap(nil))
}

func TestRegisteredFactoryUsesSilhouette(t *testing.T) {
	f, ok := core.Sims()["bottle"]
	require.True(t, ok)
	sim, err := f(map[string]string{"width": "60", "height": "80"})
	require.NoError(t, err)
	bt := sim.(*Bottle)
	assert.Less(t, bt.ActiveCells(), 60*80)
	assert.Positive(t, bt.ActiveCells())

	_, err = f(map[string]string{"width": "0"})
	assert.ErrorIs(t, err, core.ErrPrecondition)
}

func TestDisplayUsesPalette(t *testing.T) {
	bt, err := New(DefaultParams(), nil)
	require.NoError(t, err)
	bt.Step()
	for _, c := range bt.Cells() {
		require.Less(t, int(c), len(bt.Palette()))
	}
	assert.Equal(t, uint8(displayOutside), bt.Cells()[0])
}

// traceRun steps bt to completion, writing one line per step followed by the
// final regime map.
func traceRun(t *testing.T, bt *Bottle, limit int) []byte {
	t.Helper()
	var buf bytes.Buffer
	line := func() {
		st := bt.Stats()
		fmt.Fprintf(&buf, "step %d fracA %.6f fracB %.6f frontA %d frontB %d global %s\n",
			st.Steps, st.FracA, st.FracB, st.FrontierA, st.FrontierB, st.Global)
	}
	line()
	for i := 0; bt.Step(); i++ {
		require.Less(t, i, limit, "run did not complete")
		line()
	}
	buf.WriteByte('\n')
	state := bt.State()
	for y := 0; y < state.Height; y++ {
		for x := 0; x < state.Width; x++ {
			buf.WriteString(state.Regime[y*state.Width+x].String())
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func strengthSum(s State) float64 {
	sum := 0.0
	for _, v := range s.StrengthA {
		sum += float64(v)
	}
	for _, v := range s.StrengthB {
		sum += float64(v)
	}
	return sum
}

// The traces pin the in-place scan order, A sub-steps before B, and the
// jitter-then-bias draw order of each candidate.
func TestRectRunGolden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	cases := []struct {
		spawn       mask.Preset
		steps       int
		switchFrame int
		strength    float64
	}{
		{mask.CapVsBase, 16, 15, 2327.181796},
		{mask.FrozenStart, 9, 7, 995.902465},
	}
	for _, tc := range cases {
		t.Run(string(tc.spawn), func(t *testing.T) {
			p := rectParams(20, 30)
			p.Spawn = tc.spawn
			bt, err := New(p, mask.Rect{})
			require.NoError(t, err)

			g.Assert(t, "rect_20x30_"+string(tc.spawn), traceRun(t, bt, 100))
			assert.Equal(t, tc.steps, bt.Steps())
			assert.Equal(t, tc.switchFrame, bt.SwitchFrame())
			assert.InDelta(t, tc.strength, strengthSum(bt.State()), 1e-5)
		})
	}
}

func TestCustomSpawnOutcome(t *testing.T) {
	p := rectParams(20, 30)
	p.Spawn = mask.Custom
	bt, err := New(p, mask.Rect{})
	require.NoError(t, err)
	runUntilComplete(t, bt, 100)

	assert.Equal(t, 9, bt.Steps())
	assert.Equal(t, 8, bt.SwitchFrame())
	assert.Equal(t, GlobalA, bt.Global())
	assert.InDelta(t, 1068.285945, strengthSum(bt.State()), 1e-5)
}
