package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seam-lattice/internal/core"
	"seam-lattice/internal/mask"
	"seam-lattice/internal/sims/bottle"
	"seam-lattice/internal/sims/lattice"
)

type bareSim struct{}

func (bareSim) Name() string { return "bare" }
func (bareSim) Size() core.Size { return core.Size{W: 1, H: 1} }
func (bareSim) Reset(int64) {}
func (bareSim) Step() bool { return false }
func (bareSim) Cells() []uint8 { return []uint8{0} }

func newLattice(t *testing.T, k, bias float64) *lattice.Lattice {
	t.Helper()
	cfg := lattice.DefaultConfig()
	cfg.Size = 5
	cfg.ThresholdK = k
	cfg.PropagationBias = bias
	l := lattice.New(cfg)
	require.NoError(t, l.IgniteCenter())
	return l
}

func newBottle(t *testing.T) *bottle.Bottle {
	t.Helper()
	p := bottle.DefaultParams()
	p.Width, p.Height = 20, 30
	p.Threshold = 0.6
	p.BiasA, p.BiasB = 0.5, 0
	p.SpeedA, p.SpeedB = 4, 1
	b, err := bottle.New(p, mask.Rect{})
	require.NoError(t, err)
	return b
}

func TestControlsFollowSnapshot(t *testing.T) {
	l := newLattice(t, 0.5, 0)
	controls := newControls(l)
	require.Len(t, controls, 3)
	refresh(controls, l.Parameters())

	assert.Equal(t, "n", controls[0].Key)
	assert.Equal(t, "5", controls[0].text)
	assert.True(t, controls[0].known)
	assert.Equal(t, "0.50", controls[1].text)
}

func TestAdjustIntControlRebuildsLattice(t *testing.T) {
	l := newLattice(t, 0.5, 0)
	controls := newControls(l)
	refresh(controls, l.Parameters())

	require.True(t, adjust(l, &controls[0], 1))
	assert.Equal(t, 7, l.N())
	assert.Equal(t, "7", controls[0].text)

	require.True(t, l.SetIntParameter("n", lattice.MaxSize))
	refresh(controls, l.Parameters())
	_, ok := controls[0].target(1)
	assert.False(t, ok, "size is already at its maximum")
	assert.False(t, adjust(l, &controls[0], 1))
}

func TestAdjustFloatControlClampsToBounds(t *testing.T) {
	b := newBottle(t)
	controls := newControls(b)
	refresh(controls, b.Parameters())
	require.Equal(t, "threshold", controls[0].Key)

	assert.False(t, adjust(b, &controls[0], -1), "threshold 0.6 is at its minimum")
	require.True(t, adjust(b, &controls[0], 1))
	assert.InDelta(t, 0.61, b.Params().Threshold, 1e-9)
	assert.Equal(t, "0.61", controls[0].text)
}

func TestUnknownControlsCannotAdjust(t *testing.T) {
	l := newLattice(t, 0.5, 0)
	c := []control{{ParameterControl: core.FloatControl("missing", "Missing", 0.1, 0, 1)}}
	refresh(c, l.Parameters())
	assert.False(t, c[0].known)
	assert.Equal(t, "--", c[0].text)
	assert.False(t, adjust(l, &c[0], 1))

	assert.Nil(t, newControls(bareSim{}))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "3", formatValue(core.IntControl("x", "x", 1, 0, 9), 3))
	assert.Equal(t, "0.2500", formatValue(core.FloatControl("x", "x", 0.0005, 0, 1), 0.25))
	assert.Equal(t, "0.250", formatValue(core.FloatControl("x", "x", 0.005, 0, 1), 0.25))
	assert.Equal(t, "0.5", formatValue(core.FloatControl("x", "x", 0.5, 0, 1), 0.5))
}

func TestStatusLineLattice(t *testing.T) {
	l := newLattice(t, 0.5, lattice.MaxBias)
	require.True(t, l.Step())
	assert.Equal(t, "step 1  coherence 0.920  seams 4  v 1.0  eta 24", StatusLine(l))

	for i := 0; i < 100 && l.Step(); i++ {
	}
	assert.Equal(t, "step 25  coherence -1.000  seams 0  v 1.0  annihilated", StatusLine(l))
}

func TestStatusLineLatticeDiedOut(t *testing.T) {
	l := newLattice(t, 1, 0)
	require.True(t, l.Step())
	require.False(t, l.Step())
	assert.Equal(t, "step 1  coherence 0.920  seams 0  v 1.0  died out", StatusLine(l))
}

func TestStatusLineBottle(t *testing.T) {
	b := newBottle(t)
	assert.Contains(t, StatusLine(b), "step 0  A ")
	assert.Contains(t, StatusLine(b), "global none")
	assert.NotContains(t, StatusLine(b), "complete")

	for i := 0; i < 500 && b.Step(); i++ {
	}
	require.True(t, b.Complete())
	assert.Contains(t, StatusLine(b), "complete")

	assert.Equal(t, "bare", StatusLine(bareSim{}))
}

func TestHighlights(t *testing.T) {
	l := newLattice(t, 0.5, lattice.MaxBias)
	primary, secondary := highlights(l)
	assert.Equal(t, []int{12}, primary)
	assert.Nil(t, secondary)

	b := newBottle(t)
	a, bf := highlights(b)
	fa, fb := b.Frontiers()
	assert.Equal(t, fa, a)
	assert.Equal(t, fb, bf)

	primary, secondary = highlights(bareSim{})
	assert.Nil(t, primary)
	assert.Nil(t, secondary)
}
