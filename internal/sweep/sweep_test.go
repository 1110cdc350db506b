package sweep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seam-lattice/internal/mask"
	"seam-lattice/internal/sims/bottle"
	"seam-lattice/internal/sims/lattice"
)

func TestRunPreservesJobOrder(t *testing.T) {
	jobs := make([]int, 100)
	for i := range jobs {
		jobs[i] = i
	}
	out, err := run(context.Background(), 7, jobs, func(j int) int { return j * j })
	require.NoError(t, err)
	for i, v := range out {
		require.Equal(t, i*i, v)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := run(ctx, 2, make([]int, 50), func(int) int { return 0 })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLatticeSweepIndependentOfWorkers(t *testing.T) {
	s := LatticeSweep{
		Base:   lattice.DefaultConfig(),
		Biases: []float64{0, 0.15, 0.3},
		Trials: 12,
	}
	one, err := s.Run(context.Background(), 1)
	require.NoError(t, err)
	many, err := s.Run(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, one, many)
	require.Len(t, one, 3)
	for _, r := range one {
		assert.Equal(t, 12, r.Trials)
		assert.InDelta(t, float64(r.Annihilated)/12, r.Rate, 1e-12)
	}
}

func TestLatticeSweepExtremes(t *testing.T) {
	base := lattice.DefaultConfig()
	base.ThresholdK = 0.5
	s := LatticeSweep{Base: base, Biases: []float64{lattice.MaxBias}, Trials: 4}
	res, err := s.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res[0].Rate)
	assert.Equal(t, float64(base.Size*base.Size), res[0].MeanSteps)
	assert.Equal(t, -1.0, res[0].MeanCoherence)

	base.ThresholdK = 1
	s = LatticeSweep{Base: base, Biases: []float64{0}, Trials: 4}
	res, err = s.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res[0].Rate)
	assert.Equal(t, 1.0, res[0].MeanSteps)
}

func TestLatticeSweepRejectsEmpty(t *testing.T) {
	_, err := LatticeSweep{Base: lattice.DefaultConfig()}.Run(context.Background(), 1)
	assert.Error(t, err)
}

func TestBottleSweepIndependentOfWorkers(t *testing.T) {
	base := bottle.DefaultParams()
	base.Width, base.Height = 24, 32
	s := BottleSweep{
		Base:     base,
		Provider: mask.Rect{},
		BiasesB:  []float64{0, 0.3},
		Trials:   4,
	}
	one, err := s.Run(context.Background(), 1)
	require.NoError(t, err)
	many, err := s.Run(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, one, many)
	for _, r := range one {
		assert.Equal(t, r.Trials, r.FrozenWins+r.LiquidWins+r.Undecided)
	}
}

func TestBottleSweepPropagatesPreconditions(t *testing.T) {
	base := bottle.DefaultParams()
	base.SpeedA = -1
	_, err := BottleSweep{Base: base, Provider: mask.Rect{}, BiasesB: []float64{0}, Trials: 1}.Run(context.Background(), 1)
	assert.Error(t, err)
}
