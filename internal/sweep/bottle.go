package sweep

import (
	"context"
	"fmt"
	"slices"

	"seam-lattice/internal/mask"
	"seam-lattice/internal/sims/bottle"
)

// BottleSweep measures which front wins as the liquid bias varies against a
// fixed frozen bias.
type BottleSweep struct {
	Base     bottle.Params
	Provider mask.Provider
	BiasesB  []float64
	// Trials per bias; trial i runs with seed Base.Seed+i.
	Trials   int
	MaxSteps int
}

// BottleResult aggregates the trials of one liquid bias.
type BottleResult struct {
	BiasA           float64 `json:"bias_a"`
	BiasB           float64 `json:"bias_b"`
	Trials          int     `json:"trials"`
	FrozenWins      int     `json:"frozen_wins"`
	LiquidWins      int     `json:"liquid_wins"`
	Undecided       int     `json:"undecided"`
	MeanSwitchFrame float64 `json:"mean_switch_frame"`
	MeanFracA       float64 `json:"mean_frac_a"`
}

type bottleJob struct {
	point  int
	params bottle.Params
}

type bottleOutcome struct {
	global      bottle.Global
	switchFrame int
	fracA       float64
	err         error
}

// fixedMask hands every engine the same precomputed domain.
type fixedMask struct {
	m     []bool
	inner mask.Provider
}

func (f fixedMask) Mask(int, int) []bool { return slices.Clone(f.m) }

func (f fixedMask) Spawn(p mask.Preset, m []bool, w, h int) mask.Spawn {
	return f.inner.Spawn(p, m, w, h)
}

// Run executes the sweep. Results are ordered like BiasesB and do not depend
// on the worker count.
func (s BottleSweep) Run(ctx context.Context, workers int) ([]BottleResult, error) {
	if len(s.BiasesB) == 0 || s.Trials <= 0 {
		return nil, fmt.Errorf("bottle sweep: need at least one bias and one trial")
	}
	provider := s.Provider
	if provider == nil {
		provider = mask.NewBottle()
	}
	shared := fixedMask{m: provider.Mask(s.Base.Width, s.Base.Height), inner: provider}
	maxSteps := s.MaxSteps
	if maxSteps <= 0 {
		maxSteps = s.Base.Width + s.Base.Height
	}

	jobs := make([]bottleJob, 0, len(s.BiasesB)*s.Trials)
	for p, bias := range s.BiasesB {
		for trial := 0; trial < s.Trials; trial++ {
			params := s.Base
			params.BiasB = bias
			params.Seed = s.Base.Seed + int64(trial)
			jobs = append(jobs, bottleJob{point: p, params: params})
		}
	}

	outcomes, err := run(ctx, workers, jobs, func(j bottleJob) bottleOutcome {
		return runBottle(j.params, shared, maxSteps)
	})
	if err != nil {
		return nil, err
	}

	results := make([]BottleResult, len(s.BiasesB))
	switchSum := make([]int, len(s.BiasesB))
	switchN := make([]int, len(s.BiasesB))
	fracSum := make([]float64, len(s.BiasesB))
	for p, bias := range s.BiasesB {
		results[p] = BottleResult{BiasA: s.Base.BiasA, BiasB: bias, Trials: s.Trials}
	}
	for i, o := range outcomes {
		if o.err != nil {
			return nil, fmt.Errorf("bottle sweep: %w", o.err)
		}
		p := jobs[i].point
		switch o.global {
		case bottle.GlobalA:
			results[p].FrozenWins++
		case bottle.GlobalB:
			results[p].LiquidWins++
		default:
			results[p].Undecided++
		}
		if o.switchFrame >= 0 {
			switchSum[p] += o.switchFrame
			switchN[p]++
		}
		fracSum[p] += o.fracA
	}
	for p := range results {
		results[p].MeanSwitchFrame = -1
		if switchN[p] > 0 {
			results[p].MeanSwitchFrame = float64(switchSum[p]) / float64(switchN[p])
		}
		results[p].MeanFracA = fracSum[p] / float64(s.Trials)
	}
	return results, nil
}

func runBottle(params bottle.Params, provider mask.Provider, maxSteps int) bottleOutcome {
	b, err := bottle.New(params, provider)
	if err != nil {
		return bottleOutcome{err: err}
	}
	for i := 0; i < maxSteps; i++ {
		if !b.Step() {
			break
		}
	}
	fracA, _ := b.Fractions()
	return bottleOutcome{global: b.Global(), switchFrame: b.SwitchFrame(), fracA: fracA}
}
