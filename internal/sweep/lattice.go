package sweep

import (
	"context"
	"fmt"

	"seam-lattice/internal/sims/lattice"
)

// LatticeSweep measures how often a center ignition annihilates the grid
// across a range of propagation biases.
type LatticeSweep struct {
	Base   lattice.Config
	Biases []float64
	// Trials per bias; trial i runs with seed Base.Seed+i.
	Trials int
	// MaxSteps caps a single run; capped runs count as not annihilated.
	MaxSteps int
	// Randomize scrambles the grid before each ignition.
	Randomize bool
}

// LatticeResult aggregates the trials of one bias.
type LatticeResult struct {
	Bias          float64 `json:"bias"`
	KEff          float64 `json:"k_eff"`
	Trials        int     `json:"trials"`
	Annihilated   int     `json:"annihilated"`
	Capped        int     `json:"capped"`
	Rate          float64 `json:"rate"`
	MeanSteps     float64 `json:"mean_steps"`
	MeanCoherence float64 `json:"mean_coherence"`
}

type latticeJob struct {
	point int
	cfg   lattice.Config
}

type latticeOutcome struct {
	steps       int
	coherence   float64
	annihilated bool
	capped      bool
}

// Run executes the sweep. Results are ordered like Biases and do not depend
// on the worker count.
func (s LatticeSweep) Run(ctx context.Context, workers int) ([]LatticeResult, error) {
	if len(s.Biases) == 0 || s.Trials <= 0 {
		return nil, fmt.Errorf("lattice sweep: need at least one bias and one trial")
	}
	maxSteps := s.MaxSteps
	if maxSteps <= 0 {
		n := lattice.NormalizeSize(s.Base.Size)
		maxSteps = 4 * n * n
	}

	jobs := make([]latticeJob, 0, len(s.Biases)*s.Trials)
	for p, bias := range s.Biases {
		for trial := 0; trial < s.Trials; trial++ {
			cfg := s.Base
			cfg.PropagationBias = bias
			cfg.Seed = s.Base.Seed + int64(trial)
			cfg.Metadata = false
			jobs = append(jobs, latticeJob{point: p, cfg: cfg})
		}
	}

	outcomes, err := run(ctx, workers, jobs, func(j latticeJob) latticeOutcome {
		return runLattice(j.cfg, maxSteps, s.Randomize)
	})
	if err != nil {
		return nil, err
	}

	results := make([]LatticeResult, len(s.Biases))
	for p, bias := range s.Biases {
		cfg := s.Base
		cfg.PropagationBias = bias
		cfg = cfg.Normalized()
		results[p] = LatticeResult{Bias: cfg.PropagationBias, KEff: cfg.EffectiveThreshold(), Trials: s.Trials}
	}
	steps := make([]int, len(s.Biases))
	coherence := make([]float64, len(s.Biases))
	for i, o := range outcomes {
		p := jobs[i].point
		steps[p] += o.steps
		coherence[p] += o.coherence
		if o.annihilated {
			results[p].Annihilated++
		}
		if o.capped {
			results[p].Capped++
		}
	}
	for p := range results {
		n := float64(s.Trials)
		results[p].Rate = float64(results[p].Annihilated) / n
		results[p].MeanSteps = float64(steps[p]) / n
		results[p].MeanCoherence = coherence[p] / n
	}
	return results, nil
}

func runLattice(cfg lattice.Config, maxSteps int, randomize bool) latticeOutcome {
	l := lattice.New(cfg)
	if randomize {
		l.Randomize()
	}
	if err := l.IgniteCenter(); err != nil {
		return latticeOutcome{}
	}
	for i := 0; i < maxSteps; i++ {
		if !l.Step() {
			return latticeOutcome{steps: l.Steps(), coherence: l.Coherence(), annihilated: l.Annihilated()}
		}
	}
	return latticeOutcome{steps: l.Steps(), coherence: l.Coherence(), capped: true}
}
