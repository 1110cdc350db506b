package lattice

import (
	"math"

	"seam-lattice/internal/core"
)

// Parameters reports the tunables for the HUD and CLI.
func (l *Lattice) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				core.IntParam("n", "Grid size", l.cfg.Size),
				core.Int64Param("seed", "Seed", l.cfg.Seed),
				core.StringParam("mode", "Display", string(l.cfg.Mode)),
			},
		},
		{
			Name:    "Propagation",
			Summary: "a candidate flips when a uniform draw exceeds k - bias",
			Params: []core.Parameter{
				core.FloatParam("k", "Threshold k", l.cfg.ThresholdK),
				core.FloatParam("bias", "Propagation bias", l.cfg.PropagationBias),
				core.FloatParam("k_eff", "Effective threshold", l.cfg.EffectiveThreshold()),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable parameters.
func (l *Lattice) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		core.IntControl("n", "Grid size", 2, MinSize, MaxSize),
		core.FloatControl("k", "Threshold k", 0.01, 0, 1),
		core.FloatControl("bias", "Bias", 0.05, 0, MaxBias),
	}
}

// SetIntParameter updates an integer parameter and rebuilds the lattice.
func (l *Lattice) SetIntParameter(key string, value int) bool {
	switch key {
	case "n":
		next := NormalizeSize(value)
		if next == l.cfg.Size {
			return false
		}
		cfg := l.cfg
		cfg.Size = next
		l.rebuild(cfg)
		return true
	case "seed":
		cfg := l.cfg
		cfg.Seed = int64(value)
		l.rebuild(cfg)
		return true
	}
	return false
}

// SetFloatParameter updates a float parameter and rebuilds the lattice.
func (l *Lattice) SetFloatParameter(key string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	cfg := l.cfg
	switch key {
	case "k":
		cfg.ThresholdK = math.Max(0, math.Min(1, value))
	case "bias":
		cfg.PropagationBias = ClampBias(value)
	default:
		return false
	}
	l.rebuild(cfg)
	return true
}

// rebuild discards every array and restarts from cfg, ignited at the center;
// queues and metadata never survive a parameter change. New forces the size
// odd, so the center always exists.
func (l *Lattice) rebuild(cfg Config) {
	*l = *New(cfg)
	l.start(l.center())
}
