package bottle

import (
	"math"

	"seam-lattice/internal/core"
	"seam-lattice/internal/mask"
)

// Parameters reports the tunables for the HUD and CLI.
func (b *Bottle) Parameters() core.ParameterSnapshot {
	p := b.params
	hi, lo := b.hyst.Bounds()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Domain",
			Params: []core.Parameter{
				core.IntParam("width", "Width", p.Width),
				core.IntParam("height", "Height", p.Height),
				core.IntParam("active", "Active cells", b.active),
				core.StringParam("spawn", "Spawn", string(p.Spawn)),
				core.Int64Param("seed", "Seed", p.Seed),
			},
		},
		{
			Name:    "Consensus",
			Summary: "switch at hi, revert below lo",
			Params: []core.Parameter{
				core.FloatParam("threshold", "Threshold", p.Threshold),
				core.FloatParam("hysteresis", "Hysteresis", p.Hysteresis),
				core.FloatParam("hi", "Switch level", hi),
				core.FloatParam("lo", "Revert level", lo),
			},
		},
		{
			Name: "Fronts",
			Params: []core.Parameter{
				core.FloatParam("bias_a", "Frozen bias", p.BiasA),
				core.FloatParam("bias_b", "Liquid bias", p.BiasB),
				core.IntParam("speed_a", "Frozen speed", p.SpeedA),
				core.IntParam("speed_b", "Liquid speed", p.SpeedB),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable parameters.
func (b *Bottle) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		core.FloatControl("threshold", "Threshold", 0.01, 0.6, 1),
		core.FloatControl("hysteresis", "Hysteresis", 0.01, 0, 0.2),
		core.FloatControl("bias_a", "Frozen bias", 0.01, 0, 0.5),
		core.FloatControl("bias_b", "Liquid bias", 0.01, 0, 0.5),
		core.IntControl("speed_a", "Frozen speed", 1, 0, 10),
		core.IntControl("speed_b", "Liquid speed", 1, 0, 10),
	}
}

// SetFloatParameter updates a float parameter and rebuilds the run.
func (b *Bottle) SetFloatParameter(key string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	p := b.params
	switch key {
	case "threshold":
		p.Threshold = math.Max(0, math.Min(1, value))
	case "hysteresis":
		p.Hysteresis = math.Max(0, value)
	case "bias_a":
		p.BiasA = math.Max(0, value)
	case "bias_b":
		p.BiasB = math.Max(0, value)
	default:
		return false
	}
	return b.rebuild(p)
}

// SetIntParameter updates an integer parameter and rebuilds the run.
func (b *Bottle) SetIntParameter(key string, value int) bool {
	p := b.params
	switch key {
	case "speed_a":
		p.SpeedA = max(0, value)
	case "speed_b":
		p.SpeedB = max(0, value)
	case "seed":
		p.Seed = int64(value)
	case "width":
		p.Width = value
	case "height":
		p.Height = value
	default:
		return false
	}
	return b.rebuild(p)
}

// SetSpawn switches the spawn layout and rebuilds the run.
func (b *Bottle) SetSpawn(preset mask.Preset) bool {
	p := b.params
	p.Spawn = preset
	return b.rebuild(p)
}

// CycleSpawn advances to the next spawn layout.
func (b *Bottle) CycleSpawn() {
	for i, s := range mask.Presets {
		if s == b.params.Spawn {
			b.SetSpawn(mask.Presets[(i+1)%len(mask.Presets)])
			return
		}
	}
	b.SetSpawn(mask.CapVsBase)
}
