package bottle

import (
	"strconv"

	"seam-lattice/internal/mask"
)

// Params configures a bottle run.
type Params struct {
	Width  int
	Height int
	// Threshold is the consensus fraction τ that switches the global regime.
	Threshold float64
	// Hysteresis is how far a fraction must fall below τ before reverting.
	Hysteresis float64
	BiasA      float64
	BiasB      float64
	// SpeedA and SpeedB are expansion sub-steps per Step.
	SpeedA int
	SpeedB int
	Seed   int64
	Spawn  mask.Preset
}

// DefaultParams returns the default configuration.
func DefaultParams() Params {
	return Params{
		Width:      150,
		Height:     200,
		Threshold:  1.0,
		Hysteresis: 0.05,
		BiasA:      0.1,
		BiasB:      0.1,
		SpeedA:     3,
		SpeedB:     3,
		Seed:       42,
		Spawn:      mask.CapVsBase,
	}
}

// FromMap populates Params from a string map.
func FromMap(cfg map[string]string) Params {
	p := DefaultParams()
	if cfg == nil {
		return p
	}
	ints := map[string]*int{
		"width":   &p.Width,
		"height":  &p.Height,
		"speed_a": &p.SpeedA,
		"speed_b": &p.SpeedB,
	}
	for key, dst := range ints {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil {
				*dst = parsed
			}
		}
	}
	floats := map[string]*float64{
		"threshold":  &p.Threshold,
		"hysteresis": &p.Hysteresis,
		"bias_a":     &p.BiasA,
		"bias_b":     &p.BiasB,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = parsed
			}
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			p.Seed = parsed
		}
	}
	if v, ok := cfg["spawn"]; ok {
		p.Spawn, _ = mask.ParsePreset(v)
	}
	return p
}
