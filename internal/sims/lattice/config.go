package lattice

import (
	"math"
	"strconv"
)

// KStar is the percolation-style threshold 1/(2·ln2).
var KStar = 1 / (2 * math.Ln2)

const (
	// MinSize and MaxSize bound the lattice dimension after odd-forcing.
	MinSize = 5
	MaxSize = 49

	// MaxBias bounds propagationBias.
	MaxBias = 0.6
)

// Config holds parameters for the seam lattice.
type Config struct {
	Size            int
	ThresholdK      float64
	PropagationBias float64
	Seed            int64
	Mode            DisplayMode
	// Metadata enables per-cell flip instrumentation.
	Metadata bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Size:            11,
		ThresholdK:      KStar,
		PropagationBias: 0.25,
		Seed:            1,
		Mode:            ModeDefault,
		Metadata:        true,
	}
}

// EffectiveThreshold is the value a draw must exceed for a candidate to
// propagate.
func (c Config) EffectiveThreshold() float64 {
	return c.ThresholdK - c.PropagationBias
}

// NormalizeSize rounds even sizes up to the next odd value and clamps the
// result to [MinSize, MaxSize].
func NormalizeSize(n int) int {
	if n%2 == 0 {
		n++
	}
	if n < MinSize {
		return MinSize
	}
	if n > MaxSize {
		return MaxSize
	}
	return n
}

// ClampBias bounds b to [0, MaxBias].
func ClampBias(b float64) float64 {
	return math.Min(MaxBias, math.Max(0, b))
}

// Normalized returns c with its size forced odd and bias clamped.
func (c Config) Normalized() Config {
	c.Size = NormalizeSize(c.Size)
	c.PropagationBias = ClampBias(c.PropagationBias)
	if _, ok := ParseMode(string(c.Mode)); !ok {
		c.Mode = ModeDefault
	}
	return c
}

// FromMap populates a Config from a string map.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["n"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Size = parsed
		}
	}
	if v, ok := cfg["k"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.ThresholdK = parsed
		}
	}
	if v, ok := cfg["bias"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.PropagationBias = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["mode"]; ok {
		if mode, ok := ParseMode(v); ok {
			c.Mode = mode
		}
	}
	if v, ok := cfg["metadata"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.Metadata = parsed
		}
	}
	return c.Normalized()
}
