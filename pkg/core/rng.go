package core

// RNG is a seeded Mulberry32 generator. Its output sequence depends only on
// the 32-bit seed, so identical seeds replay identical runs.
type RNG struct {
	state uint32
}

// NewRNG creates a deterministic RNG using the low 32 bits of seed.
func NewRNG(seed int64) *RNG {
	return &RNG{state: uint32(seed)}
}

// Seed restarts the sequence from seed.
func (r *RNG) Seed(seed int64) {
	r.state = uint32(seed)
}

// Uint32 advances the generator and returns the next mixed 32-bit value.
func (r *RNG) Uint32() uint32 {
	r.state += 0x6d2b79f5
	t := r.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return t ^ (t >> 14)
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Range returns a uniform value in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.Float64() < 0.5
}
