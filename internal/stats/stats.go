// Package stats derives the per-step figures the engines publish and keeps a
// bounded history of them for charts.
package stats

import "math"

// Lattice summarizes a cascade run after a step.
type Lattice struct {
	Steps     int     `json:"steps"`
	Coherence float64 `json:"coherence"`
	// ActiveSeams is the propagation queue length.
	ActiveSeams int `json:"active_seams"`
	// Velocity is flips per step averaged over the recent window.
	Velocity float64 `json:"velocity"`
	// WaveFrontWidth counts queued cells, i.e. the live seam.
	WaveFrontWidth int `json:"wave_front_width"`
	// PredictedAnnihilation estimates how many more steps a full cascade
	// needs; -1 when no estimate is available.
	PredictedAnnihilation int  `json:"predicted_annihilation"`
	Running               bool `json:"running"`
	Annihilated           bool `json:"annihilated"`
}

// Resolved reports whether the lattice is uniformly one state.
func (l Lattice) Resolved() bool {
	return l.Coherence == 1 || l.Coherence == -1
}

// Bottle summarizes a two-front run after a tick.
type Bottle struct {
	Steps       int     `json:"steps"`
	FracA       float64 `json:"frac_a"`
	FracB       float64 `json:"frac_b"`
	FrontierA   int     `json:"frontier_a"`
	FrontierB   int     `json:"frontier_b"`
	Global      string  `json:"global"`
	SwitchFrame int     `json:"switch_frame"`
	Complete    bool    `json:"complete"`
}

// FrontierSize is the combined length of both frontiers.
func (b Bottle) FrontierSize() int { return b.FrontierA + b.FrontierB }

// DefaultVelocityWindow is the number of steps Velocity averages over.
const DefaultVelocityWindow = 10

// Velocity tracks a moving average of per-step event counts.
type Velocity struct {
	window []int
	next   int
	filled int
	sum    int
}

// NewVelocity returns a tracker averaging over size samples.
func NewVelocity(size int) *Velocity {
	if size <= 0 {
		size = DefaultVelocityWindow
	}
	return &Velocity{window: make([]int, size)}
}

// Add records the count for one step.
func (v *Velocity) Add(count int) {
	if v.filled == len(v.window) {
		v.sum -= v.window[v.next]
	} else {
		v.filled++
	}
	v.window[v.next] = count
	v.sum += count
	v.next = (v.next + 1) % len(v.window)
}

// Rate returns the current average, zero when empty.
func (v *Velocity) Rate() float64 {
	if v.filled == 0 {
		return 0
	}
	return float64(v.sum) / float64(v.filled)
}

// Reset clears the window.
func (v *Velocity) Reset() {
	for i := range v.window {
		v.window[i] = 0
	}
	v.next, v.filled, v.sum = 0, 0, 0
}

// Predict estimates remaining steps to clear remaining cells at rate. It
// returns -1 when the rate is zero.
func Predict(remaining int, rate float64) int {
	if remaining <= 0 {
		return 0
	}
	if rate <= 0 {
		return -1
	}
	return int(math.Ceil(float64(remaining) / rate))
}
