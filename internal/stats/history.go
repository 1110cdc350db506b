package stats

// DefaultHistoryLimit bounds how many samples a History retains.
const DefaultHistoryLimit = 100

// Sample is one charted point. Lattice runs fill Coherence and Active;
// bottle runs fill FracA, FracB and Active.
type Sample struct {
	Step      int     `json:"step"`
	Coherence float64 `json:"coherence,omitempty"`
	FracA     float64 `json:"frac_a,omitempty"`
	FracB     float64 `json:"frac_b,omitempty"`
	Active    int     `json:"active"`
}

// History is a bounded, oldest-first ring of samples.
type History struct {
	limit   int
	samples []Sample
	start   int
}

// NewHistory allocates a History keeping at most limit samples.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add appends s. A sample at step 0 clears the history first, so a reset
// run starts a fresh series.
func (h *History) Add(s Sample) {
	if s.Step == 0 {
		h.Clear()
	}
	if len(h.samples) < h.limit {
		h.samples = append(h.samples, s)
		return
	}
	h.samples[h.start] = s
	h.start = (h.start + 1) % h.limit
}

// AddLattice records a lattice stats snapshot.
func (h *History) AddLattice(l Lattice) {
	h.Add(Sample{Step: l.Steps, Coherence: l.Coherence, Active: l.ActiveSeams})
}

// AddBottle records a bottle stats snapshot.
func (h *History) AddBottle(b Bottle) {
	h.Add(Sample{Step: b.Steps, FracA: b.FracA, FracB: b.FracB, Active: b.FrontierSize()})
}

// Len returns the number of retained samples.
func (h *History) Len() int { return len(h.samples) }

// Samples returns the retained samples oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, 0, len(h.samples))
	out = append(out, h.samples[h.start:]...)
	out = append(out, h.samples[:h.start]...)
	return out
}

// Clear drops every sample.
func (h *History) Clear() {
	h.samples = h.samples[:0]
	h.start = 0
}
