package lattice

import (
	"seam-lattice/internal/core"
	"seam-lattice/internal/stats"
	random "seam-lattice/pkg/core"
)

// Lattice is a toroidal N×N grid of ±1 cells through which a flip propagates
// from an ignition point until its queue drains.
type Lattice struct {
	cfg  Config
	n    int
	grid *core.Grid[CellState]

	queue *seamQueue
	rng   *random.RNG

	steps       int
	running     bool
	finished    bool
	annihilated bool
	coherence   float64
	// ignition is the value the origin held when the run started; cells
	// still holding it are the ones a full cascade has yet to reach.
	ignition  CellState
	remaining int

	meta     *Metadata
	velocity *stats.Velocity
	display  []uint8
}

// New creates a lattice with an all-positive grid and no active run.
func New(cfg Config) *Lattice {
	cfg = cfg.Normalized()
	total := cfg.Size * cfg.Size
	l := &Lattice{
		cfg:      cfg,
		n:        cfg.Size,
		grid:     core.NewGrid[CellState](cfg.Size, cfg.Size),
		queue:    newSeamQueue(total),
		rng:      random.NewRNG(cfg.Seed),
		velocity: stats.NewVelocity(stats.DefaultVelocityWindow),
		display:  make([]uint8, total),
	}
	if cfg.Metadata {
		l.meta = NewMetadata(total)
	}
	l.grid.Fill(Positive)
	l.clearRun()
	return l
}

// NewWithSeed is New with cfg.Seed replaced by seed.
func NewWithSeed(cfg Config, seed int64) *Lattice {
	cfg.Seed = seed
	return New(cfg)
}

// Name returns the simulation identifier.
func (l *Lattice) Name() string { return "lattice" }

// Size returns the grid dimensions.
func (l *Lattice) Size() core.Size { return core.Size{W: l.n, H: l.n} }

// Config returns the normalized configuration in use.
func (l *Lattice) Config() Config { return l.cfg }

// N returns the lattice dimension.
func (l *Lattice) N() int { return l.n }

// States exposes the live grid, row-major.
func (l *Lattice) States() []CellState { return l.grid.Cells() }

// At returns the state of c.
func (l *Lattice) At(c Coord) CellState { return l.grid.At(c.Col, c.Row) }

// Metadata returns the instrumentation table, nil when disabled.
func (l *Lattice) Metadata() *Metadata { return l.meta }

// Queue returns the pending coordinates in FIFO order.
func (l *Lattice) Queue() []Coord {
	items := l.queue.Items()
	out := make([]Coord, len(items))
	for i, idx := range items {
		out[i] = l.coord(idx)
	}
	return out
}

// SeamIndices returns the flat indices of the pending cells in FIFO order.
func (l *Lattice) SeamIndices() []int { return l.queue.Items() }

// Queued reports whether c is waiting to flip.
func (l *Lattice) Queued(c Coord) bool {
	return l.queue.Contains(l.index(c))
}

// Running reports whether a cascade is in progress.
func (l *Lattice) Running() bool { return l.running }

// Finished reports whether the last run drained its queue.
func (l *Lattice) Finished() bool { return l.finished }

// Annihilated reports whether the finished run left the grid uniform.
func (l *Lattice) Annihilated() bool { return l.annihilated }

// Steps returns the number of flips performed in this run.
func (l *Lattice) Steps() int { return l.steps }

// Coherence returns the mean cell value after the last step.
func (l *Lattice) Coherence() float64 { return l.coherence }

// Reset reseeds the RNG, restores a uniform positive grid and ignites the
// center. A zero seed keeps the configured one.
func (l *Lattice) Reset(seed int64) {
	if seed == 0 {
		seed = l.cfg.Seed
	}
	l.rng.Seed(seed)
	l.grid.Fill(Positive)
	l.clearRun()
	if l.n%2 == 1 {
		l.start(l.center())
	}
}

// Randomize assigns every cell a random state and clears the run.
func (l *Lattice) Randomize() {
	cells := l.grid.Cells()
	for i := range cells {
		if l.rng.Bool() {
			cells[i] = Positive
		} else {
			cells[i] = Negative
		}
	}
	l.clearRun()
}

// Ignite clears any run in progress and queues origin at generation 0. The
// grid is kept as is, so Randomize followed by Ignite cascades through the
// randomized lattice.
func (l *Lattice) Ignite(origin Coord) error {
	if origin.Row < 0 || origin.Row >= l.n || origin.Col < 0 || origin.Col >= l.n {
		return core.Preconditionf("lattice.ignite", "origin (%d,%d) outside %dx%d grid", origin.Row, origin.Col, l.n, l.n)
	}
	l.clearRun()
	l.start(origin)
	return nil
}

// IgniteCenter ignites the unique center cell, which requires an odd size.
func (l *Lattice) IgniteCenter() error {
	if l.n%2 == 0 {
		return core.Preconditionf("lattice.ignite", "grid size %d has no unique center", l.n)
	}
	return l.Ignite(l.center())
}

// Step flips the head of the queue and queues the neighbors that pass the
// propagation draw. It returns false once the queue is empty, at which point
// the run is finished and Annihilated reflects whether the grid is uniform.
func (l *Lattice) Step() bool {
	if l.queue.Len() == 0 {
		if l.running || !l.finished {
			l.finish()
		}
		return false
	}

	idx, gen := l.queue.Pop()
	cells := l.grid.Cells()
	old := cells[idx]
	cells[idx] = -old
	l.steps++
	if old == l.ignition {
		l.remaining--
	} else {
		l.remaining++
	}
	if l.meta != nil {
		l.meta.flipped(idx, l.steps)
	}

	kEff := l.cfg.EffectiveThreshold()
	for _, nb := range Neighbors(l.coord(idx), l.n) {
		nIdx := l.index(nb)
		if cells[nIdx] != old {
			continue
		}
		// The draw is taken even when kEff <= 0 so the stream does not
		// depend on the threshold.
		draw := l.rng.Float64()
		if (kEff <= 0 || draw > kEff) && l.queue.Push(nIdx, gen+1) {
			if l.meta != nil {
				l.meta.queued(nIdx, gen+1)
			}
		}
	}

	l.velocity.Add(1)
	l.coherence = Coherence(cells)
	l.rebuildDisplay()
	return true
}

// Stats returns the derived figures for the current state.
func (l *Lattice) Stats() stats.Lattice {
	predicted := -1
	if l.running {
		predicted = stats.Predict(l.remaining, l.velocity.Rate())
	}
	return stats.Lattice{
		Steps:                 l.steps,
		Coherence:             l.coherence,
		ActiveSeams:           l.queue.Len(),
		Velocity:              l.velocity.Rate(),
		WaveFrontWidth:        l.queue.Len(),
		PredictedAnnihilation: predicted,
		Running:               l.running,
		Annihilated:           l.annihilated,
	}
}

// Snapshot is an immutable copy of the lattice after a step.
type Snapshot struct {
	N     int
	Cells []CellState
	Queue []Coord
	Stats stats.Lattice
}

// Snapshot copies the current state.
func (l *Lattice) Snapshot() Snapshot {
	cells := make([]CellState, l.grid.Len())
	copy(cells, l.grid.Cells())
	return Snapshot{N: l.n, Cells: cells, Queue: l.Queue(), Stats: l.Stats()}
}

func (l *Lattice) start(origin Coord) {
	idx := l.index(origin)
	l.ignition = l.grid.Cells()[idx]
	l.remaining = l.countState(l.ignition)
	l.queue.Push(idx, 0)
	if l.meta != nil {
		l.meta.queued(idx, 0)
	}
	l.running = true
	l.rebuildDisplay()
}

func (l *Lattice) finish() {
	l.running = false
	l.finished = true
	l.annihilated = IsUniform(l.grid.Cells())
}

func (l *Lattice) clearRun() {
	l.queue.Clear()
	l.steps = 0
	l.running = false
	l.finished = false
	l.annihilated = false
	l.remaining = 0
	l.velocity.Reset()
	if l.meta != nil {
		l.meta.Clear()
	}
	l.coherence = Coherence(l.grid.Cells())
	l.rebuildDisplay()
}

func (l *Lattice) countState(s CellState) int {
	n := 0
	for _, c := range l.grid.Cells() {
		if c == s {
			n++
		}
	}
	return n
}

func (l *Lattice) center() Coord {
	return Coord{Row: l.n / 2, Col: l.n / 2}
}

func (l *Lattice) index(c Coord) int { return l.grid.Index(c.Col, c.Row) }

func (l *Lattice) coord(idx int) Coord {
	col, row := l.grid.XY(idx)
	return Coord{Row: row, Col: col}
}

func init() {
	core.Register("lattice", func(cfg map[string]string) (core.Sim, error) {
		c := FromMap(cfg)
		l := New(c)
		if err := l.IgniteCenter(); err != nil {
			return nil, err
		}
		return l, nil
	})
}
