package lattice

// seamQueue is a FIFO of flat indices with O(1) membership checks. An index
// is present at most once.
type seamQueue struct {
	items   []int
	gens    []int
	head    int
	present []bool
}

func newSeamQueue(total int) *seamQueue {
	return &seamQueue{present: make([]bool, total)}
}

func (q *seamQueue) Len() int { return len(q.items) - q.head }

func (q *seamQueue) Contains(idx int) bool { return q.present[idx] }

// Push appends idx unless it is already queued and reports whether it was
// added.
func (q *seamQueue) Push(idx, gen int) bool {
	if q.present[idx] {
		return false
	}
	q.present[idx] = true
	q.items = append(q.items, idx)
	q.gens = append(q.gens, gen)
	return true
}

// Pop removes the head. It must not be called on an empty queue.
func (q *seamQueue) Pop() (int, int) {
	idx, gen := q.items[q.head], q.gens[q.head]
	q.head++
	q.present[idx] = false
	if q.head > 64 && q.head*2 > len(q.items) {
		n := copy(q.items, q.items[q.head:])
		copy(q.gens, q.gens[q.head:])
		q.items = q.items[:n]
		q.gens = q.gens[:n]
		q.head = 0
	}
	return idx, gen
}

// Items returns the queued indices in FIFO order.
func (q *seamQueue) Items() []int {
	out := make([]int, q.Len())
	copy(out, q.items[q.head:])
	return out
}

func (q *seamQueue) Clear() {
	for _, idx := range q.items[q.head:] {
		q.present[idx] = false
	}
	q.items = q.items[:0]
	q.gens = q.gens[:0]
	q.head = 0
}
