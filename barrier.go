package monitor

import "sync"

// Barrier lines up a fixed number of parties: every caller of Wait blocks
// until all parties have arrived, then all of them are released together.
// The barrier is cyclic; the moment a round trips it is ready for the next.
type Barrier struct {
	mu         sync.Mutex
	cond       *sync.Cond
	parties    int
	arrived    int
	generation int // bumped once per completed round
}

// NewBarrier creates a barrier for parties participants.
// Panics if parties < 1.
func NewBarrier(parties int) *Barrier {
	if parties < 1 {
		panic("monitor: parties must be >= 1")
	}
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all parties have called Wait in the current round. The
// last arrival trips the barrier, releasing everyone and resetting it.
func (b *Barrier) Wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	gen := b.generation
	b.arrived++
	if b.arrived == b.parties {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return
	}
	// waiters from this round leave only when the generation moves on,
	// so a fast re-arrival cannot slip into the previous round
	for gen == b.generation {
		b.cond.Wait()
	}
}

// Parties returns the fixed number of participants.
func (b *Barrier) Parties() int {
	return b.parties
}
