package monitor

import "sync"

// RoundRobin hands a turn token around a fixed set of parties in strict
// cyclic order 0, 1, ..., parties-1, 0, ... . Each party calls Wait with its
// id to block until its turn, does its work, then calls Pass to move the
// token on. Only the turn holder acts, so work done between Wait and Pass is
// already exclusive with respect to the other parties.
//
// The cycle advances only when the holder passes: a party that never shows
// up stalls everyone behind it. Stop breaks such a stall by releasing all
// waiters with ErrStopped.
type RoundRobin struct {
	mu      sync.Mutex
	cond    *sync.Cond
	turn    int
	parties int
	stopped bool
}

// NewRoundRobin creates a coordinator for parties participants with ids
// 0 through parties-1. The turn starts at id 0. Panics if parties < 1.
func NewRoundRobin(parties int) *RoundRobin {
	if parties < 1 {
		panic("monitor: parties must be >= 1")
	}
	r := &RoundRobin{parties: parties}
	r.cond = sync.NewCond(&r.mu)
	return r
}

func (r *RoundRobin) checkID(id int) {
	if id < 0 || id >= r.parties {
		panic("monitor: party id out of range")
	}
}

// Wait blocks until it is id's turn. It returns ErrStopped once the
// coordinator is stopped. Panics if id is outside [0, parties).
func (r *RoundRobin) Wait(id int) error {
	r.checkID(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.turn != id && !r.stopped {
		r.cond.Wait()
	}
	if r.stopped {
		return ErrStopped
	}
	return nil
}

// Pass hands the turn to the next party and wakes all waiters; each
// re-checks and only the new holder proceeds. Only the current holder may
// pass. Panics on an out-of-turn or out-of-range id. On a stopped
// coordinator Pass is a no-op, so a holder overtaken by Stop between Wait
// and Pass still follows the protocol safely.
func (r *RoundRobin) Pass(id int) {
	r.checkID(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.turn != id {
		panic("monitor: pass out of turn")
	}
	r.turn = (r.turn + 1) % r.parties
	r.cond.Broadcast()
}

// Do waits for id's turn, runs fn, and passes the turn on. fn runs outside
// the coordinator lock; holding the turn is what excludes the other parties.
// If the coordinator stops first, Do returns ErrStopped without running fn.
func (r *RoundRobin) Do(id int, fn func()) error {
	if err := r.Wait(id); err != nil {
		return err
	}
	fn()
	r.Pass(id)
	return nil
}

// Turn returns the id whose turn it currently is.
func (r *RoundRobin) Turn() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turn
}

// Parties returns the fixed number of participants.
func (r *RoundRobin) Parties() int {
	return r.parties
}

// Stop releases every current and future waiter with ErrStopped. Idempotent.
func (r *RoundRobin) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	r.cond.Broadcast()
}

// Stopped reports whether Stop has been called.
func (r *RoundRobin) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}
