package monitor

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// Semaphore is a counting semaphore with FIFO-fair handoff. A released
// permit goes straight to the oldest blocked waiter instead of back into the
// pool, so nobody can barge past goroutines that arrived earlier. An initial
// count of zero gives a pure signaling semaphore: Release before Acquire.
//
// The zero value is not usable; construct with NewSemaphore.
type Semaphore struct {
	mu      sync.Mutex
	permits int
	waiters *queue.Queue // of *semWaiter, arrival order
}

type semWaiter struct {
	ready     chan struct{} // closed on grant
	granted   bool
	abandoned bool // timed out; Release skips it
}

// NewSemaphore creates a semaphore holding permits initial permits.
// Panics if permits < 0.
func NewSemaphore(permits int) *Semaphore {
	if permits < 0 {
		panic("monitor: negative permit count")
	}
	return &Semaphore{permits: permits, waiters: queue.New()}
}

// Acquire takes one permit, blocking until one is available. Waiters are
// served in arrival order.
func (s *Semaphore) Acquire() {
	s.mu.Lock()
	if s.waiters.Length() == 0 && s.permits > 0 {
		s.permits--
		s.mu.Unlock()
		return
	}
	w := &semWaiter{ready: make(chan struct{})}
	s.waiters.Add(w)
	s.mu.Unlock()
	<-w.ready
}

// AcquireTimeout is Acquire bounded by d. It returns ErrTimeout if no permit
// arrived in time; the semaphore count is untouched then. A permit handed
// over in the same instant the deadline fires is kept and nil is returned.
func (s *Semaphore) AcquireTimeout(d time.Duration) error {
	s.mu.Lock()
	if s.waiters.Length() == 0 && s.permits > 0 {
		s.permits--
		s.mu.Unlock()
		return nil
	}
	w := &semWaiter{ready: make(chan struct{})}
	s.waiters.Add(w)
	s.mu.Unlock()

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-w.ready:
		return nil
	case <-t.C:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if w.granted {
		// Release beat the deadline to the lock; the permit is ours
		return nil
	}
	w.abandoned = true
	return ErrTimeout
}

// TryAcquire takes a permit only if one is free right now. It refuses while
// anyone is queued, even with permits available, so it cannot overtake the
// waiter line.
func (s *Semaphore) TryAcquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiters.Length() > 0 || s.permits == 0 {
		return false
	}
	s.permits--
	return true
}

// Release returns one permit. If anyone is waiting, the permit is handed to
// the oldest live waiter directly; otherwise the pool count grows. Releasing
// more than was acquired is allowed and raises the count.
func (s *Semaphore) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.waiters.Length() > 0 {
		w := s.waiters.Remove().(*semWaiter)
		if w.abandoned {
			continue
		}
		w.granted = true
		close(w.ready)
		return
	}
	s.permits++
}

// Available returns the number of free permits in the pool. With waiters
// queued this is 0: permits in flight are handed off, not pooled.
func (s *Semaphore) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.permits
}

// Waiting returns the number of goroutines currently blocked in Acquire or
// AcquireTimeout.
func (s *Semaphore) Waiting() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := 0; i < s.waiters.Length(); i++ {
		if !s.waiters.Get(i).(*semWaiter).abandoned {
			n++
		}
	}
	return n
}
