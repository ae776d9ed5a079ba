package monitor

import (
	"sync"
	"time"
)

// Classic bounded-buffer monitor: one mutex, a "not full" and a "not empty"
// condition, and every wait wrapped in a predicate loop so that spurious or
// stolen wakeups are harmless.

// BoundedQueue is a blocking bounded FIFO shared by any number of producer
// and consumer goroutines. Put blocks while the queue is full, Take blocks
// while it is empty. Items come out in the order they went in; with several
// producers the interleaving between them is whatever the scheduler made of
// it, but each producer's own items keep their relative order.
//
// The zero value is not usable; construct with NewBoundedQueue.
type BoundedQueue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond // signalled once per freed slot
	notEmpty *sync.Cond // signalled once per enqueued item
	buf      ring[T]
	closed   bool
	stats    QueueStats // guarded by mu
}

// QueueStats is a snapshot of a queue's operation counters.
type QueueStats struct {
	Puts         uint64 // completed puts
	Takes        uint64 // completed takes
	PutWaits     uint64 // puts that blocked at least once
	TakeWaits    uint64 // takes that blocked at least once
	PutTimeouts  uint64 // timed puts that gave up
	TakeTimeouts uint64 // timed takes that gave up
}

// NewBoundedQueue creates a queue holding at most capacity items.
// Panics if capacity < 1.
func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	q := &BoundedQueue[T]{buf: newRing[T](capacity)}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Put appends item, blocking while the queue is full. It returns only once
// the item is enqueued and visible to Take, or ErrClosed if the queue is
// closed before a slot opens up; the item is not enqueued then.
func (q *BoundedQueue[T]) Put(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	waited := false
	for q.buf.full() && !q.closed {
		if !waited {
			waited = true
			q.stats.PutWaits++
		}
		q.notFull.Wait()
	}
	if q.closed {
		return ErrClosed
	}
	q.buf.push(item)
	q.stats.Puts++
	// exactly one notification per enqueued item
	q.notEmpty.Signal()
	return nil
}

// Take removes and returns the front item, blocking while the queue is
// empty. A closed queue still hands out its remaining items; ErrClosed is
// reported only once it is closed and drained.
func (q *BoundedQueue[T]) Take() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	waited := false
	for q.buf.empty() && !q.closed {
		if !waited {
			waited = true
			q.stats.TakeWaits++
		}
		q.notEmpty.Wait()
	}
	if q.buf.empty() {
		// closed and drained
		var zero T
		return zero, ErrClosed
	}
	v := q.buf.pop()
	q.stats.Takes++
	// exactly one notification per freed slot
	q.notFull.Signal()
	return v, nil
}

// TryPut appends item only if a slot is free right now.
// Returns false on a full or closed queue.
func (q *BoundedQueue[T]) TryPut(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed || q.buf.full() {
		return false
	}
	q.buf.push(item)
	q.stats.Puts++
	q.notEmpty.Signal()
	return true
}

// TryTake removes the front item only if one is available right now.
func (q *BoundedQueue[T]) TryTake() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.buf.empty() {
		var zero T
		return zero, false
	}
	v := q.buf.pop()
	q.stats.Takes++
	q.notFull.Signal()
	return v, true
}

// PutTimeout is Put bounded by d. On ErrTimeout the queue is untouched: the
// item was not enqueued and no availability notification was sent.
func (q *BoundedQueue[T]) PutTimeout(item T, d time.Duration) error {
	deadline := time.Now().Add(d)
	q.mu.Lock()
	defer q.mu.Unlock()

	waited := false
	for q.buf.full() && !q.closed {
		if !waited {
			waited = true
			q.stats.PutWaits++
		}
		if !q.waitDeadline(q.notFull, deadline) {
			q.stats.PutTimeouts++
			return ErrTimeout
		}
	}
	if q.closed {
		return ErrClosed
	}
	q.buf.push(item)
	q.stats.Puts++
	q.notEmpty.Signal()
	return nil
}

// TakeTimeout is Take bounded by d. On ErrTimeout no item was dequeued.
func (q *BoundedQueue[T]) TakeTimeout(d time.Duration) (T, error) {
	var zero T
	deadline := time.Now().Add(d)
	q.mu.Lock()
	defer q.mu.Unlock()

	waited := false
	for q.buf.empty() && !q.closed {
		if !waited {
			waited = true
			q.stats.TakeWaits++
		}
		if !q.waitDeadline(q.notEmpty, deadline) {
			q.stats.TakeTimeouts++
			return zero, ErrTimeout
		}
	}
	if q.buf.empty() {
		return zero, ErrClosed
	}
	v := q.buf.pop()
	q.stats.Takes++
	q.notFull.Signal()
	return v, nil
}

// waitDeadline parks the caller on c until a wakeup or until the deadline
// passes, whichever happens first. It reports false once the deadline has
// expired without further waiting. Must be called with q.mu held; as with
// any condition wait the caller re-checks its predicate afterwards, since a
// true return promises nothing about the state.
func (q *BoundedQueue[T]) waitDeadline(c *sync.Cond, deadline time.Time) bool {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return false
	}
	// The timer re-takes the monitor lock before broadcasting so its wakeup
	// cannot fire between the predicate check and the park.
	t := time.AfterFunc(remaining, func() {
		q.mu.Lock()
		c.Broadcast()
		q.mu.Unlock()
	})
	c.Wait()
	t.Stop()
	return true
}

// Close marks the queue closed and wakes every waiter. Idempotent.
// Blocked and future puts fail with ErrClosed; takes drain what is left
// first.
func (q *BoundedQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}

// Closed reports whether Close has been called.
func (q *BoundedQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of items currently queued, between 0 and Cap.
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.size
}

// Cap returns the fixed queue capacity.
func (q *BoundedQueue[T]) Cap() int {
	return q.buf.cap()
}

// Stats returns a snapshot of the operation counters.
func (q *BoundedQueue[T]) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}
