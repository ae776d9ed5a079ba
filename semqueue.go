package monitor

import "sync"

// SemaphoreQueue is a bounded FIFO built the other classic way: a mutex
// around the ring plus two counting semaphores, space starting at capacity
// and avail at zero. Put and Take block exactly as BoundedQueue's do, but
// there is no close protocol; it suits run-forever pairings. For sessions
// that end, use BoundedQueue and Close.
type SemaphoreQueue[T any] struct {
	mu    sync.Mutex
	buf   ring[T]
	space *Semaphore // free slots
	avail *Semaphore // queued items
}

// NewSemaphoreQueue creates a queue holding at most capacity items.
// Panics if capacity < 1.
func NewSemaphoreQueue[T any](capacity int) *SemaphoreQueue[T] {
	return &SemaphoreQueue[T]{
		buf:   newRing[T](capacity),
		space: NewSemaphore(capacity),
		avail: NewSemaphore(0),
	}
}

// Put appends item, blocking while the queue is full.
func (q *SemaphoreQueue[T]) Put(item T) {
	q.space.Acquire()
	q.mu.Lock()
	q.buf.push(item)
	q.mu.Unlock()
	q.avail.Release()
}

// Take removes and returns the front item, blocking while the queue is
// empty.
func (q *SemaphoreQueue[T]) Take() T {
	q.avail.Acquire()
	q.mu.Lock()
	v := q.buf.pop()
	q.mu.Unlock()
	q.space.Release()
	return v
}

// Len returns the number of items currently queued.
func (q *SemaphoreQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.size
}

// Cap returns the fixed queue capacity.
func (q *SemaphoreQueue[T]) Cap() int {
	return q.buf.cap()
}
