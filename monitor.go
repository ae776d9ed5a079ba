// Package monitor provides classic blocking synchronization primitives built
// from a mutex and condition variables: a bounded producer/consumer queue in
// two constructions, a FIFO counting semaphore, a round-robin turn
// coordinator and a cyclic barrier, plus producer/consumer roles that drive
// a queue as a pipeline. All waiting is condition-based; nothing spins.
package monitor

// ring is the fixed-capacity FIFO backing both queue flavors.
// It is not safe for concurrent use; the owning primitive provides the
// locking, the ring only enforces the length invariant 0 <= size <= capacity.
type ring[T any] struct {
	items []T
	head  int // next position to pop
	tail  int // next position to push
	size  int
}

// newRing allocates storage for at most capacity items.
// Panics if capacity < 1.
func newRing[T any](capacity int) ring[T] {
	if capacity < 1 {
		panic("monitor: capacity must be >= 1")
	}
	return ring[T]{items: make([]T, capacity)}
}

// push appends v at the tail. The caller must have reserved a free slot;
// pushing into a full ring is a broken invariant, not an expected condition.
func (r *ring[T]) push(v T) {
	if r.size == len(r.items) {
		panic("monitor: ring overflow")
	}
	r.items[r.tail] = v
	r.tail++
	if r.tail == len(r.items) {
		r.tail = 0
	}
	r.size++
}

// pop removes and returns the front item. The caller must have claimed one.
func (r *ring[T]) pop() T {
	if r.size == 0 {
		panic("monitor: ring underflow")
	}
	v := r.items[r.head]
	var zero T
	r.items[r.head] = zero // vacated slots must not pin values
	r.head++
	if r.head == len(r.items) {
		r.head = 0
	}
	r.size--
	return v
}

func (r *ring[T]) full() bool {
	return r.size == len(r.items)
}

func (r *ring[T]) empty() bool {
	return r.size == 0
}

func (r *ring[T]) cap() int {
	return len(r.items)
}
