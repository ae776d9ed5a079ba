package monitor

import "fmt"

var (
	// ErrClosed is returned by queue operations once Close has been called:
	// immediately for puts, after the remaining items have drained for takes.
	ErrClosed = fmt.Errorf("queue is closed")

	// ErrTimeout is returned by the bounded-wait variants when their predicate
	// did not become true within the caller's budget. Nothing was enqueued,
	// dequeued or acquired in that case.
	ErrTimeout = fmt.Errorf("timeout")

	// ErrStopped is returned by RoundRobin.Wait once Stop has released the
	// waiters.
	ErrStopped = fmt.Errorf("coordinator is stopped")
)
