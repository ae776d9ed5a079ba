package monitor

import (
	"sync"
	"time"

	"github.com/valyala/fastrand"
)

// Producer feeds a queue with a generated item sequence. All fields except
// Delay and Jitter must be set before Run.
type Producer[T any] struct {
	Queue *BoundedQueue[T]

	// Next returns the i-th item of the sequence, i counting from 0.
	Next func(i int) T

	// Count is the number of items to produce.
	Count int

	// Delay and Jitter pace production: between consecutive puts the
	// producer sleeps Delay plus a random duration below Jitter, always
	// outside the queue lock. Zero values mean no pause.
	Delay  time.Duration
	Jitter time.Duration
}

// Run produces Count items in sequence order. It returns nil once the
// sequence is exhausted, or ErrClosed if the queue closes before then.
func (p *Producer[T]) Run() error {
	for i := 0; i < p.Count; i++ {
		if i > 0 {
			pause(p.Delay, p.Jitter)
		}
		if err := p.Queue.Put(p.Next(i)); err != nil {
			return err
		}
	}
	return nil
}

// Consumer drains a queue item by item until the queue is closed and empty.
type Consumer[T any] struct {
	Queue *BoundedQueue[T]

	// Handle is called once per item taken, outside the queue lock.
	// A nil Handle discards items.
	Handle func(T)

	// Delay and Jitter pace consumption the way they pace Producer.
	Delay  time.Duration
	Jitter time.Duration
}

// Run takes items until the queue reports ErrClosed, which is the clean end
// of the stream and yields nil.
func (c *Consumer[T]) Run() error {
	for {
		v, err := c.Queue.Take()
		if err == ErrClosed {
			return nil
		}
		if err != nil {
			return err
		}
		if c.Handle != nil {
			c.Handle(v)
		}
		pause(c.Delay, c.Jitter)
	}
}

// pause sleeps d plus a random duration below jitter. Zero sleeps not at
// all.
func pause(d, jitter time.Duration) {
	if jitter > 0 {
		d += time.Duration(fastrand.Uint32n(uint32(jitter)))
	}
	if d > 0 {
		time.Sleep(d)
	}
}

// RunPipeline runs producers and consumers over q to completion: every role
// gets its own goroutine, the queue is closed once all producers finish,
// and the call returns when the consumers have drained what is left. The
// first role error is returned, nil otherwise.
func RunPipeline[T any](q *BoundedQueue[T], producers []*Producer[T], consumers []*Consumer[T]) error {
	var (
		errMu sync.Mutex
		first error
	)
	fail := func(err error) {
		errMu.Lock()
		if first == nil {
			first = err
		}
		errMu.Unlock()
	}

	var pwg, cwg sync.WaitGroup
	for _, p := range producers {
		pwg.Add(1)
		go func() {
			defer pwg.Done()
			if err := p.Run(); err != nil {
				fail(err)
			}
		}()
	}
	for _, c := range consumers {
		cwg.Add(1)
		go func() {
			defer cwg.Done()
			if err := c.Run(); err != nil {
				fail(err)
			}
		}()
	}

	// producers end the session; consumers drain the remainder
	pwg.Wait()
	q.Close()
	cwg.Wait()

	errMu.Lock()
	defer errMu.Unlock()
	return first
}
