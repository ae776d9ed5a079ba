package monitor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// The first parties-1 arrivals park; the last one trips the barrier and
// everyone leaves together.
func TestBarrierReleasesTogether(t *testing.T) {
	const parties = 4

	b := NewBarrier(parties)
	if b.Parties() != parties {
		t.Fatalf("expected %d parties, got %d", parties, b.Parties())
	}

	done := make(chan int, parties-1)
	for id := 0; id < parties-1; id++ {
		go func(id int) {
			b.Wait()
			done <- id
		}(id)
	}

	time.Sleep(50 * time.Millisecond)
	select {
	case id := <-done:
		t.Fatalf("party %d passed the barrier before all arrived", id)
	default:
	}

	b.Wait() // the last arrival trips it

	for i := 0; i < parties-1; i++ {
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("party %d not released after the barrier tripped", i)
		}
	}
}

// The barrier is cyclic: every round collects all arrivals before it
// releases anybody, and the next round starts clean.
func TestBarrierCyclic(t *testing.T) {
	const (
		parties = 3
		rounds  = 20
	)

	b := NewBarrier(parties)
	arrived := make([]int32, rounds)

	var wg sync.WaitGroup
	wg.Add(parties)
	for id := 0; id < parties; id++ {
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				atomic.AddInt32(&arrived[r], 1)
				b.Wait()
				if n := atomic.LoadInt32(&arrived[r]); n != parties {
					t.Errorf("round %d released with %d of %d arrivals", r, n, parties)
					return
				}
			}
		}()
	}
	wg.Wait()
}

// A single-party barrier trips on every arrival and never parks.
func TestBarrierSingleParty(t *testing.T) {
	b := NewBarrier(1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			b.Wait()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("single-party barrier blocked")
	}
}

// Construction rejects party counts below one.
func TestBarrierInvalidParties(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for zero parties, got none")
		}
	}()
	NewBarrier(0)
}
