package monitor

import (
	"strings"
	"sync"
	"testing"
	"time"
)

// Strict cycling: the turn visits 0,1,2,0,1,2,... with no skips and no
// doubles. The appends below run while holding the turn and turn transfer
// goes through the coordinator lock, so the shared slice needs no lock of
// its own.
func TestRoundRobinCycle(t *testing.T) {
	const (
		parties = 3
		rounds  = 50
	)

	r := NewRoundRobin(parties)
	if r.Turn() != 0 {
		t.Fatalf("expected the turn to start at 0, got %d", r.Turn())
	}
	if r.Parties() != parties {
		t.Fatalf("expected %d parties, got %d", parties, r.Parties())
	}

	turns := make([]int, 0, parties*rounds)

	var wg sync.WaitGroup
	wg.Add(parties)
	for id := 0; id < parties; id++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				if err := r.Wait(id); err != nil {
					t.Errorf("wait failed for party %d: %v", id, err)
					return
				}
				turns = append(turns, id)
				r.Pass(id)
			}
		}(id)
	}
	wg.Wait()

	if len(turns) != parties*rounds {
		t.Fatalf("expected %d turns, got %d", parties*rounds, len(turns))
	}
	for i, id := range turns {
		if id != i%parties {
			t.Fatalf("turn %d went to party %d (expected %d)", i, id, i%parties)
		}
	}
	if r.Turn() != 0 {
		t.Fatalf("expected the turn back at 0 after %d full cycles, got %d", rounds, r.Turn())
	}
}

// Wait parks a party whose turn it is not, and Pass releases it.
func TestRoundRobinWaitBlocks(t *testing.T) {
	r := NewRoundRobin(2)

	done := make(chan struct{})
	go func() {
		if err := r.Wait(1); err != nil {
			t.Errorf("wait failed for party 1: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	select {
	case <-done:
		t.Fatalf("party 1 proceeded out of turn")
	default:
	}

	if err := r.Wait(0); err != nil {
		t.Fatalf("wait failed for party 0: %v", err)
	}
	r.Pass(0)

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("party 1 not released after the turn advanced")
	}
	if r.Turn() != 1 {
		t.Fatalf("expected turn 1, got %d", r.Turn())
	}
}

// Do brackets fn between Wait and Pass; two parties build a strictly
// alternating log.
func TestRoundRobinDo(t *testing.T) {
	const (
		parties = 2
		rounds  = 10
	)

	r := NewRoundRobin(parties)
	var log []byte

	var wg sync.WaitGroup
	wg.Add(parties)
	for id := 0; id < parties; id++ {
		go func(id int) {
			defer wg.Done()
			ch := byte('a' + id)
			for i := 0; i < rounds; i++ {
				if err := r.Do(id, func() {
					log = append(log, ch)
				}); err != nil {
					t.Errorf("do failed for party %d: %v", id, err)
					return
				}
			}
		}(id)
	}
	wg.Wait()

	want := strings.Repeat("ab", rounds)
	if string(log) != want {
		t.Fatalf("expected %q, got %q", want, log)
	}

	r.Stop()
	ran := false
	if err := r.Do(0, func() { ran = true }); err != ErrStopped {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
	if ran {
		t.Fatalf("fn ran on a stopped coordinator")
	}
}

// Stop releases every parked waiter with ErrStopped and fails later waits.
func TestRoundRobinStop(t *testing.T) {
	const parties = 3

	r := NewRoundRobin(parties)

	errs := make(chan error, parties-1)
	for id := 1; id < parties; id++ {
		go func(id int) {
			errs <- r.Wait(id)
		}(id)
	}

	time.Sleep(50 * time.Millisecond)
	r.Stop()

	for i := 0; i < parties-1; i++ {
		select {
		case err := <-errs:
			if err != ErrStopped {
				t.Fatalf("expected ErrStopped from a parked wait, got %v", err)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("parked wait %d not released by Stop", i)
		}
	}

	if !r.Stopped() {
		t.Fatalf("expected Stopped after Stop")
	}
	r.Stop() // idempotent
	if err := r.Wait(0); err != ErrStopped {
		t.Fatalf("expected ErrStopped from a fresh wait, got %v", err)
	}
	r.Pass(1) // no-op on a stopped coordinator, must not panic
}

// Passing out of turn is a protocol violation and panics.
func TestRoundRobinPassOutOfTurn(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an out-of-turn pass, got none")
		}
	}()
	r := NewRoundRobin(2)
	r.Pass(1)
}

// Party ids outside [0, parties) are rejected.
func TestRoundRobinIDRange(t *testing.T) {
	r := NewRoundRobin(2)

	mustPanic := func(name string, fn func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic, got none", name)
			}
		}()
		fn()
	}

	mustPanic("negative id", func() { r.Wait(-1) })
	mustPanic("id past the last party", func() { r.Wait(2) })
	mustPanic("pass with bad id", func() { r.Pass(5) })
}

// Construction rejects party counts below one.
func TestRoundRobinInvalidParties(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for zero parties, got none")
		}
	}()
	NewRoundRobin(0)
}
