package resilience

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestInFlight_RejectsConcurrentHolder(t *testing.T) {
	g := NewInFlight()

	release, err := g.Acquire("fixture:fx-1")
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	if _, err := g.Acquire("fixture:fx-1"); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	if _, err := g.Acquire("fixture:fx-2"); err != nil {
		t.Fatalf("expected other key to be free: %v", err)
	}

	release()
	release()
	if _, err := g.Acquire("fixture:fx-1"); err != nil {
		t.Fatalf("expected acquire after release to pass: %v", err)
	}
}

func TestInFlight_ConcurrentAcquireReleases(t *testing.T) {
	var g InFlight
	var winners atomic.Int32

	const workers = 16
	start := make(chan struct{})
	hold := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			release, err := g.Acquire("same-key")
			if err != nil {
				return
			}
			winners.Add(1)
			<-hold
			release()
		}()
	}

	close(start)
	close(hold)
	wg.Wait()

	if got := winners.Load(); got < 1 {
		t.Fatalf("expected at least one winner, got %d", got)
	}
	release, err := g.Acquire("same-key")
	if err != nil {
		t.Fatalf("expected key to be released after all workers finished: %v", err)
	}
	release()
}
