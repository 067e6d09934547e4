package resilience

import (
	"errors"
	"sync"
)

var ErrInFlight = errors.New("operation already in flight")

// InFlight rejects a second operation for a key while the first is running.
type InFlight struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{pending: make(map[string]struct{})}
}

// Acquire marks key busy and returns the release func. It fails with
// ErrInFlight when key is already held.
func (g *InFlight) Acquire(key string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.pending == nil {
		g.pending = make(map[string]struct{})
	}
	if _, busy := g.pending[key]; busy {
		return nil, ErrInFlight
	}
	g.pending[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.pending, key)
			g.mu.Unlock()
		})
	}, nil
}
