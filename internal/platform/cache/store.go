package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. Concurrent loads of the same key share
// one loader call. Every Delete bumps the key's generation, and a load that
// overlapped a Delete returns its value without caching it.
type Store struct {
	mu          sync.RWMutex
	entries     map[string]entry
	generations map[string]uint64
	ttl         time.Duration
	flight      singleflight.Group
	now         func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		ttl:         ttl,
		now:         time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		if current, ok := s.entries[key]; ok && current.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = s.newEntry(value)
	s.mu.Unlock()
}

// Delete drops keys and detaches any load in progress for them, so callers
// arriving after Delete start a fresh load.
func (s *Store) Delete(_ context.Context, keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
		s.generations[key]++
	}
	s.mu.Unlock()

	for _, key := range keys {
		s.flight.Forget(key)
	}
}

func (s *Store) generation(key string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generations[key]
}

// setIfGeneration caches value only when key was not deleted since gen was read.
func (s *Store) setIfGeneration(key string, gen uint64, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[key] != gen {
		return false
	}
	s.entries[key] = s.newEntry(value)
	return true
}

func (s *Store) newEntry(value any) entry {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		gen := s.generation(key)
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.setIfGeneration(key, gen, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
