// Package memstore implements the scheduler's in-memory state store.
// Nothing survives a restart.
package memstore

import (
	"maps"
	"sync"
	"time"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// Ensure Store implements out.StateStore.
var _ out.StateStore = (*Store)(nil)

// Store keeps last-hit times and start metrics behind a single RWMutex.
// Every read returns a copy so callers never share the maps.
type Store struct {
	mu       sync.RWMutex
	lastHits map[string]time.Time
	starts   map[string]domain.StartMetrics
}

// New creates an empty store.
func New() *Store {
	return &Store{
		lastHits: make(map[string]time.Time),
		starts:   make(map[string]domain.StartMetrics),
	}
}

func (s *Store) TouchLastHit(name string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastHits[name] = t
}

func (s *Store) LastHits() map[string]time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.lastHits)
}

func (s *Store) DeleteLastHit(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lastHits, name)
}

// RecordStart adds one cold start that began at startedAt and took d.
func (s *Store) RecordStart(name string, d time.Duration, startedAt time.Time) {
	ms := d.Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	m := s.starts[name]
	m.StartCount++
	m.TotalDurationMs += ms
	m.LastDurationMs = ms
	m.LastStartedAt = startedAt
	s.starts[name] = m
}

func (s *Store) StartMetrics() map[string]domain.StartMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.starts)
}
