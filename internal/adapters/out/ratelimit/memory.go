// Package ratelimit provides the in-memory per-client rate limiter used by
// the admin endpoints.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/zerowrap"
	"golang.org/x/time/rate"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
)

// Ensure MemoryStore implements out.RateLimiter.
var _ out.RateLimiter = (*MemoryStore)(nil)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryStore keeps one token bucket per key. Buckets idle for longer than
// the configured TTL are dropped by Prune.
type MemoryStore struct {
	limiters map[string]*entry
	mu       sync.Mutex
	rps      float64
	burst    int
	log      zerowrap.Logger
	now      func() time.Time
}

// NewMemoryStore creates a new in-memory rate limiter store.
func NewMemoryStore(rps float64, burst int, log zerowrap.Logger) *MemoryStore {
	return &MemoryStore{
		limiters: make(map[string]*entry),
		rps:      rps,
		burst:    burst,
		log:      log,
		now:      time.Now,
	}
}

// Allow checks if a request identified by key is allowed.
func (s *MemoryStore) Allow(ctx context.Context, key string) bool {
	return s.AllowN(ctx, key, 1)
}

// AllowN checks if n requests identified by key are allowed.
func (s *MemoryStore) AllowN(_ context.Context, key string, n int) bool {
	now := s.now()
	allowed := s.getLimiter(key, now).AllowN(now, n)
	if !allowed {
		s.log.Debug().Str("key", key).Msg("rate limited")
	}
	return allowed
}

// Prune drops buckets not used since ttl ago and returns how many were removed.
func (s *MemoryStore) Prune(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, e := range s.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(s.limiters, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

func (s *MemoryStore) getLimiter(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.limiters[key]
	if !exists {
		e = &entry{limiter: rate.NewLimiter(rate.Limit(s.rps), s.burst)}
		s.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}
