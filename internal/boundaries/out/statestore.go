package out

import (
	"time"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// StateStore holds the per-container bookkeeping shared by the request
// path, the exclusivity controller and the idle reaper. Implementations
// must be safe for concurrent use.
type StateStore interface {
	// TouchLastHit records that a request for the container was served at t.
	TouchLastHit(name string, t time.Time)

	// LastHits returns a snapshot copy of the last-hit map.
	LastHits() map[string]time.Time

	// DeleteLastHit forgets the container's last hit.
	DeleteLastHit(name string)

	// RecordStart accounts one completed cold start that began at startedAt
	// and took d to become healthy.
	RecordStart(name string, d time.Duration, startedAt time.Time)

	// StartMetrics returns a snapshot copy of the start metrics.
	StartMetrics() map[string]domain.StartMetrics
}
