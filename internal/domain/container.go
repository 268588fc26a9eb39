// Package domain contains pure business types without external dependencies.
// These types are used throughout the application and have no tags or framework dependencies.
package domain

import "time"

// StartMetrics accumulates cold-start timings for one container.
// Rows only grow; they are never reset while the process lives.
type StartMetrics struct {
	StartCount      int64
	TotalDurationMs int64
	LastDurationMs  int64
	// LastStartedAt is when the most recent cold start began.
	LastStartedAt   time.Time
}

// AverageDurationMs returns the mean cold-start duration, or 0 before the first start.
func (m StartMetrics) AverageDurationMs() int64 {
	if m.StartCount == 0 {
		return 0
	}
	return m.TotalDurationMs / m.StartCount
}

// Stats is a point-in-time view of the scheduler state.
type Stats struct {
	Running      []string
	LastHits     map[string]time.Time
	StartMetrics map[string]StartMetrics
}
