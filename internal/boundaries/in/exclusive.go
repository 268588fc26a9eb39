// Package in defines input ports (interfaces) for use cases.
// These interfaces define the contract between driving adapters (HTTP, CLI)
// and the business logic (use cases).
package in

import (
	"context"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// ExclusivityService makes one route's container the only running tracked
// container.
type ExclusivityService interface {
	// Ensure stops every other tracked container, then starts the route's
	// container and waits for it to become healthy if it was not running.
	Ensure(ctx context.Context, route domain.Route) error

	// Stats reports running tracked containers, last hits and start metrics.
	Stats(ctx context.Context) (*domain.Stats, error)
}
