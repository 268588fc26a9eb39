package in

import (
	"context"

	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
)

// HealthService defines the contract for backend readiness checks.
type HealthService interface {
	// WaitHealthy polls the route's health endpoint until it answers 2xx
	// or the configured deadline passes.
	WaitHealthy(ctx context.Context, route domain.Route) error
}
