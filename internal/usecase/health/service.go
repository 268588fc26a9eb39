// Package health implements the readiness wait used during cold starts.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/in"
	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
	"github.com/johnmschoonover/multi-llm-hosting/internal/logging"
)

// Defaults for Config fields left zero.
const (
	DefaultInterval = time.Second
	DefaultTimeout  = 120 * time.Second
)

// Ensure Service implements in.HealthService.
var _ in.HealthService = (*Service)(nil)

// Config controls the readiness loop.
type Config struct {
	Interval    time.Duration
	Timeout     time.Duration
	APIKey      string
	BackendHost string
}

// Service implements the HealthService interface.
type Service struct {
	prober out.HTTPProber
	cfg    Config
	log    zerowrap.Logger
}

// NewService creates a new health service.
func NewService(prober out.HTTPProber, cfg Config, log zerowrap.Logger) *Service {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Service{
		prober: prober,
		cfg:    cfg,
		log:    log,
	}
}

// WaitHealthy probes the route's health path at a fixed interval until it
// answers 2xx. Connection errors and non-2xx statuses are both retried.
// Running out of time returns domain.ErrBackendUnhealthy.
func (s *Service) WaitHealthy(ctx context.Context, route domain.Route) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "WaitHealthy",
		logging.FieldRoute:     route.Key,
		logging.FieldContainer: route.ContainerName,
	})
	log := zerowrap.FromCtx(ctx)

	url := route.BaseURL(s.cfg.BackendHost) + route.EffectiveHealthPath()
	header := http.Header{}
	if route.InjectsAuth() && s.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	var (
		attempts   int
		lastStatus int
		lastErr    error
	)
	for {
		attempts++
		status, elapsed, err := s.prober.Probe(waitCtx, url, header)
		if err == nil && status >= 200 && status < 300 {
			log.Info().Int("attempts", attempts).Int64("probe_ms", elapsed).Msg("backend healthy")
			return nil
		}
		lastStatus, lastErr = status, err
		log.Debug().Err(err).Int(zerowrap.FieldStatus, status).Int("attempt", attempts).Msg("backend not ready")

		select {
		case <-waitCtx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return ctx.Err()
			}
			log.Warn().Int("attempts", attempts).Dur("timeout", s.cfg.Timeout).Msg("backend did not become healthy")
			return fmt.Errorf("%w: %s after %s (last status %d, last error: %v)",
				domain.ErrBackendUnhealthy, route.ContainerName, s.cfg.Timeout, lastStatus, lastErr)
		case <-ticker.C:
		}
	}
}
