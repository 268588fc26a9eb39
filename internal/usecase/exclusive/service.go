// Package exclusive implements the single-slot controller that decides
// which backend container may run.
package exclusive

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/in"
	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
	"github.com/johnmschoonover/multi-llm-hosting/internal/domain"
	"github.com/johnmschoonover/multi-llm-hosting/internal/logging"
	"github.com/johnmschoonover/multi-llm-hosting/pkg/fifolock"
)

// Ensure Service implements in.ExclusivityService.
var _ in.ExclusivityService = (*Service)(nil)

// Service serializes every stop/start decision through one FIFO lock so at
// most one tracked container runs once a call returns.
type Service struct {
	runtime out.ContainerRuntime
	health  in.HealthService
	store   out.StateStore
	metrics out.Metrics
	tracked map[string]struct{}
	lock    *fifolock.Lock
	log     zerowrap.Logger
	now     func() time.Time
}

// NewService creates the controller. tracked lists every container name the
// controller may stop; anything else running on the host is left alone.
func NewService(
	runtime out.ContainerRuntime,
	health in.HealthService,
	store out.StateStore,
	metrics out.Metrics,
	tracked []string,
	log zerowrap.Logger,
) *Service {
	set := make(map[string]struct{}, len(tracked))
	for _, name := range tracked {
		set[name] = struct{}{}
	}
	return &Service{
		runtime: runtime,
		health:  health,
		store:   store,
		metrics: metrics,
		tracked: set,
		lock:    fifolock.New(),
		log:     log,
		now:     time.Now,
	}
}

// Ensure makes route's container the only running tracked container.
//
// Waiting for the lock honors ctx. Once granted, the critical section runs
// to completion even if the caller goes away, so a cold start is never left
// half done.
func (s *Service) Ensure(ctx context.Context, route domain.Route) error {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "Ensure",
		logging.FieldRoute:     route.Key,
		logging.FieldContainer: route.ContainerName,
	})
	log := zerowrap.FromCtx(ctx)

	if s.lock.Held() {
		log.Debug().Int("queued", s.lock.Waiting()+1).Msg("waiting for exclusive slot")
	}

	if err := s.lock.Acquire(ctx); err != nil {
		log.Debug().Err(err).Msg("gave up waiting for exclusive slot")
		return fmt.Errorf("%w: %w", domain.ErrLockUnavailable, err)
	}
	defer s.lock.Release()

	return s.ensureLocked(context.WithoutCancel(ctx), route)
}

func (s *Service) ensureLocked(ctx context.Context, route domain.Route) error {
	log := zerowrap.FromCtx(ctx)
	target := route.ContainerName

	running, err := s.runtime.ListRunning(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrContainerListFailed, err)
	}

	for _, name := range running {
		if name == target || !s.isTracked(name) {
			continue
		}
		log.Info().Str("stopping", name).Msg("stopping other backend")
		if err := s.runtime.StopContainer(ctx, name); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrContainerStopFailed, name, err)
		}
		s.store.DeleteLastHit(name)
		s.metrics.IncContainerStop(name, "exclusive")
		s.metrics.SetRunning(name, false)
	}

	if slices.Contains(running, target) {
		log.Debug().Msg("target already running")
		s.metrics.SetRunning(target, true)
		return nil
	}

	started := s.now()
	log.Info().Msg("cold starting backend")
	if err := s.runtime.StartContainer(ctx, target); err != nil {
		err = fmt.Errorf("%w: %s: %w", domain.ErrContainerStartFailed, target, err)
		s.metrics.ObserveColdStart(target, s.now().Sub(started), err)
		return err
	}
	if err := s.health.WaitHealthy(ctx, route); err != nil {
		s.metrics.ObserveColdStart(target, s.now().Sub(started), err)
		return err
	}

	elapsed := s.now().Sub(started)
	s.store.RecordStart(target, elapsed, started)
	s.metrics.ObserveColdStart(target, elapsed, nil)
	s.metrics.SetRunning(target, true)

	log.Info().Dur(zerowrap.FieldDuration, elapsed).Msg("backend ready")
	return nil
}

// Stats reports the running tracked containers together with the last-hit
// and start metric snapshots.
func (s *Service) Stats(ctx context.Context) (*domain.Stats, error) {
	running, err := s.runtime.ListRunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrContainerListFailed, err)
	}

	tracked := make([]string, 0, len(running))
	for _, name := range running {
		if s.isTracked(name) {
			tracked = append(tracked, name)
		}
	}
	slices.Sort(tracked)

	return &domain.Stats{
		Running:      tracked,
		LastHits:     s.store.LastHits(),
		StartMetrics: s.store.StartMetrics(),
	}, nil
}

// StopAll stops every running tracked container under the lock. Used on
// shutdown when configured; failures are logged and the first is returned.
func (s *Service) StopAll(ctx context.Context) error {
	log := s.log.With().Str(zerowrap.FieldUseCase, "StopAll").Logger()

	return s.lock.Do(ctx, func(ctx context.Context) error {
		running, err := s.runtime.ListRunning(ctx)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrContainerListFailed, err)
		}

		var firstErr error
		for _, name := range running {
			if !s.isTracked(name) {
				continue
			}
			if err := s.runtime.StopContainer(ctx, name); err != nil {
				log.Warn().Err(err).Str(logging.FieldContainer, name).Msg("failed to stop backend on shutdown")
				if firstErr == nil {
					firstErr = fmt.Errorf("%w: %s: %w", domain.ErrContainerStopFailed, name, err)
				}
				continue
			}
			s.store.DeleteLastHit(name)
			s.metrics.IncContainerStop(name, "shutdown")
			s.metrics.SetRunning(name, false)
		}
		return firstErr
	})
}

// Tracked returns the tracked container names, sorted.
func (s *Service) Tracked() []string {
	names := make([]string, 0, len(s.tracked))
	for name := range s.tracked {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Service) isTracked(name string) bool {
	_, ok := s.tracked[name]
	return ok
}
