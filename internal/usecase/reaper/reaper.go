// Package reaper stops backends that have not served a request recently.
//
// The reaper runs outside the exclusivity lock. If it stops a
// container that a request is about to use, that request's own Ensure call
// starts it again.
package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/johnmschoonover/multi-llm-hosting/internal/boundaries/out"
	"github.com/johnmschoonover/multi-llm-hosting/internal/logging"
	"github.com/johnmschoonover/multi-llm-hosting/internal/usecase/cron"
)

// JobID identifies the reaper in the scheduler.
const JobID = "idle-reaper"

// Reaper stops containers whose last hit is older than the idle timeout.
type Reaper struct {
	runtime out.ContainerRuntime
	store   out.StateStore
	metrics out.Metrics
	idle    time.Duration
	log     zerowrap.Logger
	now     func() time.Time
}

// New creates a reaper with the given idle threshold.
func New(runtime out.ContainerRuntime, store out.StateStore, metrics out.Metrics, idle time.Duration, log zerowrap.Logger) *Reaper {
	return &Reaper{
		runtime: runtime,
		store:   store,
		metrics: metrics,
		idle:    idle,
		log:     log,
		now:     time.Now,
	}
}

// Sweep runs one pass. Stop failures are logged and never returned; the
// last-hit entry is dropped either way so a broken container is not retried
// every tick.
func (r *Reaper) Sweep(ctx context.Context) error {
	ctx = zerowrap.CtxWithFields(zerowrap.WithCtx(ctx, r.log), map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "IdleReaper",
	})
	log := zerowrap.FromCtx(ctx)

	now := r.now()
	for name, last := range r.store.LastHits() {
		idleFor := now.Sub(last)
		if idleFor <= r.idle {
			continue
		}

		log.Info().Str(logging.FieldContainer, name).Dur("idle_for", idleFor).Msg("stopping idle backend")
		if err := r.runtime.StopContainer(ctx, name); err != nil {
			log.Warn().Err(err).Str(logging.FieldContainer, name).Msg("failed to stop idle backend")
		} else {
			r.metrics.IncContainerStop(name, "idle")
			r.metrics.SetRunning(name, false)
		}
		r.store.DeleteLastHit(name)
	}
	return nil
}

// Register schedules Sweep on s every interval.
func (r *Reaper) Register(s *cron.Scheduler, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("reap interval must be positive, got %s", interval)
	}
	return s.Add(JobID, "idle reaper", "@every "+interval.String(), r.Sweep)
}
