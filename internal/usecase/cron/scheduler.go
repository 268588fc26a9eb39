// Package cron runs recurring background jobs such as the idle reaper.
package cron

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/robfig/cron/v3"
)

// Scheduler runs registered jobs on robfig/cron specs ("@every 30s",
// "*/5 * * * *", ...). A job never overlaps with itself.
type Scheduler struct {
	cron     *cron.Cron
	entries  map[string]*entry
	mu       sync.RWMutex
	baseCtx  context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	log      zerowrap.Logger
	nowFn    func() time.Time
}

type entry struct {
	id      string
	name    string
	spec    string
	cronID  cron.EntryID
	job     func(ctx context.Context) error
	lastRun time.Time
	lastErr error
	running atomic.Bool
}

// Entry is a read-only view of a registered job.
type Entry struct {
	ID      string
	Name    string
	Spec    string
	LastRun time.Time
	NextRun time.Time
	LastErr error
	Running bool
}

// NewScheduler creates a scheduler instance.
func NewScheduler(log zerowrap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:    cron.New(),
		entries: make(map[string]*entry),
		baseCtx: ctx,
		cancel:  cancel,
		log:     log,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Add registers a new scheduled job.
func (s *Scheduler) Add(id, name, spec string, job func(ctx context.Context) error) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	if job == nil {
		return fmt.Errorf("job is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[id]; exists {
		return fmt.Errorf("schedule %q already exists", id)
	}

	e := &entry{id: id, name: name, spec: spec, job: job}
	cronID, err := s.cron.AddFunc(spec, func() {
		if err := s.executeEntry(s.baseCtx, e); err != nil {
			s.log.Warn().Err(err).Str("schedule_id", e.id).Msg("scheduled job failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	e.cronID = cronID
	s.entries[id] = e

	return nil
}

// Start begins running jobs in the background. Cancelling ctx stops the
// scheduler the same way Stop does.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	s.log.Info().Int("jobs", len(s.List())).Msg("scheduler started")

	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.baseCtx.Done():
		}
	}()
}

// Stop prevents new runs, cancels the context handed to running jobs and
// waits for them to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		done := s.cron.Stop()
		s.cancel()
		<-done.Done()
		s.log.Info().Msg("scheduler stopped")
	})
}

// List returns current scheduler entries sorted by id.
func (s *Scheduler) List() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, Entry{
			ID:      e.id,
			Name:    e.name,
			Spec:    e.spec,
			LastRun: e.lastRun,
			NextRun: s.cron.Entry(e.cronID).Next,
			LastErr: e.lastErr,
			Running: e.running.Load(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return entries
}

func (s *Scheduler) executeEntry(ctx context.Context, e *entry) error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("schedule %q is already running", e.id)
	}
	defer e.running.Store(false)

	now := s.nowFn()
	err := e.job(ctx)

	s.mu.Lock()
	e.lastRun = now
	e.lastErr = err
	s.mu.Unlock()

	return err
}
