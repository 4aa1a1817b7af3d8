// Package scheduler runs the periodic snapshot reload at wall-clock-aligned
// boundaries.
//
// The scheduler moves through Stopped -> Waiting -> Reloading -> Waiting ...
// -> Stopped. Boundaries are multiples of the configured interval measured
// from local midnight, so a 4-hour interval fires at 00:00, 04:00, 08:00 and
// so on regardless of when the process started. Waiting sleeps in short
// ticks and checks a stop signal on each tick, so Stop takes effect within
// about a second rather than at the next boundary. An in-flight reload is
// allowed to complete.
package scheduler

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/metrics"
)

// tick is the waiting-loop granularity and therefore the upper bound on how
// long Stop can take to be observed.
const tick = time.Second

// Reloader is the operation the scheduler drives on each boundary.
type Reloader interface {
	Reload() bool
}

// Scheduler triggers a Reloader at aligned boundaries.
// All methods are safe for concurrent use; at most one background goroutine
// exists at a time.
type Scheduler struct {
	reloader Reloader
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.Mutex
	stop     chan struct{}
	done     chan struct{}
	next     time.Time
	interval int // hours
	running  bool
}

// New creates a stopped scheduler with the given interval in hours.
func New(reloader Reloader, intervalHours int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		reloader: reloader,
		interval: intervalHours,
		log:      logger.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
}

// NextBoundary returns the smallest multiple of interval hours past local
// midnight that is strictly after now.
func NextBoundary(now time.Time, intervalHours int) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	interval := time.Duration(intervalHours) * time.Hour
	passed := now.Sub(midnight) / interval
	return midnight.Add((passed + 1) * interval)
}

// Start launches the background loop. Starting a running scheduler is a
// no-op. Returns whether the scheduler is running afterwards (always true).
func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return true
	}
	s.running = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.next = NextBoundary(s.now(), s.interval)

	go s.run(s.stop, s.done)

	s.log.Info().
		Int("interval_hours", s.interval).
		Time("next", s.next).
		Msg("reload scheduler started")
	return true
}

// Stop signals the background loop to exit and waits for it. Stopping a
// stopped scheduler is a no-op. An in-flight reload completes first.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	done := s.done
	s.mu.Unlock()

	<-done
	s.log.Info().Msg("reload scheduler stopped")
}

// Toggle flips the scheduler on or off and reports the resulting state.
func (s *Scheduler) Toggle() bool {
	if s.Enabled() {
		s.Stop()
		return false
	}
	return s.Start()
}

// Enabled reports whether the background loop is running.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Next returns the next scheduled boundary. Zero when stopped.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return time.Time{}
	}
	return s.next
}

// Shutdown implements graceful teardown for container shutdown hooks.
func (s *Scheduler) Shutdown() error {
	s.Stop()
	return nil
}

// run is the background loop: wait for the boundary in 1s ticks, reload,
// recompute, repeat.
func (s *Scheduler) run(stop, done chan struct{}) {
	defer close(done)

	for {
		s.mu.Lock()
		next := s.next
		s.mu.Unlock()

		s.log.Info().
			Time("next", next).
			Dur("wait", time.Until(next)).
			Msg("waiting for next reload boundary")

		if !s.waitUntil(next, stop) {
			return
		}

		s.runReload()

		s.mu.Lock()
		s.next = NextBoundary(s.now(), s.interval)
		s.mu.Unlock()
	}
}

// waitUntil sleeps in ticks until the deadline, returning false when the
// stop signal arrives first.
func (s *Scheduler) waitUntil(deadline time.Time, stop chan struct{}) bool {
	for {
		remaining := deadline.Sub(s.now())
		if remaining <= 0 {
			return true
		}
		sleep := min(remaining, tick)
		select {
		case <-stop:
			return false
		case <-time.After(sleep):
		}
	}
}

// runReload executes one reload iteration. A failure or panic is logged and
// the loop keeps waiting for the next boundary.
func (s *Scheduler) runReload() {
	runID := uuid.NewString()
	logger := s.log.With().Str("run_id", runID).Logger()

	defer func() {
		if r := recover(); r != nil {
			metrics.SchedulerRuns.WithLabelValues("failed").Inc()
			logger.Error().Any("panic", r).Msg("reload iteration panicked")
		}
	}()

	logger.Info().Msg("scheduled reload starting")
	start := time.Now()

	if s.reloader.Reload() {
		metrics.SchedulerRuns.WithLabelValues("ok").Inc()
		logger.Info().Dur("took", time.Since(start)).Msg("scheduled reload finished")
	} else {
		metrics.SchedulerRuns.WithLabelValues("failed").Inc()
		logger.Warn().Dur("took", time.Since(start)).Msg("scheduled reload failed")
	}
}
