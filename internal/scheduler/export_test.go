package scheduler

import "time"

// SetNow overrides the scheduler's clock (for testing).
func (s *Scheduler) SetNow(now func() time.Time) {
	s.now = now
}
