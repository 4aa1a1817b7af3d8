package di

import (
	"github.com/samber/do/v2"

	"github.com/streamkeep/streamkeep/internal/scheduler"
)

// SchedulerService owns the periodic snapshot reload scheduler.
type SchedulerService struct {
	Scheduler *scheduler.Scheduler
}

// NewScheduler builds the reload scheduler and starts it when auto reload
// is configured.
func NewScheduler(i do.Injector) (*SchedulerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	snapSvc := do.MustInvoke[*SnapshotService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	sched := scheduler.New(snapSvc.Store, cfgSvc.Config.Cache.GetReloadInterval(), *logSvc.Logger)
	if cfgSvc.Config.Cache.AutoReload {
		sched.Start()
	}

	return &SchedulerService{Scheduler: sched}, nil
}

// Shutdown implements do.Shutdowner.
func (s *SchedulerService) Shutdown() error {
	if s.Scheduler != nil {
		return s.Scheduler.Shutdown()
	}
	return nil
}
