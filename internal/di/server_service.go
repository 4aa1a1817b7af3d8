package di

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/streamkeep/streamkeep/internal/admin"
)

// ServerService owns the admin HTTP server. An empty listen address leaves
// the service inert.
type ServerService struct {
	Server *admin.Server
}

// NewAdminServer builds the admin HTTP server and its routes.
func NewAdminServer(i do.Injector) (*ServerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	snapSvc := do.MustInvoke[*SnapshotService](i)
	schedSvc := do.MustInvoke[*SchedulerService](i)
	logSvc := do.MustInvoke[*LoggerService](i)

	listen := cfgSvc.Config.Admin.Listen
	if listen == "" {
		return &ServerService{}, nil
	}

	handler := admin.SetupRoutes(&cfgSvc.Config.Admin, snapSvc.Store, schedSvc.Scheduler, *logSvc.Logger)
	return &ServerService{Server: admin.NewServer(listen, handler)}, nil
}

// Shutdown implements do.Shutdowner.
func (s *ServerService) Shutdown() error {
	if s.Server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Server.Shutdown(ctx)
}
