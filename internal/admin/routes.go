package admin

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/config"
	"github.com/streamkeep/streamkeep/internal/scheduler"
	"github.com/streamkeep/streamkeep/internal/snapshot"
)

// SetupRoutes creates the admin HTTP handler.
// Routes:
//   - POST /admin/reload     - immediate snapshot reload (admin only)
//   - POST /admin/autoreload - toggle the reload scheduler (admin only)
//   - GET  /healthz          - health check (no auth)
//   - GET  /metrics          - prometheus metrics (no auth)
func SetupRoutes(cfg *config.AdminConfig, store *snapshot.Store, sched *scheduler.Scheduler, logger zerolog.Logger) http.Handler {
	handlers := NewHandlers(store, sched, logger)
	guard := RequireAdmin(cfg, logger)

	mux := http.NewServeMux()
	mux.Handle("POST /admin/reload", guard(http.HandlerFunc(handlers.Reload)))
	mux.Handle("POST /admin/autoreload", guard(http.HandlerFunc(handlers.AutoReload)))
	mux.HandleFunc("GET /healthz", handlers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}
