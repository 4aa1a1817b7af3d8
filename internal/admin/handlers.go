package admin

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/scheduler"
	"github.com/streamkeep/streamkeep/internal/snapshot"
	"github.com/streamkeep/streamkeep/internal/version"
)

type reloadResponse struct {
	OK      bool `json:"ok"`
	Records int  `json:"records"`
}

type autoReloadResponse struct {
	Enabled bool   `json:"enabled"`
	Next    string `json:"next,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Records int    `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handlers serves the admin operations over the snapshot store and the
// reload scheduler.
type Handlers struct {
	store *snapshot.Store
	sched *scheduler.Scheduler
	log   zerolog.Logger
}

// NewHandlers wires the admin handlers to their collaborators.
func NewHandlers(store *snapshot.Store, sched *scheduler.Scheduler, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store: store,
		sched: sched,
		log:   logger.With().Str("component", "admin").Logger(),
	}
}

// Reload handles POST /admin/reload: one immediate snapshot reload,
// independent of the scheduler.
func (h *Handlers) Reload(w http.ResponseWriter, r *http.Request) {
	ok := h.store.Reload()
	records := h.store.Current().RootCount()

	h.log.Info().Bool("ok", ok).Int("records", records).Msg("manual snapshot reload")

	status := http.StatusOK
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, reloadResponse{OK: ok, Records: records})
}

// AutoReload handles POST /admin/autoreload: toggles the reload scheduler
// and reports the resulting state.
func (h *Handlers) AutoReload(w http.ResponseWriter, r *http.Request) {
	enabled := h.sched.Toggle()

	resp := autoReloadResponse{Enabled: enabled}
	if next := h.sched.Next(); !next.IsZero() {
		resp.Next = next.Format(time.RFC3339)
	}

	h.log.Info().Bool("enabled", enabled).Str("next", resp.Next).Msg("auto reload toggled")
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: version.Version,
		Records: h.store.Current().RootCount(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
