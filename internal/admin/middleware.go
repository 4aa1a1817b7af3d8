package admin

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/config"
)

// adminIDHeader carries the caller's identity on privileged operations.
const adminIDHeader = "X-Admin-Id"

// RequireAdmin guards privileged routes. The caller identifies itself with
// the X-Admin-Id header; the id must be on the configured allow list.
func RequireAdmin(cfg *config.AdminConfig, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("component", "admin").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(adminIDHeader)
			if raw == "" {
				log.Warn().Str("path", r.URL.Path).Msg("privileged request without admin id")
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing " + adminIDHeader + " header"})
				return
			}

			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || !cfg.IsAdmin(id) {
				log.Warn().Str("path", r.URL.Path).Str("admin_id", raw).Msg("privileged request rejected")
				writeJSON(w, http.StatusForbidden, errorResponse{Error: "not an admin"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
