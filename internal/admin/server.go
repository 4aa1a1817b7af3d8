// Package admin implements the administrative HTTP surface: manual reload,
// scheduler toggle, health and metrics.
package admin

import (
	"context"
	"net/http"
	"time"
)

// Server wraps http.Server with streamkeep's admin configuration.
// Timeouts are conservative; every admin operation is short-lived.
type Server struct {
	httpServer *http.Server
	addr       string
}

// NewServer creates the admin server on the given listen address.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		addr: addr,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// ListenAndServe starts the server (blocks).
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
