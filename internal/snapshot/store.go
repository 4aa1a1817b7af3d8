package snapshot

import (
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/streamkeep/streamkeep/internal/metrics"
)

// Store owns the live Snapshot reference and replaces it on reload.
// All methods are safe for concurrent use; readers never block writers.
type Store struct {
	current atomic.Pointer[Snapshot]
	log     zerolog.Logger
	path    string
}

// NewStore creates a Store reading its export from path. The store starts
// empty; call Load to populate it.
func NewStore(path string, logger zerolog.Logger) *Store {
	s := &Store{
		path: path,
		log:  logger.With().Str("component", "snapshot").Logger(),
	}
	s.current.Store(Empty())
	return s
}

// Path returns the export file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted export into memory. A missing or corrupt export
// leaves an empty, queryable snapshot in place and returns false.
func (s *Store) Load() bool {
	start := time.Now()

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("snapshot export not readable, starting empty")
		s.current.Store(Empty())
		metrics.SnapshotReloads.WithLabelValues("failed").Inc()
		return false
	}

	snap, err := Parse(data)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("snapshot export corrupt, starting empty")
		s.current.Store(Empty())
		metrics.SnapshotReloads.WithLabelValues("failed").Inc()
		return false
	}

	s.current.Store(snap)
	metrics.SnapshotReloads.WithLabelValues("ok").Inc()
	metrics.SnapshotLoadDuration.Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("path", s.path).
		Int("root_nodes", snap.RootCount()).
		Dur("took", time.Since(start)).
		Msg("snapshot loaded")
	return true
}

// Reload re-reads the export and atomically replaces the live Snapshot.
// The previous Snapshot is never mutated; readers holding it are unaffected.
// On failure the previous Snapshot stays published and Reload returns false.
func (s *Store) Reload() bool {
	start := time.Now()

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("snapshot reload failed, keeping previous snapshot")
		metrics.SnapshotReloads.WithLabelValues("failed").Inc()
		return false
	}

	snap, err := Parse(data)
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("snapshot export corrupt, keeping previous snapshot")
		metrics.SnapshotReloads.WithLabelValues("failed").Inc()
		return false
	}

	s.current.Store(snap)
	metrics.SnapshotReloads.WithLabelValues("ok").Inc()
	metrics.SnapshotLoadDuration.Observe(time.Since(start).Seconds())
	s.log.Info().
		Str("path", s.path).
		Int("root_nodes", snap.RootCount()).
		Dur("took", time.Since(start)).
		Msg("snapshot reloaded")
	return true
}

// Current returns the live Snapshot. The returned Snapshot stays valid and
// self-consistent for as long as the caller holds it.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Lookup walks the live Snapshot along the given path segments.
// Every attempt is logged and counted so stray remote reads that should
// have been mirror reads are easy to spot.
func (s *Store) Lookup(segments ...string) (any, bool) {
	value, ok := s.Current().Lookup(segments...)

	result := "miss"
	if ok {
		result = "hit"
	}
	metrics.SnapshotLookups.WithLabelValues(result).Inc()
	s.log.Debug().
		Str("path", strings.Join(segments, "/")).
		Bool("hit", ok).
		Msg("snapshot lookup")

	return value, ok
}
