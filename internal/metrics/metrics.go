// Package metrics provides access to Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "streamkeep"

// Snapshot
var (
	SnapshotLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "lookups_total",
		},
		[]string{"result"}, // hit, miss
	)
	SnapshotReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "reloads_total",
		},
		[]string{"result"}, // ok, failed
	)
	SnapshotLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "load_duration_seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		},
	)
)

// Remote tree store
var (
	RemoteOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "ops_total",
		},
		[]string{"backend", "op", "outcome"}, // direct|rest, get|set|update|remove, ok|error|not_found
	)
	RemoteOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "op_duration_seconds",
			Buckets:   []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10},
		},
		[]string{"backend", "op"},
	)
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "remote",
			Name:      "token_refreshes_total",
		},
		[]string{"result"}, // ok, failed
	)
)

// Cache managers
var (
	VideoCacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "video_cache",
			Name:      "ops_total",
		},
		[]string{"op", "result"}, // get|save|clear, hit|miss|written|skipped|error
	)
	PlaylistCacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "playlist_cache",
			Name:      "ops_total",
		},
		[]string{"op", "result"},
	)
)

// Scheduler
var (
	SchedulerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "runs_total",
		},
		[]string{"result"}, // ok, failed
	)
)
