// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcome labels.
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusTimeout  = "timeout"
	StatusCanceled = "canceled"
)

var (
	// Dispatch metrics
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookout_dispatch_total",
			Help: "Total number of admin operations dispatched to workers",
		},
		[]string{"cluster", "operation", "status"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lookout_dispatch_duration_seconds",
			Help:    "Admin operation duration in seconds, queueing included",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"cluster", "operation"},
	)

	DispatchQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookout_dispatch_queue_depth",
			Help: "Jobs waiting for a free worker",
		},
	)

	DispatchInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lookout_dispatch_in_flight",
			Help: "Jobs currently executing on a worker",
		},
	)

	// Connection pool metrics
	HandlesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookout_admin_handles_created_total",
			Help: "Admin clients constructed per cluster",
		},
		[]string{"cluster"},
	)

	HandleCreateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookout_admin_handle_create_failures_total",
			Help: "Failed admin client constructions per cluster",
		},
		[]string{"cluster"},
	)

	HandlesInvalidated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookout_admin_handles_invalidated_total",
			Help: "Admin clients discarded after a connection failure",
		},
		[]string{"cluster"},
	)

	// Policy metrics
	ReadOnlyRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookout_read_only_rejections_total",
			Help: "Mutations refused because the cluster is read-only",
		},
		[]string{"cluster", "operation"},
	)
)
