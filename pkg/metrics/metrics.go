package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Global collectors, registered on the default registry by promauto.

var (
	// HttpRequestsTotal counts requests by method, route and status code.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waypath_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HttpRequestDuration measures response time by method and route.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waypath_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	// Waypoints tracks the number of waypoints in the path.
	Waypoints = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "waypath_waypoints",
		Help: "Number of waypoints in the path",
	})

	// Segments tracks the number of segments in the path.
	Segments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "waypath_segments",
		Help: "Number of segments in the path",
	})

	// Operations counts editing operations by kind and outcome.
	Operations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waypath_operations_total",
			Help: "Editing operations applied to the path",
		},
		[]string{"op", "result"},
	)

	// SnapshotSaves counts persistence attempts by outcome.
	SnapshotSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waypath_snapshot_saves_total",
			Help: "Snapshot save attempts",
		},
		[]string{"result"},
	)

	// SnapshotLoadFailures counts snapshots that could not be restored.
	SnapshotLoadFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "waypath_snapshot_load_failures_total",
		Help: "Snapshots that failed to load and were discarded",
	})

	// SnapshotBytes is the size of the last saved snapshot.
	SnapshotBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "waypath_snapshot_bytes",
		Help: "Size in bytes of the last saved snapshot",
	})

	// SurfaceClients tracks connected websocket surfaces.
	SurfaceClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "waypath_surface_clients",
		Help: "Connected websocket rendering clients",
	})
)
