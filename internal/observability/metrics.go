package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sportsync_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NotificationWrites counts notification ledger writes by type and result.
	NotificationWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsync_notification_writes_total",
		Help: "Total notification writes by type and result",
	}, []string{"type", "result"})

	// LikeToggles counts like toggles by direction.
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsync_like_toggles_total",
		Help: "Total like toggles by direction",
	}, []string{"direction"})

	// ImageHostOperations counts image host calls by operation and result.
	ImageHostOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsync_image_host_operations_total",
		Help: "Total image host operations by operation and result",
	}, []string{"operation", "result"})

	// WebSocketConnectionsTotal is the gauge of total WebSocket connections.
	WebSocketConnectionsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sportsync_websocket_connections_total",
		Help: "Total number of active WebSocket connections",
	})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsync_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ResultLabel maps an error to the "ok"/"error" label used by the counters above.
func ResultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
