// Package metrics owns the process-wide Prometheus collectors.
//
// Labels are bounded: no per-player or per-connection label values.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Simulation
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
	})

	livePlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sim_live_players",
		Help: "Currently occupied player slots",
	})

	bulletsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_bullets_resolved_total",
		Help: "Shots resolved",
	})

	eliminations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_eliminations_total",
		Help: "Players eliminated by their hunter",
	})

	doorTransits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_door_transits_total",
		Help: "Players moved between rooms through a door",
	})

	evictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_evictions_total",
		Help: "Player slots cleared outside of elimination",
	}, []string{"reason"}) // Bounded: "disconnect", "sink_closed", "sink_full"

	inputsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sim_inputs_dropped_total",
		Help: "Input events dropped because the queue was full",
	})

	// Event log
	eventLogTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_log_total",
		Help: "Gameplay events accepted by the event log",
	})

	eventLogDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "event_log_dropped_total",
		Help: "Gameplay events dropped due to rate limiting or buffer overrun",
	})

	// Transport
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected before joining the simulation",
	}, []string{"reason"}) // Bounded: "rate_limit", "ws_limit", "server_full", "upgrade"

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	wsFramesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "websocket_frames_total",
		Help: "Room frames written to WebSocket clients",
	})
)

// RecordTick records tick timing.
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// SetLivePlayers updates the live player gauge.
func SetLivePlayers(n int) {
	livePlayers.Set(float64(n))
}

// RecordBullet counts a resolved shot.
func RecordBullet() { bulletsResolved.Inc() }

// RecordElimination counts an elimination.
func RecordElimination() { eliminations.Inc() }

// RecordDoorTransit counts a room change.
func RecordDoorTransit() { doorTransits.Inc() }

// RecordEviction counts a cleared slot.
// reason must be one of: "disconnect", "sink_closed", "sink_full"
func RecordEviction(reason string) {
	evictions.WithLabelValues(reason).Inc()
}

// RecordInputDropped counts an input event lost to a full queue.
func RecordInputDropped() { inputsDropped.Inc() }

// RecordEventLogged counts an accepted event log entry.
func RecordEventLogged() { eventLogTotal.Inc() }

// RecordEventDropped counts a dropped event log entry.
func RecordEventDropped() { eventLogDropped.Inc() }

// RecordConnectionRejected increments the rejection counter.
// reason must be one of: "rate_limit", "ws_limit", "server_full", "upgrade"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics. endpoint is the route
// pattern, never the raw URL.
func RecordRequest(method, endpoint string, status int, d time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(d.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// SetWSConnections updates the WebSocket connection gauge.
func SetWSConnections(n int) {
	wsConnectionsActive.Set(float64(n))
}

// RecordWSFrame counts a frame written to a client.
func RecordWSFrame() { wsFramesTotal.Inc() }
