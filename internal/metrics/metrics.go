package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry wraps every Prometheus collector the bridge exposes.
type Registry struct {
	Sessions       gaugeVec
	Producer       counterVec
	Broadcast      broadcastVec
}

type gaugeVec struct {
	ActiveSessions prometheus.Gauge
}

type counterVec struct {
	Iterations      prometheus.Counter
	TransportErrors prometheus.Counter
	PatternMisses   prometheus.Counter
	BombTransitions prometheus.Counter
}

type broadcastVec struct {
	FramesSent        prometheus.Counter
	FramesSkipped     prometheus.Counter
	FramesCompressed  prometheus.Counter
	FramesUncompressed prometheus.Counter
}

// NewRegistry creates and registers all collectors with the default
// Prometheus registry.
func NewRegistry() *Registry {
	return &Registry{
		Sessions: gaugeVec{
			ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "radarflow_sessions_active",
				Help: "Number of active WebSocket sessions",
			}),
		},
		Producer: counterVec{
			Iterations: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_producer_iterations_total",
				Help: "Total number of producer loop iterations",
			}),
			TransportErrors: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_producer_transport_errors_total",
				Help: "Total number of memory transport read/write failures",
			}),
			PatternMisses: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_producer_pattern_misses_total",
				Help: "Total number of pattern-scan misses",
			}),
			BombTransitions: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_producer_bomb_transitions_total",
				Help: "Total number of bomb state machine transitions observed",
			}),
		},
		Broadcast: broadcastVec{
			FramesSent: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_broadcast_frames_sent_total",
				Help: "Total number of snapshot frames sent to sessions",
			}),
			FramesSkipped: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_broadcast_frames_skipped_total",
				Help: "Total number of snapshot requests answered without a frame (frame skip or encode failure)",
			}),
			FramesCompressed: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_broadcast_frames_compressed_total",
				Help: "Total number of frames sent gzip-compressed",
			}),
			FramesUncompressed: promauto.NewCounter(prometheus.CounterOpts{
				Name: "radarflow_broadcast_frames_uncompressed_total",
				Help: "Total number of frames sent uncompressed",
			}),
		},
	}
}

// Handler returns an HTTP handler exposing Prometheus metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.Handler()
}
