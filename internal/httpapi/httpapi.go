package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/codjointops/radarflow-bridge/internal/broadcast"
	"github.com/codjointops/radarflow-bridge/internal/config"
	"github.com/codjointops/radarflow-bridge/internal/metrics"
)

// Server serves the static overlay assets plus the health and metrics
// endpoints on one listener, separate from the WebSocket broadcast port.
type Server struct {
	http *http.Server
}

// New builds the static/metrics HTTP server described by cfg.
func New(cfg config.ServerConfig, metricsCfg config.MetricsConfig, hub *broadcast.Hub, metricsRegistry *metrics.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			"sessions":  hub.Count(),
		})
	})

	if metricsCfg.Enabled {
		mux.Handle(metricsCfg.Endpoint, metricsRegistry.Handler())
	}

	mux.Handle("/", http.FileServer(http.Dir(cfg.WebRoot)))

	return &Server{
		http: &http.Server{
			Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Run starts the server and blocks until ctx is canceled, shutting down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
