// Command radarbridge runs the producer loop, the broadcast server, and the
// static/metrics HTTP server as one process.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	_ "go.uber.org/automaxprocs"

	"github.com/codjointops/radarflow-bridge/internal/broadcast"
	"github.com/codjointops/radarflow-bridge/internal/config"
	"github.com/codjointops/radarflow-bridge/internal/httpapi"
	"github.com/codjointops/radarflow-bridge/internal/logging"
	"github.com/codjointops/radarflow-bridge/internal/memview"
	"github.com/codjointops/radarflow-bridge/internal/metrics"
	"github.com/codjointops/radarflow-bridge/internal/moneyreveal"
	"github.com/codjointops/radarflow-bridge/internal/producer"
	"github.com/codjointops/radarflow-bridge/internal/radar"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() // nolint:errcheck

	metricsRegistry := metrics.NewRegistry()

	// The real DMA/kernel-bypass transport is an external collaborator; this
	// process only knows the MemoryView contract. StubView stands in until
	// a concrete connector for cfg.Producer.DMAConnector is wired up.
	mv := memview.NewStubView()
	logger.Warn("no concrete DMA connector wired, running against an empty stub memory view",
		zap.String("dma_connector", cfg.Producer.DMAConnector))

	cell := radar.NewCell()
	hub := broadcast.NewHub()
	patcher := &moneyreveal.Patcher{}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := producer.NewLoop(mv, cfg.Producer.ClientModuleName, cell, patcher, logger)
	go func() {
		if err := loop.Run(ctx); err != nil {
			logger.Error("producer loop exited", zap.Error(err))
		}
	}()

	broadcastAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port+1)
	broadcastServer := broadcast.NewServer(broadcastAddr, cfg.WebSocket, hub, cell, logger, metricsRegistry)
	if err := broadcastServer.Start(ctx); err != nil {
		logger.Fatal("broadcast server start failed", zap.Error(err))
	}

	httpServer := httpapi.New(cfg.Server, cfg.Metrics, hub, metricsRegistry, logger)
	httpErrCh := make(chan error, 1)
	go func() {
		httpErrCh <- httpServer.Run(ctx)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-httpErrCh:
		if err != nil {
			logger.Error("http server error", zap.Error(err))
		}
		stop()
	}

	broadcastServer.Stop()
	logger.Info("radarbridge stopped")
}
