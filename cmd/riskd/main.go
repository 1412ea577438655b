package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/georiskmod/risk-service/internal/adapter/http"
	kafkaadapter "github.com/georiskmod/risk-service/internal/adapter/kafka"
	"github.com/georiskmod/risk-service/internal/adapter/mapbox"
	"github.com/georiskmod/risk-service/internal/config"
	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/observability"
	"github.com/georiskmod/risk-service/internal/pipeline"
	"github.com/georiskmod/risk-service/internal/risk"
	"github.com/georiskmod/risk-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	st, err := store.Open(store.Options{
		Path:     cfg.StorePath,
		InMemory: cfg.StoreInMemory,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}

	riskCfg := risk.DefaultConfig()

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(riskCfg, geocoder, logger, metrics)

	p := pipeline.New(reader, transformer, writer, st, logger, metrics, cfg.BatchSize)

	api := httpadapter.NewAPI(st, geocoder, riskCfg, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start the computation pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := st.Close(); err != nil {
		logger.Error("record store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
