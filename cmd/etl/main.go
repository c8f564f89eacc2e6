package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climate-eto-service/internal/adapter/http"
	"github.com/couchcryptid/climate-eto-service/internal/adapter/influx"
	kafkaadapter "github.com/couchcryptid/climate-eto-service/internal/adapter/kafka"
	"github.com/couchcryptid/climate-eto-service/internal/adapter/power"
	"github.com/couchcryptid/climate-eto-service/internal/config"
	"github.com/couchcryptid/climate-eto-service/internal/domain"
	"github.com/couchcryptid/climate-eto-service/internal/observability"
	"github.com/couchcryptid/climate-eto-service/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	logger.Info("default settings", "settings", cfg.DefaultSettings.String())

	// Daily provider (feature-flagged via POWER_ENABLED).
	var provider domain.DailyProvider
	if cfg.PowerEnabled {
		client := power.NewClient(cfg, metrics, logger)
		provider = power.NewCachedProvider(client, cfg.PowerCacheSize, metrics)
		metrics.ProviderEnabled.Set(1)
		logger.Info("nasa power provider enabled",
			"cache_size", cfg.PowerCacheSize,
			"timeout", cfg.PowerTimeout,
			"max_retries", cfg.PowerMaxRetries,
		)
	} else {
		logger.Info("nasa power provider disabled")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(provider, cfg.DefaultSettings, metrics, logger)

	var loader pipeline.BatchLoader = writer
	var mirror *influx.Mirror
	if cfg.MirrorEnabled() {
		mirror = influx.NewMirror(cfg, logger)
		loader = pipeline.NewTeeLoader(writer, mirror, metrics, logger)
		logger.Info("influxdb mirror enabled", "url", cfg.InfluxURL, "bucket", cfg.InfluxBucket)
	}

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.DefaultSettings, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
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
	if mirror != nil {
		if err := mirror.Close(); err != nil {
			logger.Error("influx mirror close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
