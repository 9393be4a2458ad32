// Command inventory consumes GRIB2 inventory records from Kafka, appends the
// configured geolocation backend token to each inventory line, and publishes
// the annotated records to the sink topic.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/grib-inventory-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/grib-inventory-service/internal/adapter/kafka"
	"github.com/couchcryptid/grib-inventory-service/internal/config"
	"github.com/couchcryptid/grib-inventory-service/internal/domain"
	"github.com/couchcryptid/grib-inventory-service/internal/observability"
	"github.com/couchcryptid/grib-inventory-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to read .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err := run(cfg, logger); err != nil {
		logger.Error("inventory service failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	metrics := observability.NewMetrics()
	metrics.SetGeolocationBackend(cfg.GeolocationBackend.String(), backendLabels())
	logger.Info("geolocation backend selected", "backend", cfg.GeolocationBackend.String())

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	defer closeAll(logger, reader, writer)

	transformer := pipeline.NewTransformer(cfg.GeolocationBackend, logger, metrics)
	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.GeolocationBackend, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	pipelineDone := make(chan error, 1)
	go func() { pipelineDone <- p.Run(ctx) }()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-srvErr:
		logger.Error("http server error", "error", runErr)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case err := <-pipelineDone:
		if err != nil {
			logger.Error("pipeline error", "error", err)
		}
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}

	logger.Info("shutdown complete")
	return runErr
}

func backendLabels() []string {
	backends := domain.GeolocationBackends()
	labels := make([]string, 0, len(backends))
	for _, b := range backends {
		labels = append(labels, b.String())
	}
	return labels
}

type closer interface {
	Close() error
}

func closeAll(logger *slog.Logger, closers ...closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Error("kafka client close error", "error", err)
		}
	}
}
