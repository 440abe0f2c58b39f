package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "marineqc/internal/adapter/http"
	kafkaadapter "marineqc/internal/adapter/kafka"
	"marineqc/internal/config"
	"marineqc/internal/observability"
	"marineqc/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	battery, err := config.LoadBattery(cfg.BatteryFile)
	if err != nil {
		logger.Error("failed to load battery", "error", err, "path", cfg.BatteryFile)
		os.Exit(1)
	}
	logger.Info("battery loaded",
		"path", cfg.BatteryFile,
		"checks", battery.Checks.EntryNames(),
		"preprocessing", len(battery.Preprocessing),
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	checker := pipeline.NewChecker(battery, cfg, logger, metrics)

	p := pipeline.New(reader, checker, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, httpadapter.BatteryInfo{
		Checks:       battery.Checks.EntryNames(),
		ReturnMethod: cfg.ReturnMethod,
		GroupBy:      cfg.GroupBy,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start QC pipeline.
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

	logger.Info("shutdown complete")
}
