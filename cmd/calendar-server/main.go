// Command calendar-server serves the published calendar snapshot over
// HTTP: the full snapshot, filtered event queries, health and
// Prometheus metrics. It is read-only; snapshots are produced by the
// calendar command.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecocal/internal/config"
	"ecocal/internal/infrastructure"
	"ecocal/internal/services"
	transport "ecocal/internal/transport/http"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialize logger: %v\n", err)
		return 1
	}
	defer infrastructure.CloseLogFile()

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.Error("otel_init_failed", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := otelProviders.Shutdown(context.Background()); err != nil {
			logger.Error("otel_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	metrics, err := infrastructure.CreateCalendarMetrics(otelProviders.Meter)
	if err != nil {
		logger.Error("metrics_init_failed", slog.String("error", err.Error()))
		return 1
	}

	collector, err := infrastructure.NewSystemMetricsCollector(otelProviders.Meter, 30*time.Second)
	if err != nil {
		logger.Error("system_metrics_init_failed", slog.String("error", err.Error()))
		return 1
	}
	go collector.Start(context.Background())
	defer collector.Stop()

	calendar := services.NewCalendarService(cfg.Outputs, infrastructure.WithComponent(logger, "services"))
	health := services.NewHealthService(calendar)
	router := transport.NewRouter(cfg, calendar, health, logger,
		transport.WithMetrics(metrics),
		transport.WithMetricsHandler(otelProviders.PrometheusHTTP),
	)

	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info("server_shutting_down")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	logger.Info("server_listening", slog.Int("port", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server_failed", slog.String("error", err.Error()))
		return 1
	}
	<-shutdownDone

	return 0
}
