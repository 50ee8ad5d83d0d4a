package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"funding/internal/amqp"
	"funding/internal/backend"
	"funding/internal/cli"
	"funding/internal/config"
	"funding/internal/dataset"
	apphttp "funding/internal/http"
	applog "funding/internal/log"
	"funding/internal/services"
	"funding/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize data backend", err, "source", cfg.DataSource)
	}
	defer result.Close()

	store := dataset.NewStore(result.Source, result.Normalizer)
	dashboard := services.NewDashboardService(store)

	srv, err := apphttp.NewServer(apphttp.Config{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RequestTimeout:     cfg.RequestTimeout,
		Logger:             logger,
	}, dashboard, store)
	if err != nil {
		cli.Fatal(logger, "Failed to create HTTP server", err)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			cli.Fatal(logger, "Failed to initialize AMQP client", err)
		}
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", "error", err)
			}
		}
	})

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting funding server", "port", cfg.Port, "source", cfg.DataSource, "amqp", cfg.AMQPEnabled())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// The listener is up before the first load so /healthz answers and
	// /readyz reports 503 until the table is published.
	if _, err := store.Load(ctx); err != nil {
		logger.Error("Initial dataset load failed", "error", err, "source", result.Source.Name())
		_ = srv.Shutdown(context.Background())
		os.Exit(1)
	}

	if amqpClient != nil {
		startReloads(ctx, cfg, amqpClient, worker.NewReloadWorker(store, result.Repository, logger), logger)
	} else {
		logger.Info("AMQP disabled - dataset reloads only on restart")
	}

	select {
	case err := <-serveErr:
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	case <-ctx.Done():
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}

// startReloads consumes dataset events and periodically catches up on
// imports whose events were missed.
func startReloads(ctx context.Context, cfg *config.Config, client *amqp.Client, rw *worker.ReloadWorker, logger *applog.Logger) {
	if _, err := rw.CatchUp(ctx); err != nil {
		logger.Error("Failed startup reload check", "error", err)
	}

	go func() {
		if err := client.ConsumeDatasetEvents(ctx, rw.HandleDatasetImported); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Dataset event consumption failed", "error", err)
		}
	}()

	go func() {
		ticker := time.NewTicker(cfg.ReloadCheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := rw.CatchUp(ctx); err != nil {
					logger.Error("Periodic reload check failed", "error", err)
				}
			}
		}
	}()
}
