package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"gigbook/internal/amqp"
	"gigbook/internal/calendar"
	"gigbook/internal/cli"
	apphttp "gigbook/internal/http"
	"gigbook/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	store := cli.InitStore(logger, cfg)

	// AMQP feeds the backup worker. The server keeps running without it.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, entry changes will not be published", "error", err)
			amqpClient = nil
		}
	}

	entries := services.NewEntryService(store, amqpClient)

	// Calendar import is optional and only enabled when configured.
	var events calendar.EventLister
	if cfg.GoogleCalendarID != "" {
		calClient, err := calendar.NewFromEnv(context.Background())
		if err != nil {
			logger.Warn("Calendar import disabled", "error", err)
		} else {
			events = calClient
			logger.Info("Calendar import enabled", "calendar_id", cfg.GoogleCalendarID)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, entries, store, events)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := entries.Close(); err != nil {
			logger.Error("Service close error", "error", err)
		}
	})

	logger.Info("Starting gigbook server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	slog.Info("Server stopped gracefully")
}
