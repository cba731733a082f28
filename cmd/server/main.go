package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/climate-explorer/internal/application"
	"github.com/JonMunkholm/climate-explorer/internal/config"
	"github.com/JonMunkholm/climate-explorer/internal/core"
	"github.com/JonMunkholm/climate-explorer/internal/logging"
	"github.com/JonMunkholm/climate-explorer/internal/observability"
	"github.com/JonMunkholm/climate-explorer/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"base_path", cfg.Server.BasePath,
		"spreadsheet", cfg.Data.SpreadsheetPath,
		"database", cfg.Database.Enabled(),
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	logger.Debug("configuration", "config", cfg.String())

	metrics := observability.NewMetrics()

	app, err := application.Build(context.Background(), cfg, metrics, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	logger.Info("sources registered", "formats", core.FormatCount(), "sources", len(app.Specs))

	jobCtx, cancelJobs := context.WithCancel(context.Background())

	if cfg.Data.Preload {
		go func() {
			ctx, cancel := context.WithTimeout(jobCtx, cfg.Data.LoadTimeout)
			defer cancel()
			if err := app.Service.Warm(ctx); err != nil {
				logger.Error("dataset preload failed", "error", err, "hint", core.FormatUserError(err))
				return
			}
			logger.Info("dataset preloaded")
		}()
	}

	server := web.NewServer(app.Service, cfg, metrics)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		logger.Info("server stopped", "error", err)
	}
}
