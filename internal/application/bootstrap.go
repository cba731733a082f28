// Package application wires configuration into a ready-to-use query
// service. Both the HTTP server and climatectl start here.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/climate-explorer/internal/config"
	"github.com/JonMunkholm/climate-explorer/internal/core"
	"github.com/JonMunkholm/climate-explorer/internal/core/sources"
	"github.com/JonMunkholm/climate-explorer/internal/observability"
)

// App holds the service and the resources it owns.
type App struct {
	Service *core.Service
	Specs   []core.SourceSpec

	pool *pgxpool.Pool
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Build resolves the source list, opens the optional database pool and
// constructs the service. Nothing is read until the first query or Warm.
func Build(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	specs, err := SourceSpecs(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Specs: specs}

	var deps core.Deps
	if cfg.Database.Enabled() {
		// The table source is optional; without a pool it reports itself
		// unavailable at load time and the load goes on.
		pool, err := openPool(ctx, cfg.Database)
		if err != nil {
			logger.Warn("database unavailable", "error", err)
		} else {
			app.pool = pool
			deps.DB = pool
			logger.Info("connected to database", "name", databaseName(cfg.Database.URL))
		}
	}

	srcs, err := core.OpenSources(specs, deps)
	if err != nil {
		app.Close()
		return nil, err
	}
	for _, s := range specs {
		logger.Debug("source configured", "key", s.Key, "format", s.Format, "required", s.Required)
	}

	loader := core.NewLoader(srcs, metrics, logger)
	app.Service = core.NewService(loader, core.Limits{
		Default: cfg.Query.DefaultLimit,
		Max:     cfg.Query.MaxLimit,
	}, metrics)

	return app, nil
}

// SourceSpecs returns the built-in sources overlaid with the manifest named
// by DATA_SOURCES_FILE.
func SourceSpecs(cfg *config.Config) ([]core.SourceSpec, error) {
	paths := sources.Paths{
		Spreadsheet: cfg.Data.SpreadsheetPath,
		WideCSV:     cfg.Data.WideCSVPath,
		LongCSV:     cfg.Data.LongCSVPath,
	}
	if cfg.Database.Enabled() {
		paths.Table = cfg.Database.Table
	}
	specs := sources.Builtin(paths)

	if cfg.Data.SourcesFile == "" {
		return specs, nil
	}
	extra, err := sources.LoadManifest(cfg.Data.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("sources file: %w", err)
	}
	return sources.Merge(specs, extra), nil
}

func openPool(ctx context.Context, db config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(db.MaxConns)
	poolConfig.MinConns = int32(db.MinConns)
	poolConfig.MaxConnLifetime = db.MaxConnLifetime
	poolConfig.MaxConnIdleTime = db.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, db.QueryTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// databaseName extracts the database name for logging without exposing
// credentials.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
