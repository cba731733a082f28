// Package web provides the HTTP server and JSON handlers for the climate
// explorer API.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/JonMunkholm/climate-explorer/internal/config"
	"github.com/JonMunkholm/climate-explorer/internal/core"
	"github.com/JonMunkholm/climate-explorer/internal/observability"
	"github.com/JonMunkholm/climate-explorer/internal/schema"
	"github.com/JonMunkholm/climate-explorer/internal/web/middleware"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server is the HTTP server for the climate explorer API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	metrics *observability.Metrics
	ready   ReadinessChecker
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new Server instance. Readiness follows the dataset
// cache: the server is ready once the first load succeeded.
func NewServer(service *core.Service, cfg *config.Config, metrics *observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	s := &Server{
		service: service,
		cfg:     cfg,
		metrics: metrics,
		ready:   service,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(middleware.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Metrics(s.metrics))
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Compress(5))
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(cors.New(cors.Options{
		AllowedOrigins: s.cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}).Handler)

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		limiter := middleware.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute)
		s.router.Use(limiter.Handler(func(w http.ResponseWriter, r *http.Request) {
			s.respondError(w, r, middleware.ErrRateLimited)
		}))
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleReady)
	s.router.Handle("/metrics", promhttp.Handler())

	api := func(r chi.Router) {
		r.Get("/providers", s.handleProviders)
		r.Get("/variables", s.handleValues(schema.FieldVariable))
		r.Get("/regions", s.handleValues(schema.FieldRegion))
		r.Get("/scenarios", s.handleValues(schema.FieldScenario))

		r.Get("/datasets", s.handleDatasets)
		r.Get("/datasets/provider/{provider}", s.handleProviderDatasets)
		r.Get("/datasets/{provider}", s.handleProviderDatasets)

		r.Get("/sources", s.handleSources)
	}

	if s.cfg.Server.BasePath == "" {
		api(s.router)
		return
	}
	s.router.Route(s.cfg.Server.BasePath, api)
}

// Start begins listening for HTTP requests.
// Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("http server starting", "addr", s.server.Addr, "base_path", s.cfg.Server.BasePath)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			// JSON only; nothing is ever loaded from a response.
			if enableCSP {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v as JSON with the given status.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
