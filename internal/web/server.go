// Package web provides the HTTP server and handlers for the upload and
// dashboard UI.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/datalens/internal/config"
	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/observability/metrics"
	"github.com/JonMunkholm/datalens/internal/web/middleware"
)

// Server is the HTTP server for the upload and dashboard application.
type Server struct {
	service *core.Service
	cfg     *config.Config
	metrics *metrics.Metrics // nil when metrics are disabled
	router  *chi.Mux
	server  *http.Server

	limiter       *middleware.RateLimiter // nil when rate limiting is disabled
	uploadLimiter *middleware.RateLimiter
}

// NewServer creates a Server. m may be nil.
func NewServer(service *core.Service, cfg *config.Config, m *metrics.Metrics) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		metrics: m,
		router:  chi.NewRouter(),
	}
	if cfg.Rate.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.Rate.RequestsPerMinute, cfg.Rate.Burst)
		s.uploadLimiter = middleware.NewRateLimiter(cfg.Rate.UploadLimit, min(cfg.Rate.Burst, cfg.Rate.UploadLimit))
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
	s.router.Use(chimw.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	s.router.Use(chimw.Compress(5))
	s.router.Use(middleware.SecurityHeaders(s.cfg.Security.EnableCSP))
	if s.limiter != nil {
		s.router.Use(s.limiter.Handler)
	}
}

// setupRoutes configures all HTTP routes. Upload routes run under the
// upload timeout and the stricter upload rate; everything else under the
// request timeout. Every route that reads or changes the workspace sits
// behind the API key check.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(s.cfg.Security.RequireAPIKey, s.cfg.Security.APIKeys))

		r.Group(func(r chi.Router) {
			s.uploadMiddleware(r)
			r.Post("/upload", s.handleUploadForm)
		})

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

			// Pages
			r.Get("/", s.handleIndex)
			r.Get("/dashboard", s.handleDashboard)
			r.Post("/mappings/toggle", s.handleToggleForm)
			r.Post("/reset", s.handleResetForm)
		})

		r.Route("/api", s.apiRoutes)
	})
}

func (s *Server) apiRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		s.uploadMiddleware(r)
		r.Post("/upload", s.handleUpload)
	})

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))

		// Dataset and stage
		r.Get("/dataset", s.handleDataset)
		r.Get("/stage", s.handleStage)
		r.Put("/stage", s.handleSetStage)
		r.Post("/reset", s.handleReset)

		// Mappings
		r.Get("/mappings", s.handleMappings)
		r.Put("/mappings", s.handleReplaceMappings)
		r.Post("/mappings/toggle", s.handleToggle)
		r.Get("/columns/{column}/candidates", s.handleCandidates)

		// Catalog
		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/{field}", s.handleCatalogField)

		// Analysis
		r.Get("/metrics", s.handleMetrics)
		r.Get("/charts/{kind}", s.handleChart)

		r.Get("/uploads/status", s.handleUploadStatus)
	})
}

func (s *Server) uploadMiddleware(r chi.Router) {
	r.Use(chimw.Timeout(s.cfg.Upload.Timeout))
	if s.uploadLimiter != nil {
		r.Use(s.uploadLimiter.Handler)
	}
}

// Start begins listening for HTTP requests. It returns nil after a
// graceful Shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	for _, rl := range []*middleware.RateLimiter{s.limiter, s.uploadLimiter} {
		if rl != nil {
			go rl.Run(ctx)
		}
	}

	slog.Info("starting server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, then waits for in-flight uploads
// to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if drainErr := s.service.WaitForUploads(ctx); drainErr != nil {
		slog.Warn("uploads still running at shutdown", "error", drainErr)
		err = errors.Join(err, drainErr)
	}
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
