// Package server provides the HTTP server for the rule API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/aswinbalajig/Rule-Based-Applications/pkg/api/handlers"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/api/middleware"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/config"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/service"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/health"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/metrics"
	"github.com/aswinbalajig/Rule-Based-Applications/pkg/telemetry/tracing"
)

// Build information reported by /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options carries the optional collaborators of a Server.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Collector // nil disables /metrics and HTTP metrics
	Tracer  *tracing.Tracer    // nil disables request spans
	Health  *health.Checker    // nil creates a checker with a store check
	Build   BuildInfo
}

// Server is the HTTP server for the rule API.
type Server struct {
	config       *config.Config
	svc          *service.Service
	logger       *slog.Logger
	metrics      *metrics.Collector
	tracer       *tracing.Tracer
	health       *health.Checker
	build        BuildInfo
	httpServer   *http.Server
	listener     net.Listener
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// New creates a server. A nil logger uses slog.Default().
func New(cfg *config.Config, svc *service.Service, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	checker := opts.Health
	if checker == nil {
		checker = health.New(0)
		checker.Register("store", StoreCheck(svc))
	}

	return &Server{
		config:       cfg,
		svc:          svc,
		logger:       logger.With("component", "server"),
		metrics:      opts.Metrics,
		tracer:       opts.Tracer,
		health:       checker,
		build:        opts.Build,
		shutdownChan: make(chan struct{}),
	}
}

// StoreCheck reports the store as unhealthy when it cannot count its rules.
func StoreCheck(svc *service.Service) health.CheckFunc {
	return func(ctx context.Context) error {
		if _, err := svc.Store().Count(ctx); err != nil {
			return fmt.Errorf("store unavailable: %w", err)
		}
		return nil
	}
}

// Start binds the listen address and serves until ctx is cancelled,
// Shutdown is called or the server fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	cfg := s.config.Server
	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.setupRoutes(),
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	s.isRunning = true
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting rule server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		return err
	case <-s.shutdownChan:
		return nil
	}
}

// Shutdown gracefully stops the server, waiting up to the configured
// shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		defer close(s.shutdownChan)

		s.mu.RLock()
		running := s.isRunning
		s.mu.RUnlock()
		if !running {
			return
		}

		timeout := s.config.Server.ShutdownTimeout
		s.logger.Info("initiating graceful shutdown", "timeout", timeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("rule server stopped")
	})

	return shutdownErr
}

// setupRoutes builds the mux and wraps it in the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	handlers.NewRulesHandler(s.svc, s.logger).Register(mux)

	mux.Handle("GET /health", s.health.LivenessHandler())
	mux.Handle("GET /ready", s.health.ReadinessHandler())
	mux.Handle("GET /version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))

	metricsCfg := s.config.Telemetry.Metrics
	if s.metrics != nil && metricsCfg.Enabled {
		mux.Handle("GET "+metricsCfg.Path, s.metrics.Handler())
	}

	// Metrics reads the matched pattern, so it must sit directly on the mux.
	var handler http.Handler = mux
	handler = middleware.MetricsMiddleware(s.metrics)(handler)
	handler = middleware.BodyLimitMiddleware(s.config.Server.MaxBodyBytes)(handler)
	handler = middleware.CORSMiddleware(s.config.Server.CORS)(handler)
	if s.tracer != nil {
		handler = tracing.HTTPMiddleware(s.tracer)(handler)
	}
	handler = middleware.LoggingMiddleware(s.logger)(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// Recovery middleware (outermost)
	handler = middleware.RecoveryMiddleware(s.logger)(handler)

	return handler
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}
