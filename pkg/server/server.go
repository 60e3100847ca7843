package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"mercator-hq/valvemap/pkg/catalog"
	"mercator-hq/valvemap/pkg/config"
	"mercator-hq/valvemap/pkg/telemetry/health"
	"mercator-hq/valvemap/pkg/telemetry/metrics"
	"mercator-hq/valvemap/pkg/telemetry/tracing"
)

// Catalog is the read side of the catalog store served by the API.
type Catalog interface {
	List(ctx context.Context, q catalog.Query) ([]*catalog.MapRecord, error)
	Get(ctx context.Context, path string) (*catalog.MapRecord, error)
	Textures(ctx context.Context) ([]catalog.Usage, error)
	ClassNames(ctx context.Context) ([]catalog.Usage, error)
}

// Deps are the components the server exposes. Any of them may be nil, in
// which case the matching routes are not registered.
type Deps struct {
	Metrics     *metrics.Collector
	MetricsPath string
	Health      *health.Checker
	Catalog     Catalog
	Version     health.VersionInfo
	Tracer      *tracing.Tracer
	Logger      *slog.Logger
}

// Server is the HTTP status server run alongside the watcher.
type Server struct {
	config *config.ServerConfig
	deps   Deps
	logger *slog.Logger

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
	running    bool

	shutdownOnce sync.Once
}

// New creates a status server.
func New(cfg *config.ServerConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = config.DefaultPrometheusPath
	}
	return &Server{
		config: cfg,
		deps:   deps,
		logger: logger.With("component", "server"),
	}
}

// Start binds the listen address and serves until ctx is cancelled, then
// shuts down gracefully. It returns an error if the address cannot be bound
// or the server fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.running = true
	srv := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", "address", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}

// Shutdown gracefully stops the server within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		srv := s.httpServer
		s.mu.RUnlock()
		if srv == nil {
			return
		}

		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.running = false
		s.mu.Unlock()

		s.logger.Info("status server stopped")
	})

	return shutdownErr
}

// Addr returns the bound address once Start has been called, which differs
// from the configured address when it uses port 0.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning returns true if the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler returns the routed and middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.deps.Metrics != nil {
		mux.Handle("GET "+s.deps.MetricsPath, s.deps.Metrics.Handler())
	}
	if s.deps.Health != nil {
		mux.Handle("/healthz", s.deps.Health.LivenessHandler())
		mux.Handle("/readyz", s.deps.Health.ReadinessHandler())
	}
	mux.Handle("/version", health.VersionHandler(s.deps.Version.Version, s.deps.Version.Commit, s.deps.Version.BuildDate))

	if s.deps.Catalog != nil {
		api := &catalogAPI{store: s.deps.Catalog, logger: s.logger}
		mux.HandleFunc("GET /api/maps", api.list)
		mux.HandleFunc("GET /api/maps/detail", api.detail)
		mux.HandleFunc("GET /api/textures", api.textures)
		mux.HandleFunc("GET /api/classnames", api.classNames)
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	if s.deps.Tracer != nil {
		handler = tracing.HTTPMiddleware(s.deps.Tracer)(handler)
	}
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}
