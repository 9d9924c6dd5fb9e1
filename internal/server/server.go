// Package server provides the HTTP server lifecycle management for tasktrack.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/tasktrack/tasktrack/internal/api"
	"github.com/tasktrack/tasktrack/internal/logging"
	"github.com/tasktrack/tasktrack/internal/mcp"
	"github.com/tasktrack/tasktrack/internal/service"
	"github.com/tasktrack/tasktrack/internal/store"
	"github.com/tasktrack/tasktrack/internal/tools"
)

const (
	// DefaultAddress is the default address the server listens on.
	DefaultAddress = "localhost:7432"
	// DefaultShutdownTimeout is the default timeout for graceful shutdown.
	DefaultShutdownTimeout = 30 * time.Second
	// Name is reported to tool clients.
	Name = "tasktrack"
)

// Options configures a Server.
type Options struct {
	// Addr is the listen address. Empty means DefaultAddress.
	Addr string
	// Store is closed when the server shuts down.
	Store   store.Store
	Logger  *slog.Logger
	Version string
}

// Server manages the HTTP server lifecycle.
type Server struct {
	httpServer *http.Server
	store      store.Store
	logger     *slog.Logger
	listener   net.Listener
	mu         sync.Mutex
	started    bool
}

// New wires the service, the tool endpoint and the router around opts.Store.
func New(opts Options) (*Server, error) {
	addr := opts.Addr
	if addr == "" {
		addr = DefaultAddress
	}
	logger := logging.OrDefault(opts.Logger)

	svc := service.NewTaskService(opts.Store, service.WithLogger(logger))
	toolServer, err := NewToolServer(svc, opts.Version, logger)
	if err != nil {
		return nil, err
	}

	router := api.NewRouter(svc, toolServer, logger)

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		store:  opts.Store,
		logger: logger,
	}, nil
}

// NewToolServer builds the JSON-RPC tool server over ops: the local service
// for the HTTP endpoint, or a client.RemoteService for the stdio transport.
func NewToolServer(ops tools.TaskOperations, version string, logger *slog.Logger) (*mcp.Server, error) {
	registry, err := tools.NewTaskRegistry(ops, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	if version == "" {
		version = "dev"
	}
	return mcp.NewServer(registry, mcp.ServerInfo{Name: Name, Version: version}, logger), nil
}

// Start starts the HTTP server and blocks until the server is shut down.
// It returns http.ErrServerClosed when the server is gracefully shut down.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}

	// Create listener first so we know the actual address (for port 0 case)
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	s.listener = ln
	s.started = true
	s.mu.Unlock()

	s.logger.Info("server listening", "addr", ln.Addr().String())

	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server without interrupting active
// connections, then closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("shutting down server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("error closing task store", "error", err)
		}
	}

	s.logger.Info("server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the server with signal handling for graceful shutdown.
// It handles SIGINT and SIGTERM signals.
func (s *Server) ListenAndServe() error {
	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	// Wait for signal or error
	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		s.logger.Info("received signal", "signal", sig.String())
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()

	return s.Shutdown(ctx)
}
