package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sanonone/waypath/internal/server/ui"
	"github.com/sanonone/waypath/pkg/engine"
)

// Server holds the HTTP interface and the underlying editing Engine.
type Server struct {
	Engine *engine.Engine

	hub        *Hub
	httpServer *http.Server
	authToken  string
	logger     *slog.Logger
}

// NewServer wires the HTTP API around an open Engine. hub must be part of
// the Engine's Surface for websocket clients to receive drawing events; it
// may be nil to disable /ws.
func NewServer(eng *engine.Engine, hub *Hub, httpAddr, authToken string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		Engine:    eng,
		hub:       hub,
		authToken: authToken,
		logger:    logger.With("component", "server"),
	}

	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Recovery -> Logging -> Auth -> Mux
	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", promhttp.Handler())
	// The page carries no data; /ws behind it is authenticated.
	rootMux.Handle("GET /ui/", http.StripPrefix("/ui", ui.GetHandler()))
	rootMux.Handle("/", handler)

	s.httpServer = &http.Server{
		Addr:              httpAddr,
		Handler:           rootMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and disconnects websocket clients.
// It does not close the Engine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("starting graceful shutdown of HTTP server")
	if s.hub != nil {
		s.hub.Close()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown: %w", err)
	}
	return nil
}
