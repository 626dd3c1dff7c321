// Package server exposes a runner over HTTP: JSON commands for the player
// and a websocket stream of engine events for observers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/vovakirdan/blockfall/internal/notify"
	"github.com/vovakirdan/blockfall/internal/runner"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// AllowedOrigins lists CORS origins; "*" allows any.
	AllowedOrigins []string

	// ShutdownTimeout bounds graceful shutdown. Zero uses 10 seconds.
	ShutdownTimeout time.Duration
}

// ScoreLister reads the high-score table. *storage.Store satisfies it.
type ScoreLister interface {
	TopScores(limit int) ([]storage.ScoreEntry, error)
}

// Server wires the command API and the event stream around one runner.
type Server struct {
	config Config
	runner *runner.Runner
	hub    *notify.Hub
	scores ScoreLister
	logger *log.Logger

	handler http.Handler
	http    *http.Server
}

// New creates a server. scores may be nil, in which case /api/scores
// reports the table as unavailable.
func New(cfg Config, r *runner.Runner, hub *notify.Hub, scores ScoreLister, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "blockfall-http",
		})
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		config: cfg,
		runner: r,
		hub:    hub,
		scores: scores,
		logger: logger,
	}

	// Routes stay on the root router so a wrong method answers 405.
	router := mux.NewRouter()
	router.HandleFunc("/api/start", s.handleStart).Methods(http.MethodPost)
	router.HandleFunc("/api/pause", s.handlePause).Methods(http.MethodPost)
	router.HandleFunc("/api/reset", s.handleReset).Methods(http.MethodPost)
	router.HandleFunc("/api/arrow/{direction}", s.handleArrow).Methods(http.MethodPost)
	router.HandleFunc("/api/rotate/{direction}", s.handleRotate).Methods(http.MethodPost)
	router.HandleFunc("/api/drop", s.handleDrop).Methods(http.MethodPost)
	router.HandleFunc("/api/state", s.handleState).Methods(http.MethodGet)
	router.HandleFunc("/api/board-size", s.handleBoardSize).Methods(http.MethodGet)
	router.HandleFunc("/api/scores", s.handleScores).Methods(http.MethodGet)
	router.Handle("/ws", hub).Methods(http.MethodGet)
	hub.OnConnect(s.greet)
	router.Use(s.loggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = c.Handler(router)

	return s
}

// Handler returns the root handler with CORS applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// loggingMiddleware logs every request at debug level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}

// Serve accepts connections on l until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	s.http = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// ListenAndServe starts the HTTP server and blocks until SIGINT or SIGTERM.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("server: cannot listen on %s: %w", s.config.Address, err)
	}
	s.logger.Info("starting HTTP server", "address", l.Addr().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, l)
}

// Shutdown stops the runner, disconnects observers and drains requests.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.runner.Close()
	s.hub.Close()

	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
