package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/courseportal/internal/app/repositories"
	"github.com/yigit/courseportal/internal/app/session"
	"github.com/yigit/courseportal/internal/bootstrap"
	"github.com/yigit/courseportal/internal/pkg/helpers"
)

const (
	sessionSweepInterval = 5 * time.Minute
	shutdownTimeout      = 10 * time.Second
)

// Server runs the portal HTTP API over one store
type Server struct {
	http     *http.Server
	store    repositories.Store
	sessions *session.MemoryStore
	logger   zerolog.Logger
}

// NewServer loads configuration, opens the store and wires the router.
func NewServer(ctx context.Context) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	store, err := bootstrap.SetupStore(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup store: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, store, lgr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Server{
		http: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      bootstrap.SetupRouter(cfg, deps, lgr),
			ReadTimeout:  helpers.ParseDuration(cfg.Server.ReadTimeout, 10*time.Second),
			WriteTimeout: helpers.ParseDuration(cfg.Server.WriteTimeout, 10*time.Second),
			IdleTimeout:  120 * time.Second,
		},
		store:    store,
		sessions: deps.Sessions,
		logger:   lgr,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.sessions.RunSweeper(ctx, sessionSweepInterval)

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serveErr <- s.http.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = s.closeStore()
			return fmt.Errorf("error starting server: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	return s.Shutdown(context.Background())
}

// Shutdown drains in-flight requests, then closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	httpErr := s.http.Shutdown(ctx)
	if httpErr != nil {
		s.logger.Error().Err(httpErr).Msg("HTTP server shutdown error")
	}
	storeErr := s.closeStore()

	if err := errors.Join(httpErr, storeErr); err != nil {
		return fmt.Errorf("server shutdown completed with errors: %w", err)
	}
	s.logger.Info().Int("openSessions", s.sessions.Len()).Msg("Server stopped")
	return nil
}

func (s *Server) closeStore() error {
	if s.store == nil {
		return nil
	}
	err := s.store.Close()
	if err != nil {
		s.logger.Error().Err(err).Msg("Store close error")
	}
	s.store = nil
	return err
}
