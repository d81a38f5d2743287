// Package server wires the protocol servers together and manages their
// lifecycle.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/scrubdeck/scrubdeck/server/config"
	"github.com/scrubdeck/scrubdeck/server/protocols/http"
)

// Server is the main server managing all protocol servers. Today that is
// the HTTP API the dashboard talks to.
type Server struct {
	config     *config.Config
	logger     zerolog.Logger
	httpServer *http.Server
	ctx        context.Context
	cancel     context.CancelFunc
	startTime  time.Time
}

// New creates a new server instance.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	httpServer, err := http.NewServer(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create HTTP server: %w", err)
	}

	return &Server{
		config:     cfg,
		logger:     logger.With().Str("component", "server").Logger(),
		httpServer: httpServer,
		ctx:        ctx,
		cancel:     cancel,
		startTime:  time.Now(),
	}, nil
}

// Start starts all protocol servers.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info().Msg("Starting scrubdeck server...")

	if err := s.httpServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	s.logger.Info().
		Str("http_address", s.config.Server.Address).
		Int("http_port", s.config.Server.Port).
		Msg("All servers started")
	return nil
}

// Shutdown gracefully shuts down all servers.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server...")
	s.cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Stop(); err != nil {
			s.logger.Error().Err(err).Msg("Error stopping HTTP server")
		}
	}

	s.logger.Info().
		Dur("uptime", time.Since(s.startTime)).
		Msg("Server stopped")
	return nil
}
