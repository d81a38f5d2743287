// Package http serves the dashboard API over HTTP. The core stays a plain
// library; this layer only translates requests into session operations and
// session results into JSON (or CSV, for export).
package http

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/scrubdeck/scrubdeck/pkg/errors"
	"github.com/scrubdeck/scrubdeck/server/config"
	"github.com/scrubdeck/scrubdeck/session"
)

// Server is the HTTP protocol server. It owns the active session; the
// session model is single-user, so a mutex serializing handler access to
// it is all the coordination needed.
type Server struct {
	cfg    *config.Config
	logger zerolog.Logger
	app    *fiber.App

	mu   sync.Mutex
	sess *session.Session

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a new HTTP server instance with a fresh session.
func NewServer(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:    cfg,
		logger: logger.With().Str("component", "http-server").Logger(),
		ctx:    ctx,
		cancel: cancel,
	}
	s.sess = session.New(logger)
	s.sess.SetKeyColumn(cfg.Data.KeyColumn)

	app := fiber.New(fiber.Config{
		AppName:               "scrubdeck",
		DisableStartupMessage: true,
	})

	app.Get("/health", s.handleHealth)
	app.Get("/status", s.handleStatus)

	api := app.Group("/api")
	api.Post("/upload", s.handleUpload)
	api.Get("/metrics", s.handleMetrics)
	api.Get("/charts/missing", s.handleMissingChart)
	api.Get("/charts/case", s.handleCaseChart)
	api.Post("/mode", s.handleMode)
	api.Post("/filter", s.handleFilter)
	api.Post("/edits", s.handleEdits)
	api.Get("/history", s.handleHistory)
	api.Get("/export", s.handleExport)
	api.Post("/reset", s.handleReset)

	s.app = app
	return s, nil
}

// Start binds the listen address and starts serving. Bind failures are
// returned here; errors after that are logged from the serve goroutine.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Address, s.cfg.Server.Port)
	s.logger.Info().Str("address", addr).Msg("Starting HTTP server")

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(ErrStartFailed, err, "failed to listen on %s", addr)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.app.Listener(ln); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	s.logger.Info().Msg("HTTP server started successfully")
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop() error {
	s.logger.Info().Msg("Stopping HTTP server")
	s.cancel()

	if err := s.app.ShutdownWithTimeout(30 * time.Second); err != nil {
		s.logger.Error().Err(err).Msg("Error during HTTP server shutdown")
	}
	s.wg.Wait()

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// App exposes the underlying fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// fail maps a core error to an HTTP status by its code.
func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch errors.GetCode(err) {
	case session.ErrNotLoaded:
		status = fiber.StatusConflict
	case session.ErrModeConflict, session.ErrInvalidFilter, session.ErrUnknownColumn,
		session.ErrLoadFailed, ErrMissingUpload, ErrBadRequestBody:
		status = fiber.StatusBadRequest
	}
	s.logger.Error().Err(err).Int("status", status).Msg("Request failed")
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"code":   errors.GetCode(err).String(),
		"error":  err.Error(),
	})
}
