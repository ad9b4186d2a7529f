// Package http exposes the engine's ingestion/query/reset boundary as a
// small JSON API.
package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"glance/internal/analytics"
	"glance/internal/config"
	"glance/internal/events"
	"glance/internal/session"
	"glance/internal/timeframe"
)

// Server wires the fiber app, the event store, the session provider and the
// aggregation engine together.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	logger   *slog.Logger
	store    *events.Store
	engine   *analytics.Engine
	selector *timeframe.Selector
	sessions *session.Provider
}

// NewServer builds the API server around an initialized store.
func NewServer(cfg *config.Config, logger *slog.Logger, store *events.Store) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		engine:   analytics.NewEngine(store, logger),
		selector: timeframe.NewSelector(),
		sessions: session.NewProvider(time.Duration(cfg.GetSessionTimeout()) * time.Second),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsTest(),
	})
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.handleHealth)

	api := s.app.Group("/api/v1")
	api.Post("/events", s.handleRecordEvent)
	api.Get("/stats", s.handleStats)
	api.Delete("/events", s.handleReset)
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving on the configured port. Blocks until shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.cfg.AppPort)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
