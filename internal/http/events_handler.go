package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"glance/internal/events"
	"glance/internal/session"
)

const (
	msgEventAccepted  = "Event accepted"
	errInvalidRequest = "Invalid request"
)

// RecordEventParams is the ingestion payload. Only path is required; a
// missing timestamp defaults to the server clock and a missing sessionId is
// filled in by the server-held session provider. An explicit sessionId wins
// so SDKs can manage their own session scope.
type RecordEventParams struct {
	Path      string    `json:"path"`
	Referrer  string    `json:"referrer"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"sessionId"`
	UserAgent string    `json:"userAgent"`
	TimeZone  string    `json:"timeZone"`
}

// handleRecordEvent implements the recordPageView ingestion call. Storage
// failures are swallowed: analytics loss is non-fatal and the caller never
// sees an error for a well-formed request.
func (s *Server) handleRecordEvent(c *fiber.Ctx) error {
	var params RecordEventParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": errInvalidRequest})
	}
	if params.Path == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = c.Get("User-Agent")
	}

	identity := s.sessions.Identify(c.IP()+"|"+userAgent, session.ClientInfo{
		UserAgent: userAgent,
		TimeZone:  params.TimeZone,
	})
	if params.SessionID != "" {
		identity.ID = params.SessionID
	}

	timestamp := params.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	s.store.Append(events.Event{
		Timestamp: timestamp.UTC(),
		Path:      params.Path,
		SessionID: identity.ID,
		Referrer:  params.Referrer,
		Browser:   identity.Browser,
		OS:        identity.OS,
		Device:    identity.Device,
		Country:   identity.Country,
	})

	s.logger.Debug("Recorded page view",
		slog.String("path", params.Path),
		slog.String("session", identity.ID))

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"message": msgEventAccepted,
		"status":  http.StatusAccepted,
	})
}

// handleReset implements the explicit destructive analytics reset.
func (s *Server) handleReset(c *fiber.Ctx) error {
	if err := s.store.Clear(); err != nil {
		s.logger.Error("Failed to reset analytics", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to reset analytics",
		})
	}

	s.logger.Info("Analytics store cleared")
	return c.JSON(fiber.Map{"message": "Analytics reset"})
}
