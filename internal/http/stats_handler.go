package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// handleStats implements the query call. Selections: ?range=<preset key>
// picks from the catalog, ?range=custom&from=&to= (RFC 3339) resolves an
// explicit pair. With no parameters the active selection is refreshed and
// re-queried, which is how polling consumers re-run the current view.
//
// An invalid selection is a 400 and leaves the active timeframe untouched.
// Zero matched events is a normal 200 with a zero-valued report, so
// consumers can tell "no data" apart from a failed query.
func (s *Server) handleStats(c *fiber.Ctx) error {
	rangeKey := c.Query("range")

	var err error
	switch {
	case rangeKey == "":
		s.selector.Refresh()
	case rangeKey == "custom":
		var from, to time.Time
		from, to, err = parseCustomBounds(c.Query("from"), c.Query("to"))
		if err == nil {
			_, err = s.selector.SelectCustom(from, to)
		}
	default:
		_, err = s.selector.SelectPreset(rangeKey)
	}
	if err != nil {
		s.logger.Debug("Rejected timeframe selection",
			slog.String("range", rangeKey),
			slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	report, err := s.engine.Query(s.selector.Active())
	if err != nil {
		s.logger.Error("Query failed", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to compute statistics",
		})
	}

	return c.JSON(report)
}

func parseCustomBounds(fromStr, toStr string) (time.Time, time.Time, error) {
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := time.Parse(time.RFC3339, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
