// Package seeder generates plausible demo traffic for development and the
// glancectl seed command.
package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"glance/internal/events"
	"glance/internal/session"
)

// Seeder handles the demo-data seeding process.
type Seeder struct {
	Store      *events.Store
	Logger     *slog.Logger
	EventCount int
}

// NewSeeder creates a new seeder instance.
func NewSeeder(store *events.Store, logger *slog.Logger, eventCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	if eventCount <= 0 {
		eventCount = 1000
	}
	return &Seeder{
		Store:      store,
		Logger:     logger,
		EventCount: eventCount,
	}
}

var seedPaths = []string{
	"/", "/products", "/products/lamps", "/products/chairs", "/about",
	"/blog", "/blog/launch", "/pricing", "/contact", "/checkout",
}

var seedReferrers = []string{
	"", "", "", // most traffic is direct
	"https://www.google.com/search?q=demo",
	"https://t.co/abc123",
	"https://github.com/someone/project",
	"https://www.reddit.com/r/webdev",
	"https://news.ycombinator.com/item?id=1",
	"https://www.youtube.com/watch?v=xyz",
}

var seedUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36 Edg/126.0.0.0",
}

var seedZones = []string{
	"America/New_York", "America/Los_Angeles", "Europe/Paris", "Europe/Berlin",
	"Europe/London", "Asia/Tokyo", "Australia/Sydney", "America/Sao_Paulo", "",
}

// Seed generates EventCount page views spread over the last 30 days,
// grouped into small per-visitor sessions so bounce and visit metrics look
// realistic.
func (s *Seeder) Seed(ctx context.Context) error {
	start := time.Now()
	s.Logger.Info("Seeding demo traffic", slog.Int("eventCount", s.EventCount))

	now := time.Now().UTC()
	generated := 0

	for generated < s.EventCount {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// One browsing session: 1-5 page views a minute or so apart.
		sessionID := uuid.NewString()
		userAgent := seedUserAgents[rand.IntN(len(seedUserAgents))]
		browser, os, device := session.ClassifyUserAgent(userAgent)
		country := session.CountryFromZone(seedZones[rand.IntN(len(seedZones))])
		referrer := seedReferrers[rand.IntN(len(seedReferrers))]

		sessionStart := now.Add(-time.Duration(rand.IntN(30*24*60)) * time.Minute)
		pageViews := 1 + rand.IntN(5)

		for i := 0; i < pageViews && generated < s.EventCount; i++ {
			s.Store.Append(events.Event{
				Timestamp: sessionStart.Add(time.Duration(i) * time.Duration(30+rand.IntN(90)) * time.Second),
				Path:      seedPaths[rand.IntN(len(seedPaths))],
				SessionID: sessionID,
				Referrer:  referrer,
				Browser:   browser,
				OS:        os,
				Device:    device,
				Country:   country,
			})
			generated++
		}
	}

	count, err := s.Store.Count()
	if err != nil {
		return fmt.Errorf("count seeded events: %w", err)
	}

	s.Logger.Info("Seeding completed",
		slog.Int("generated", generated),
		slog.Int64("retained", count),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}
