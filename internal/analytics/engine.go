package analytics

import (
	"fmt"
	"log/slog"
	"time"

	"glance/internal/events"
	"glance/internal/timeframe"
)

// Engine runs aggregation queries against the event store. A query is a
// pure function of (store contents, timeframe): it scans the range once and
// derives everything from that snapshot, so repeated calls without an
// intervening append or clear yield identical results.
type Engine struct {
	store  *events.Store
	logger *slog.Logger
}

// NewEngine creates an aggregation engine over a store.
func NewEngine(store *events.Store, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, logger: logger}
}

// Query computes the full aggregation result for a resolved timeframe.
// An empty range is not an error: scalars resolve to zero, the series is
// fully zero-filled and the breakdowns are empty.
func (e *Engine) Query(tf timeframe.Timeframe) (*Report, error) {
	if err := tf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timeframe: %w", err)
	}

	start := time.Now()
	evts, err := e.store.Scan(tf.From, tf.To)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}

	visits, bounced := sessionCounts(evts)

	report := &Report{
		PageViews:         len(evts),
		Visits:            visits,
		UniqueVisitors:    visits,
		BounceRatePercent: bounceRate(bounced, visits),
		Series:            buildSeries(evts, tf),

		TopPages: TopBreakdown(evts, TopPagesLimit, func(e events.Event) string {
			return e.Path
		}),
		TopBrowsers: TopBreakdown(evts, TopBrowsersLimit, func(e events.Event) string {
			return e.Browser
		}),
		TopOS: TopBreakdown(evts, TopOSLimit, func(e events.Event) string {
			return e.OS
		}),
		TopDevices: TopBreakdown(evts, TopDevicesLimit, func(e events.Event) string {
			return e.Device
		}),
		TopReferrers: TopBreakdown(evts, TopReferrersLimit, func(e events.Event) string {
			return ReferrerSource(e.Referrer)
		}),

		Countries: CountryRollup(evts),
	}

	e.logger.Debug("Computed aggregation report",
		slog.Int("page_views", report.PageViews),
		slog.Int("visits", report.Visits),
		slog.Duration("elapsed", time.Since(start)))

	return report, nil
}

// sessionCounts returns the number of distinct sessions and how many of
// them bounced (exactly one event inside the queried window).
func sessionCounts(evts []events.Event) (visits, bounced int) {
	perSession := make(map[string]int)
	for _, e := range evts {
		perSession[e.SessionID]++
	}

	for _, count := range perSession {
		if count == 1 {
			bounced++
		}
	}
	return len(perSession), bounced
}

// bounceRate is 100 * bounced/visits, 0 when there are no visits.
func bounceRate(bounced, visits int) float64 {
	if visits == 0 {
		return 0
	}
	return round1(100 * float64(bounced) / float64(visits))
}

// buildSeries divides [from, to) into the timeframe's bucket count of
// equal-width, half-open, contiguous slices and counts views and distinct
// sessions per slice. Empty slices stay in the series zero-filled so the
// chart gets a complete, contiguous curve. Labels come from each slice's
// midpoint.
func buildSeries(evts []events.Event, tf timeframe.Timeframe) []Bucket {
	width := tf.Span() / time.Duration(tf.Buckets)
	if width <= 0 {
		// Spans shorter than one nanosecond per bucket would truncate the
		// width to zero; clamp so the per-event index divide stays defined.
		width = 1
	}

	buckets := make([]Bucket, tf.Buckets)
	sessions := make([]map[string]struct{}, tf.Buckets)
	for i := range buckets {
		midpoint := tf.From.Add(width*time.Duration(i) + width/2)
		buckets[i].Label = tf.FormatLabel(midpoint)
		sessions[i] = make(map[string]struct{})
	}

	for _, e := range evts {
		idx := int(e.Timestamp.Sub(tf.From) / width)
		// Width truncation can push events in the final partial remainder
		// past the last slice; fold them into it so no view is lost.
		if idx >= tf.Buckets {
			idx = tf.Buckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		buckets[idx].Views++
		sessions[idx][e.SessionID] = struct{}{}
	}

	for i := range buckets {
		buckets[i].UniqueVisitors = len(sessions[i])
	}

	return buckets
}
