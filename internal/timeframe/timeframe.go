// Package timeframe resolves user-selected time ranges into concrete
// [from, to) bounds plus a bucketing scheme for the aggregation engine.
package timeframe

import (
	"fmt"
	"time"
)

// Granularity selects the label format for series buckets.
type Granularity string

const (
	// GranularityMinute labels buckets with a time of day.
	GranularityMinute Granularity = "minute"
	// GranularityDay labels buckets with a calendar date.
	GranularityDay Granularity = "day"
)

// Label formats per granularity.
const (
	minuteLabelFormat = "15:04"
	dayLabelFormat    = "Jan 2"
)

// TimeProvider abstracts the clock so preset resolution is testable.
type TimeProvider interface {
	Now() time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

// Now returns the current UTC time.
func (p *DefaultTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Timeframe is a fully resolved query range: half-open [From, To), a fixed
// bucket count and the label granularity. It is created per query and never
// persisted.
type Timeframe struct {
	From        time.Time
	To          time.Time
	Buckets     int
	Granularity Granularity
}

// Validate checks the resolved range is usable by the aggregation engine.
func (tf Timeframe) Validate() error {
	if !tf.To.After(tf.From) {
		return fmt.Errorf("to (%s) must be after from (%s)", tf.To, tf.From)
	}
	if tf.Buckets <= 0 {
		return fmt.Errorf("bucket count must be positive, got %d", tf.Buckets)
	}
	return nil
}

// Span returns the total duration covered by the timeframe.
func (tf Timeframe) Span() time.Duration {
	return tf.To.Sub(tf.From)
}

// FormatLabel renders a bucket label for an instant inside the range.
func (tf Timeframe) FormatLabel(t time.Time) string {
	if tf.Granularity == GranularityDay {
		return t.Format(dayLabelFormat)
	}
	return t.Format(minuteLabelFormat)
}

// Preset is a named, relative timeframe choice from the catalog.
type Preset struct {
	Key         string
	Name        string
	Duration    time.Duration
	Buckets     int
	Granularity Granularity
}

// Preset catalog keys.
const (
	PresetLastHour  = "last_hour"
	PresetLastDay   = "last_day"
	PresetLastWeek  = "last_week"
	PresetLastMonth = "last_month"
)

// Presets is the fixed catalog of named timeframe presets, in display order.
var Presets = []Preset{
	{Key: PresetLastHour, Name: "Last hour", Duration: time.Hour, Buckets: 12, Granularity: GranularityMinute},
	{Key: PresetLastDay, Name: "Last 24 hours", Duration: 24 * time.Hour, Buckets: 24, Granularity: GranularityMinute},
	{Key: PresetLastWeek, Name: "Last 7 days", Duration: 7 * 24 * time.Hour, Buckets: 7, Granularity: GranularityDay},
	{Key: PresetLastMonth, Name: "Last 30 days", Duration: 30 * 24 * time.Hour, Buckets: 15, Granularity: GranularityDay},
}

// PresetByKey looks up a catalog entry.
func PresetByKey(key string) (Preset, bool) {
	for _, p := range Presets {
		if p.Key == key {
			return p, true
		}
	}
	return Preset{}, false
}

// FromPreset resolves a preset against a concrete "now": to = now,
// from = now - duration.
func FromPreset(p Preset, now time.Time) Timeframe {
	return Timeframe{
		From:        now.Add(-p.Duration),
		To:          now,
		Buckets:     p.Buckets,
		Granularity: p.Granularity,
	}
}

// Custom resolves an explicit [from, to) pair, valid only if to > from.
// Bucket count and granularity come from the span heuristic: spans up to
// two hours get 12 buckets, spans up to a day get 24, anything longer 15;
// labels are time-of-day up to a day, calendar dates beyond. The heuristic
// trades boundary precision for readability on a chart.
func Custom(from, to time.Time) (Timeframe, error) {
	if !to.After(from) {
		return Timeframe{}, fmt.Errorf("invalid custom range: to (%s) must be after from (%s)", to, from)
	}

	span := to.Sub(from)
	return Timeframe{
		From:        from,
		To:          to,
		Buckets:     BucketsForSpan(span),
		Granularity: GranularityForSpan(span),
	}, nil
}

// BucketsForSpan returns the bucket count heuristic for a custom span.
func BucketsForSpan(span time.Duration) int {
	switch {
	case span <= 120*time.Minute:
		return 12
	case span <= 24*time.Hour:
		return 24
	default:
		return 15
	}
}

// GranularityForSpan returns time-of-day labels for intraday spans and
// calendar dates beyond.
func GranularityForSpan(span time.Duration) Granularity {
	if span <= 24*time.Hour {
		return GranularityMinute
	}
	return GranularityDay
}
