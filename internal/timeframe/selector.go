package timeframe

import (
	"fmt"
	"sync"
	"time"
)

// Selector tracks the active timeframe selection for one dashboard
// consumer. Invalid selections are rejected without touching the active
// frame, so a query always runs against the last valid choice.
type Selector struct {
	mu           sync.Mutex
	timeProvider TimeProvider
	active       Timeframe
	activeKey    string
}

// NewSelector creates a selector with last_day active, resolved against the
// given time provider (system clock when none is supplied).
func NewSelector(timeProvider ...TimeProvider) *Selector {
	var provider TimeProvider = &DefaultTimeProvider{}
	if len(timeProvider) > 0 && timeProvider[0] != nil {
		provider = timeProvider[0]
	}

	s := &Selector{timeProvider: provider}
	preset, _ := PresetByKey(PresetLastDay)
	s.active = FromPreset(preset, provider.Now())
	s.activeKey = preset.Key
	return s
}

// SelectPreset resolves a catalog preset against the current clock and makes
// it the active selection.
func (s *Selector) SelectPreset(key string) (Timeframe, error) {
	preset, ok := PresetByKey(key)
	if !ok {
		return s.Active(), fmt.Errorf("unknown timeframe preset: %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = FromPreset(preset, s.timeProvider.Now())
	s.activeKey = preset.Key
	return s.active, nil
}

// SelectCustom makes an explicit [from, to) range the active selection.
// An inverted or empty range is rejected and the previous selection stays
// active.
func (s *Selector) SelectCustom(from, to time.Time) (Timeframe, error) {
	tf, err := Custom(from, to)
	if err != nil {
		return s.Active(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = tf
	s.activeKey = "custom"
	return s.active, nil
}

// Refresh re-resolves the active selection: presets slide with the clock,
// custom ranges are fixed and returned unchanged. Hosts call this on their
// polling tick before re-running the query.
func (s *Selector) Refresh() Timeframe {
	s.mu.Lock()
	defer s.mu.Unlock()

	if preset, ok := PresetByKey(s.activeKey); ok {
		s.active = FromPreset(preset, s.timeProvider.Now())
	}
	return s.active
}

// Active returns the current valid selection.
func (s *Selector) Active() Timeframe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// ActiveKey returns the catalog key of the active selection, or "custom".
func (s *Selector) ActiveKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeKey
}
