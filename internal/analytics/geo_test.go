package analytics_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glance/internal/analytics"
	"glance/internal/events"
	"glance/internal/testsupport"
)

func viewFrom(country, sessionID string) events.Event {
	e := testsupport.PageView(time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC), "/page", sessionID)
	e.Country = country
	return e
}

func TestCountryRollup(t *testing.T) {
	evts := []events.Event{
		viewFrom("France", "s-1"),
		viewFrom("France", "s-1"),
		viewFrom("France", "s-2"),
		viewFrom("Japan", "s-3"),
		viewFrom("", "s-4"),
	}

	rollup := analytics.CountryRollup(evts)

	require.Len(t, rollup, 3)
	assert.Equal(t, analytics.CountryCount{Name: "France", Views: 3, Visitors: 2}, rollup[0])
	assert.Equal(t, analytics.CountryCount{Name: "Japan", Views: 1, Visitors: 1}, rollup[1])
	assert.Equal(t, analytics.CountryCount{Name: "Unknown", Views: 1, Visitors: 1}, rollup[2])
}

func TestCountryRollupIsNeverTruncated(t *testing.T) {
	var evts []events.Event
	for i := 0; i < 40; i++ {
		evts = append(evts, viewFrom("Country-"+strconv.Itoa(i), "s-1"))
	}

	rollup := analytics.CountryRollup(evts)
	assert.Len(t, rollup, 40)
}

func TestCountryRollupTiesKeepFirstSeenOrder(t *testing.T) {
	evts := []events.Event{
		viewFrom("Norway", "s-1"),
		viewFrom("Chile", "s-2"),
	}

	for i := 0; i < 20; i++ {
		rollup := analytics.CountryRollup(evts)
		require.Len(t, rollup, 2)
		assert.Equal(t, "Norway", rollup[0].Name)
		assert.Equal(t, "Chile", rollup[1].Name)
	}
}

func TestCountryRollupEmptyInput(t *testing.T) {
	assert.Empty(t, analytics.CountryRollup(nil))
}
