package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glance/internal/analytics"
	"glance/internal/events"
	"glance/internal/testsupport"
)

func pagePath(e events.Event) string {
	return e.Path
}

func viewsOf(paths ...string) []events.Event {
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	evts := make([]events.Event, len(paths))
	for i, p := range paths {
		evts[i] = testsupport.PageView(ts, p, "s-1")
	}
	return evts
}

func TestTopBreakdownRanksByCount(t *testing.T) {
	evts := viewsOf("/b", "/a", "/a", "/c", "/a", "/b")

	top := analytics.TopBreakdown(evts, 7, pagePath)

	require.Len(t, top, 3)
	assert.Equal(t, analytics.MetricCount{Label: "/a", Count: 3, Percentage: 50.0}, top[0])
	assert.Equal(t, analytics.MetricCount{Label: "/b", Count: 2, Percentage: 33.3}, top[1])
	assert.Equal(t, analytics.MetricCount{Label: "/c", Count: 1, Percentage: 16.7}, top[2])
}

func TestTopBreakdownTiesKeepFirstSeenOrder(t *testing.T) {
	// /zebra appears before /apple in the event stream; equal counts must
	// not reorder them, on any run.
	evts := viewsOf("/zebra", "/apple", "/zebra", "/apple")

	for i := 0; i < 20; i++ {
		top := analytics.TopBreakdown(evts, 7, pagePath)
		require.Len(t, top, 2)
		assert.Equal(t, "/zebra", top[0].Label)
		assert.Equal(t, "/apple", top[1].Label)
	}
}

func TestTopBreakdownTruncatesToLimit(t *testing.T) {
	evts := viewsOf("/a", "/b", "/c", "/d", "/e")

	top := analytics.TopBreakdown(evts, 3, pagePath)

	require.Len(t, top, 3)
	assert.Equal(t, "/a", top[0].Label)
	assert.Equal(t, "/b", top[1].Label)
	assert.Equal(t, "/c", top[2].Label)
}

func TestTopBreakdownPercentagesAgainstFullTotal(t *testing.T) {
	// 3 events: truncation to the top entry must not renormalize its share.
	evts := viewsOf("/a", "/a", "/b")

	top := analytics.TopBreakdown(evts, 1, pagePath)

	require.Len(t, top, 1)
	assert.Equal(t, 66.7, top[0].Percentage)
}

func TestTopBreakdownSkipsEmptyLabels(t *testing.T) {
	evts := viewsOf("/a", "", "/a")

	top := analytics.TopBreakdown(evts, 7, pagePath)

	require.Len(t, top, 1)
	assert.Equal(t, "/a", top[0].Label)
	assert.Equal(t, 2, top[0].Count)
	// The blank event still counts toward the total.
	assert.Equal(t, 66.7, top[0].Percentage)
}

func TestTopBreakdownEmptyInput(t *testing.T) {
	assert.Empty(t, analytics.TopBreakdown(nil, 7, pagePath))
}
