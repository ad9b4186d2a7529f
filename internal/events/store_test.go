package events_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glance/internal/events"
	"glance/internal/testsupport"
)

func TestAppendEnforcesRetentionCap(t *testing.T) {
	store := testsupport.NewTestStore(t, 5)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		store.Append(testsupport.PageView(base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("/page-%d", i), "s1"))

		// The cap invariant must hold after every single append.
		count, err := store.Count()
		require.NoError(t, err)
		assert.LessOrEqual(t, count, int64(5))
	}

	// The survivors are the most recently appended five.
	retained, err := store.Scan(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, retained, 5)

	paths := make([]string, len(retained))
	for i, e := range retained {
		paths[i] = e.Path
	}
	assert.Equal(t, []string{"/page-3", "/page-4", "/page-5", "/page-6", "/page-7"}, paths)
}

func TestScanHalfOpenInterval(t *testing.T) {
	store := testsupport.NewTestStore(t, 100)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	store.Append(testsupport.PageView(base.Add(-time.Second), "/before", "s1"))
	store.Append(testsupport.PageView(base, "/at-from", "s1"))
	store.Append(testsupport.PageView(base.Add(30*time.Minute), "/inside", "s2"))
	store.Append(testsupport.PageView(base.Add(time.Hour), "/at-to", "s2"))

	result, err := store.Scan(base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, result, 2)

	// from is inclusive, to is exclusive.
	assert.Equal(t, "/at-from", result[0].Path)
	assert.Equal(t, "/inside", result[1].Path)
}

func TestScanEmptyRange(t *testing.T) {
	store := testsupport.NewTestStore(t, 100)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	store.Append(testsupport.PageView(base, "/x", "s1"))

	result, err := store.Scan(base.Add(time.Hour), base.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestClearEmptiesTheLog(t *testing.T) {
	store := testsupport.NewTestStore(t, 100)
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		store.Append(testsupport.PageView(base.Add(time.Duration(i)*time.Minute), "/x", "s1"))
	}

	require.NoError(t, store.Clear())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	result, err := store.Scan(base.Add(-time.Hour), base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestDefaultRetentionCap(t *testing.T) {
	store := events.NewStore(testsupport.NewTestDB(t), testsupport.NewTestLogger(t), 0)
	assert.Equal(t, events.DefaultRetentionCap, store.RetentionCap())
}
