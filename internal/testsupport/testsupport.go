// Package testsupport provides shared test helpers: a throwaway sqlite
// database per test and event fixture builders.
package testsupport

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"glance/internal/events"
)

// NewTestDB opens a migrated sqlite database in the test's temp directory.
// The file is removed with the temp dir when the test finishes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "glance-test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open test database")

	require.NoError(t, db.AutoMigrate(&events.Event{}), "migrate test database")
	return db
}

// NewTestLogger returns a logger that discards output.
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestStore builds a store over a fresh test database.
func NewTestStore(t *testing.T, retentionCap int) *events.Store {
	t.Helper()
	return events.NewStore(NewTestDB(t), NewTestLogger(t), retentionCap)
}

// PageView builds an event fixture with sensible defaults for fields the
// test does not care about.
func PageView(ts time.Time, path, sessionID string) events.Event {
	return events.Event{
		Timestamp: ts,
		Path:      path,
		SessionID: sessionID,
		Referrer:  events.DirectReferrer,
		Browser:   "Chrome",
		OS:        "Windows",
		Device:    "Desktop",
		Country:   "United States",
	}
}
