package events

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// DefaultRetentionCap is the maximum number of events retained when no
// explicit cap is configured.
const DefaultRetentionCap = 50000

// Store is the append-only page-view log. A single eviction policy applies:
// once the log grows past the retention cap the oldest entries are deleted,
// so the store always holds the most recently appended min(n, cap) events.
// There is no time-based expiry and no per-session cap.
type Store struct {
	db           *gorm.DB
	logger       *slog.Logger
	retentionCap int
}

// NewStore creates a store on top of an already-migrated database connection.
func NewStore(db *gorm.DB, logger *slog.Logger, retentionCap int) *Store {
	if retentionCap <= 0 {
		retentionCap = DefaultRetentionCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:           db,
		logger:       logger,
		retentionCap: retentionCap,
	}
}

// RetentionCap returns the configured maximum number of retained events.
func (s *Store) RetentionCap() int {
	return s.retentionCap
}

// Append adds one event to the end of the log and evicts the oldest entries
// if the log exceeds the retention cap. The insert and the eviction run in
// the same transaction so the cap invariant holds after every call.
//
// Append never surfaces storage errors: analytics loss is non-fatal, a
// failed write is logged and the event is dropped.
func (s *Store) Append(e Event) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&e).Error; err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		var count int64
		if err := tx.Model(&Event{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count events: %w", err)
		}

		excess := count - int64(s.retentionCap)
		if excess <= 0 {
			return nil
		}

		// Oldest first by stored timestamp, id as the tie-break so eviction
		// order is stable for events sharing a timestamp.
		err := tx.Exec(`
			DELETE FROM events WHERE id IN (
				SELECT id FROM events ORDER BY timestamp ASC, id ASC LIMIT ?
			)
		`, excess).Error
		if err != nil {
			return fmt.Errorf("evict oldest events: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("Dropped event on failed append",
			slog.String("path", e.Path),
			slog.Any("error", err))
	}
}

// Scan returns every stored event with from <= timestamp < to as a
// point-in-time snapshot. The result is in storage order; callers must not
// depend on ordering beyond the timestamp filter. A query over the snapshot
// may miss an event appended microseconds earlier, which is acceptable for
// analytics.
func (s *Store) Scan(from, to time.Time) ([]Event, error) {
	var result []Event
	err := s.db.
		Where("timestamp >= ? AND timestamp < ?", from.UTC(), to.UTC()).
		Order("id ASC").
		Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("scan events in [%s, %s): %w", from, to, err)
	}
	return result, nil
}

// Clear empties the log entirely. Used by the explicit analytics reset.
func (s *Store) Clear() error {
	if err := s.db.Exec(`DELETE FROM events`).Error; err != nil {
		return fmt.Errorf("clear event store: %w", err)
	}
	return nil
}

// Count returns the number of currently retained events.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&Event{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}
