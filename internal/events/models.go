package events

import "time"

// Fallback labels for client context that could not be classified.
const (
	OtherBrowser   = "Other"
	OtherOS        = "Other"
	OtherDevice    = "Other"
	UnknownCountry = "Unknown"
)

// DirectReferrer is the sentinel stored for traffic with no referring URL.
const DirectReferrer = "Direct"

// Event represents a single tracked page view.
// Events are immutable once appended: the store only appends new rows or
// evicts the oldest ones past the retention cap.
type Event struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"index;not null"`
	Path      string    `gorm:"index;not null"`
	SessionID string    `gorm:"index;size:64;not null"`
	Referrer  string
	Browser   string
	OS        string
	Device    string
	Country   string
	CreatedAt time.Time
}
