// Package activity reconstructs staff work sessions from raw tracking
// events and aggregates them into per-user, per-day records.
package activity

import "time"

// Recognized tracking event types. Anything else is treated as malformed
// and skipped.
const (
	EventEnabled  = "TRACKING_ENABLED"
	EventDisabled = "TRACKING_DISABLED"
)

// Event is a raw tracking signal recorded for a staff user. The display
// fields are denormalized by the event query purely for output; the replay
// never reads them for its decisions.
type Event struct {
	UserID    string
	Type      string
	Timestamp time.Time
	UserName  string
	UserEmail string
	UserRole  string
}

// Session is a contiguous open-to-close interval. EndTime is nil while the
// session is still open.
type Session struct {
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time"`
	DurationMS int64      `json:"duration_ms"`
}

// Record is the per-(user, UTC day) aggregate. TotalDurationMS always equals
// the sum of the contained session durations, and SessionCount always equals
// len(Sessions).
type Record struct {
	UserID          string     `json:"user_id"`
	UserName        string     `json:"user_name"`
	UserEmail       string     `json:"user_email"`
	UserRole        string     `json:"user_role"`
	Date            string     `json:"date"`
	TotalDurationMS int64      `json:"total_duration_ms"`
	SessionCount    int        `json:"session_count"`
	Active          bool       `json:"is_active"`
	FirstEnable     *time.Time `json:"first_enable"`
	LastDisable     *time.Time `json:"last_disable"`
	Sessions        []Session  `json:"sessions"`
}

// Stats counts per-event anomalies observed during a replay. None of them
// abort the aggregation.
type Stats struct {
	Malformed          int
	Orphans            int
	OrderingViolations int
}
