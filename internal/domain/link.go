package domain

import "time"

// TrackedLink is a short campaign link carrying UTM attribution. Visits to
// /r/{code} are recorded as clicks and redirect to the target URL.
type TrackedLink struct {
	ID          string
	Code        string
	TargetURL   string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	CreatedBy   string
	CreatedAt   time.Time
}

// LinkClick is one recorded visit to a tracked link.
type LinkClick struct {
	ID        string
	LinkID    string
	Country   string // ISO code resolved from the visitor IP, may be empty
	Referrer  string
	UserAgent string
	CreatedAt time.Time
}
