package activity

import "time"

const dayFormat = "2006-01-02"

type bucketKey struct {
	userID string
	day    string
}

type openSession struct {
	start time.Time
	day   string
}

// Aggregate replays an ordered event list once and returns one Record per
// (user, UTC day) touched by a session, plus anomaly counters.
//
// Precondition: events must be grouped by user ID and sorted ascending by
// timestamp within each user's group. The replay does not re-sort; a
// violation is counted in Stats.OrderingViolations and the output for the
// affected user is best-effort.
//
// A session left open when its user's events move to a later day is closed
// virtually at 23:59:59.999 of its own day (or at clock.Now() when that day
// is today, which also marks the record active). A Disabled event on the
// later day then finds no open session and is dropped as an orphan; the
// actual close time is lost. That is the historical cross-midnight behavior
// and is kept as is.
func Aggregate(events []Event, clock Clock) ([]Record, Stats) {
	now := clock.Now().UTC()
	today := now.Format(dayFormat)

	buckets := make(map[bucketKey]*Record)
	open := make(map[string]openSession)
	lastSeen := make(map[string]time.Time)
	var order []bucketKey
	var stats Stats

	for _, ev := range events {
		if ev.Type != EventEnabled && ev.Type != EventDisabled {
			stats.Malformed++
			continue
		}
		if ev.Timestamp.IsZero() {
			stats.Malformed++
			continue
		}

		ts := ev.Timestamp.UTC()
		if prev, ok := lastSeen[ev.UserID]; ok && ts.Before(prev) {
			stats.OrderingViolations++
		}
		lastSeen[ev.UserID] = ts
		day := ts.Format(dayFormat)

		// The user's events moved to a new day: finalize the session
		// still open on the previous day before touching this event.
		if os, ok := open[ev.UserID]; ok && os.day != day {
			closeVirtually(buckets[bucketKey{ev.UserID, os.day}], os, now, today)
			delete(open, ev.UserID)
		}

		switch ev.Type {
		case EventEnabled:
			if _, ok := open[ev.UserID]; ok {
				// Duplicate enable: the session keeps its original start.
				continue
			}
			b := ensureBucket(buckets, &order, ev, day)
			b.SessionCount++
			if b.FirstEnable == nil {
				t := ts
				b.FirstEnable = &t
			}
			open[ev.UserID] = openSession{start: ts, day: day}

		case EventDisabled:
			os, ok := open[ev.UserID]
			if !ok {
				stats.Orphans++
				continue
			}
			b := ensureBucket(buckets, &order, ev, day)
			end := ts
			dur := end.Sub(os.start).Milliseconds()
			if dur < 0 {
				dur = 0
			}
			b.Sessions = append(b.Sessions, Session{StartTime: os.start, EndTime: &end, DurationMS: dur})
			b.TotalDurationMS += dur
			b.LastDisable = &end
			delete(open, ev.UserID)
		}
	}

	// End of input: finalize whatever is still open.
	for userID, os := range open {
		closeVirtually(buckets[bucketKey{userID, os.day}], os, now, today)
	}

	records := make([]Record, 0, len(order))
	for _, key := range order {
		records = append(records, *buckets[key])
	}
	return records, stats
}

func ensureBucket(buckets map[bucketKey]*Record, order *[]bucketKey, ev Event, day string) *Record {
	key := bucketKey{ev.UserID, day}
	if b, ok := buckets[key]; ok {
		return b
	}
	b := &Record{
		UserID:    ev.UserID,
		UserName:  ev.UserName,
		UserEmail: ev.UserEmail,
		UserRole:  ev.UserRole,
		Date:      day,
		Sessions:  []Session{},
	}
	buckets[key] = b
	*order = append(*order, key)
	return b
}

// closeVirtually synthesizes a session end for a bucket left with an open
// session: clock "now" when the bucket is today's (which marks it active),
// otherwise the last millisecond of the bucket's day.
func closeVirtually(b *Record, os openSession, now time.Time, today string) {
	if b == nil {
		return
	}
	end := endOfDay(os.day)
	if os.day == today {
		end = now
		b.Active = true
	}
	dur := end.Sub(os.start).Milliseconds()
	if dur < 0 {
		dur = 0
	}
	e := end
	b.Sessions = append(b.Sessions, Session{StartTime: os.start, EndTime: &e, DurationMS: dur})
	b.TotalDurationMS += dur
}

func endOfDay(day string) time.Time {
	t, _ := time.ParseInLocation(dayFormat, day, time.UTC)
	return t.Add(24*time.Hour - time.Millisecond)
}
