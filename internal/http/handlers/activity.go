package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"crm/internal/activity"
	"crm/internal/domain"
	"crm/internal/metrics"
	"crm/internal/middleware"
	"crm/internal/sqlinline"
	"crm/pkg/zip"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 100
)

type activityEventRequest struct {
	EventType string `json:"event_type"`
}

// ActivityRecord stores one tracking signal for the calling staff user.
func (a *App) ActivityRecord(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req activityEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.EventType != activity.EventEnabled && req.EventType != activity.EventDisabled {
		a.error(w, http.StatusBadRequest, "bad_request", "event_type must be TRACKING_ENABLED or TRACKING_DISABLED")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertTrackingEvent, userID, req.EventType, a.Clock.Now().UTC())
	var eventID string
	if err := row.Scan(&eventID); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to record event")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": eventID})
}

// ActivityLogs returns aggregated per-user, per-day work sessions. Admin only.
func (a *App) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	role := domain.UserRole(middleware.UserRoleFromContext(r.Context()))
	if !role.IsAdmin() {
		a.error(w, http.StatusForbidden, "forbidden", "insufficient role")
		return
	}
	a.serveActivityLogs(w, r, r.URL.Query().Get("user_id"))
}

// ActivityLogsMe is the caller-identity variant of ActivityLogs.
func (a *App) ActivityLogsMe(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	a.serveActivityLogs(w, r, userID)
}

func (a *App) serveActivityLogs(w http.ResponseWriter, r *http.Request, userID string) {
	page, limit, err := parsePageParams(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	events, err := a.fetchTrackingEvents(r.Context(), userID, startDate, endDate)
	if err != nil {
		a.Logger.Error().Err(err).Msg("activity log query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to retrieve activity logs")
		return
	}

	records := a.aggregateEvents(events)
	a.json(w, http.StatusOK, activity.Paginate(records, page, limit))
}

// ActivityExport streams the full aggregated range as a zipped CSV. Admin only.
func (a *App) ActivityExport(w http.ResponseWriter, r *http.Request) {
	role := domain.UserRole(middleware.UserRoleFromContext(r.Context()))
	if !role.IsAdmin() {
		a.error(w, http.StatusForbidden, "forbidden", "insufficient role")
		return
	}
	startDate, endDate, err := parseDateRange(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	events, err := a.fetchTrackingEvents(r.Context(), r.URL.Query().Get("user_id"), startDate, endDate)
	if err != nil {
		a.Logger.Error().Err(err).Msg("activity export query failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to retrieve activity logs")
		return
	}

	records := a.aggregateEvents(events)

	csv := "date,user_name,user_email,total_duration_ms,session_count,is_active,first_enable,last_disable\n"
	for _, rec := range records {
		first, last := "", ""
		if rec.FirstEnable != nil {
			first = rec.FirstEnable.Format(time.RFC3339)
		}
		if rec.LastDisable != nil {
			last = rec.LastDisable.Format(time.RFC3339)
		}
		csv += fmt.Sprintf("%s,%q,%q,%d,%d,%t,%s,%s\n",
			rec.Date, rec.UserName, rec.UserEmail, rec.TotalDurationMS, rec.SessionCount, rec.Active, first, last)
	}

	archive := zip.ArchiveAssets([]zip.Asset{{
		Filename: "activity_logs.csv",
		MIME:     "text/csv",
		Data:     []byte(csv),
	}})

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="activity_logs.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) aggregateEvents(events []activity.Event) []activity.Record {
	metrics.ActivityEventsReplayed.Add(float64(len(events)))
	records, stats := activity.Aggregate(events, a.Clock)
	metrics.ActivityMalformedEvents.Add(float64(stats.Malformed))
	metrics.ActivityOrphanCloses.Add(float64(stats.Orphans))
	metrics.ActivityOrderingViolations.Add(float64(stats.OrderingViolations))
	if stats.Malformed > 0 || stats.OrderingViolations > 0 {
		a.Logger.Warn().
			Int("malformed", stats.Malformed).
			Int("orphans", stats.Orphans).
			Int("ordering_violations", stats.OrderingViolations).
			Msg("activity replay anomalies")
	}
	activity.Rank(records)
	return records
}

func (a *App) fetchTrackingEvents(ctx context.Context, userID, startDate, endDate string) ([]activity.Event, error) {
	rows, err := a.SQL.Query(ctx, sqlinline.QListTrackingEvents, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []activity.Event
	for rows.Next() {
		var ev activity.Event
		if err := rows.Scan(&ev.UserID, &ev.Type, &ev.Timestamp, &ev.UserName, &ev.UserEmail, &ev.UserRole); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func parsePageParams(r *http.Request) (page, limit int, err error) {
	page = 1
	limit = defaultLogLimit
	if v := r.URL.Query().Get("page"); v != "" {
		page, err = strconv.Atoi(v)
		if err != nil || page < 1 {
			return 0, 0, fmt.Errorf("page must be a positive integer")
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
		if limit > maxLogLimit {
			limit = maxLogLimit
		}
	}
	return page, limit, nil
}

func parseDateRange(r *http.Request) (startDate, endDate string, err error) {
	startDate = r.URL.Query().Get("start_date")
	endDate = r.URL.Query().Get("end_date")
	for _, d := range []string{startDate, endDate} {
		if d == "" {
			continue
		}
		if _, perr := time.Parse("2006-01-02", d); perr != nil {
			return "", "", fmt.Errorf("dates must use YYYY-MM-DD")
		}
	}
	return startDate, endDate, nil
}
