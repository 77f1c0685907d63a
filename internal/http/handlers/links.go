package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"crm/internal/domain"
	"crm/internal/metrics"
	"crm/internal/middleware"
	"crm/internal/sqlinline"
)

type linkRequest struct {
	TargetURL   string `json:"target_url"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
}

// LinksCreate mints a short tracked link for a campaign landing page.
func (a *App) LinksCreate(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	target, err := url.ParseRequestURI(strings.TrimSpace(req.TargetURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		a.error(w, http.StatusBadRequest, "bad_request", "target_url must be an absolute http(s) URL")
		return
	}

	code := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertLink,
		code, target.String(), req.UTMSource, req.UTMMedium, req.UTMCampaign, a.currentUserID(r))
	var id string
	if err := row.Scan(&id); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create link")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":        id,
		"code":      code,
		"short_url": strings.TrimRight(a.PublicBaseURL, "/") + "/r/" + code,
	})
}

func (a *App) LinksList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListLinks, 100)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load links")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var link domain.TrackedLink
		var clicks int64
		if err := rows.Scan(&link.ID, &link.Code, &link.TargetURL, &link.UTMSource, &link.UTMMedium, &link.UTMCampaign, &link.CreatedAt, &clicks); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load links")
			return
		}
		items = append(items, map[string]any{
			"id":           link.ID,
			"code":         link.Code,
			"target_url":   link.TargetURL,
			"utm_source":   link.UTMSource,
			"utm_medium":   link.UTMMedium,
			"utm_campaign": link.UTMCampaign,
			"created_at":   link.CreatedAt,
			"clicks":       clicks,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// LinksStats returns per-day, per-country click counts for one link.
func (a *App) LinksStats(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "id")
	rows, err := a.SQL.Query(r.Context(), sqlinline.QLinkStatsByDay, linkID)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load link stats")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var day time.Time
		var country string
		var count int64
		if err := rows.Scan(&day, &country, &count); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load link stats")
			return
		}
		items = append(items, map[string]any{
			"day":     day.Format("2006-01-02"),
			"country": country,
			"clicks":  count,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// LinkRedirect resolves a short code, records the click and forwards the
// visitor to the target URL with the stored UTM parameters appended.
func (a *App) LinkRedirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectLinkByCode, code)
	var link domain.TrackedLink
	if err := row.Scan(&link.ID, &link.Code, &link.TargetURL, &link.UTMSource, &link.UTMMedium, &link.UTMCampaign); err != nil {
		http.NotFound(w, r)
		return
	}

	country := ""
	if a.Geo != nil {
		if ip := middleware.ClientIP(r); ip != "" {
			if c, err := a.Geo.CountryCode(ip); err == nil {
				country = c
			}
		}
	}
	if country == "" {
		country = middleware.ResolveCountry(r, nil)
	}

	click := domain.LinkClick{
		LinkID:    link.ID,
		Country:   country,
		Referrer:  r.Referer(),
		UserAgent: r.UserAgent(),
	}
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QInsertLinkClick,
		click.LinkID, click.Country, click.Referrer, click.UserAgent); err != nil {
		a.Logger.Warn().Err(err).Str("code", link.Code).Msg("record click failed")
	}
	label := click.Country
	if label == "" {
		label = "unknown"
	}
	metrics.LinkClicks.WithLabelValues(label).Inc()

	dest, err := url.Parse(link.TargetURL)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	q := dest.Query()
	if link.UTMSource != "" {
		q.Set("utm_source", link.UTMSource)
	}
	if link.UTMMedium != "" {
		q.Set("utm_medium", link.UTMMedium)
	}
	if link.UTMCampaign != "" {
		q.Set("utm_campaign", link.UTMCampaign)
	}
	dest.RawQuery = q.Encode()
	http.Redirect(w, r, dest.String(), http.StatusFound)
}
