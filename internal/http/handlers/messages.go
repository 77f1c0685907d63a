package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"crm/internal/domain/jsoncfg"
	"crm/internal/middleware"
	"crm/internal/sqlinline"
)

type messageRequest struct {
	ApplicantID string `json:"applicant_id"`
	Channel     string `json:"channel"`
	Recipient   string `json:"recipient"`
	Subject     string `json:"subject"`
	Body        string `json:"body"`
}

// MessagesCreate enqueues an outbox message; the worker dispatches it.
func (a *App) MessagesCreate(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ApplicantID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "applicant_id required")
		return
	}

	locale := ""
	if v, ok := r.Context().Value(middleware.LocaleKey).(string); ok {
		locale = v
	}
	payload := jsoncfg.MessageJSON{
		Channel:   req.Channel,
		Recipient: req.Recipient,
		Subject:   req.Subject,
		Body:      req.Body,
	}
	payload.Normalize(locale)
	if err := payload.Validate(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	props, err := json.Marshal(payload)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to encode message")
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertMessage,
		req.ApplicantID, payload.Channel, payload.Recipient, payload.Subject, payload.Body, props)
	var id string
	if err := row.Scan(&id); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to enqueue message")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id, "status": "queued"})
}

func (a *App) MessagesList(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListMessages, r.URL.Query().Get("status"), 100)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load messages")
		return
	}
	defer rows.Close()

	items := []map[string]any{}
	for rows.Next() {
		var id, applicantID, channel, recipient, subject, body, status, lastError string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &applicantID, &channel, &recipient, &subject, &body, &status, &lastError, &createdAt, &updatedAt); err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load messages")
			return
		}
		items = append(items, map[string]any{
			"id":           id,
			"applicant_id": applicantID,
			"channel":      channel,
			"recipient":    recipient,
			"subject":      subject,
			"body":         body,
			"status":       status,
			"last_error":   lastError,
			"created_at":   createdAt,
			"updated_at":   updatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}
