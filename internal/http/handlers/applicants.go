package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"crm/internal/domain"
	"crm/internal/sqlinline"
)

type applicantRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Program  string `json:"program"`
	Stage    string `json:"stage"`
	Source   string `json:"source"`
}

type applicantDTO struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Program   string    `json:"program"`
	Stage     string    `json:"stage"`
	OwnerID   string    `json:"owner_id,omitempty"`
	Source    string    `json:"source,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *App) ApplicantsCreate(w http.ResponseWriter, r *http.Request) {
	var req applicantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.FullName == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "full_name and email are required")
		return
	}
	if req.Stage == "" {
		req.Stage = string(domain.StageInquiry)
	}
	if !domain.ValidStage(domain.ApplicantStage(req.Stage)) {
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrInvalidStage.Error())
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertApplicant,
		req.FullName, req.Email, req.Phone, req.Program, req.Stage, a.currentUserID(r), req.Source)
	var id string
	var createdAt time.Time
	if err := row.Scan(&id, &createdAt); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to create applicant")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"id": id, "created_at": createdAt})
}

func (a *App) ApplicantsGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectApplicantByID, id)
	applicant, err := scanApplicant(row.Scan)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "applicant not found")
		return
	}
	a.json(w, http.StatusOK, toApplicantDTO(applicant))
}

func (a *App) ApplicantsUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req applicantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Stage != "" && !domain.ValidStage(domain.ApplicantStage(req.Stage)) {
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrInvalidStage.Error())
		return
	}
	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpdateApplicant,
		id, req.FullName, req.Email, req.Phone, req.Program, req.Stage)
	applicant, err := scanApplicant(row.Scan)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "applicant not found")
		return
	}
	a.json(w, http.StatusOK, toApplicantDTO(applicant))
}

func (a *App) ApplicantsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := a.SQL.Exec(r.Context(), sqlinline.QDeleteApplicant, id); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete applicant")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) ApplicantsList(w http.ResponseWriter, r *http.Request) {
	page, limit, err := parsePageParams(r)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}
	stage := r.URL.Query().Get("stage")
	search := r.URL.Query().Get("q")
	if stage != "" && !domain.ValidStage(domain.ApplicantStage(stage)) {
		a.error(w, http.StatusBadRequest, "bad_request", domain.ErrInvalidStage.Error())
		return
	}

	var total int
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QCountApplicants, stage, search).Scan(&total); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load applicants")
		return
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListApplicants, stage, search, limit, (page-1)*limit)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load applicants")
		return
	}
	defer rows.Close()

	items := []applicantDTO{}
	for rows.Next() {
		applicant, err := scanApplicant(rows.Scan)
		if err != nil {
			a.error(w, http.StatusInternalServerError, "internal", "failed to load applicants")
			return
		}
		items = append(items, toApplicantDTO(applicant))
	}
	if err := rows.Err(); err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to load applicants")
		return
	}

	pages := (total + limit - 1) / limit
	a.json(w, http.StatusOK, map[string]any{
		"items": items,
		"pagination": map[string]int{
			"page": page, "limit": limit, "total": total, "pages": pages,
		},
	})
}

func scanApplicant(scan func(dest ...any) error) (domain.Applicant, error) {
	var applicant domain.Applicant
	var stage string
	err := scan(&applicant.ID, &applicant.FullName, &applicant.Email, &applicant.Phone,
		&applicant.Program, &stage, &applicant.OwnerID, &applicant.Source,
		&applicant.CreatedAt, &applicant.UpdatedAt)
	applicant.Stage = domain.ApplicantStage(stage)
	return applicant, err
}

func toApplicantDTO(applicant domain.Applicant) applicantDTO {
	return applicantDTO{
		ID:        applicant.ID,
		FullName:  applicant.FullName,
		Email:     applicant.Email,
		Phone:     applicant.Phone,
		Program:   applicant.Program,
		Stage:     string(applicant.Stage),
		OwnerID:   applicant.OwnerID,
		Source:    applicant.Source,
		CreatedAt: applicant.CreatedAt,
		UpdatedAt: applicant.UpdatedAt,
	}
}
