package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"crm/internal/activity"
	"crm/internal/domain"
)

type applicantTestSQL struct {
	row     SimpleRow
	gotArgs []any
}

func (s *applicantTestSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *applicantTestSQL) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	s.gotArgs = args
	return s.row
}

func (s *applicantTestSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unexpected query")
}

func applicantRow(applicant domain.Applicant) SimpleRow {
	return NewSimpleRow(func(dest ...any) error {
		if len(dest) != 10 {
			return fmt.Errorf("unexpected scan args: %d", len(dest))
		}
		*dest[0].(*string) = applicant.ID
		*dest[1].(*string) = applicant.FullName
		*dest[2].(*string) = applicant.Email
		*dest[3].(*string) = applicant.Phone
		*dest[4].(*string) = applicant.Program
		*dest[5].(*string) = string(applicant.Stage)
		*dest[6].(*string) = applicant.OwnerID
		*dest[7].(*string) = applicant.Source
		*dest[8].(*time.Time) = applicant.CreatedAt
		*dest[9].(*time.Time) = applicant.UpdatedAt
		return nil
	})
}

func TestApplicantsGet_ReturnsApplicant(t *testing.T) {
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	sql := &applicantTestSQL{row: applicantRow(domain.Applicant{
		ID:        "ap-1",
		FullName:  "Budi Santoso",
		Email:     "budi@example.com",
		Phone:     "+628123456789",
		Program:   "informatics",
		Stage:     domain.StageInterview,
		OwnerID:   "u1",
		Source:    "instagram",
		CreatedAt: now,
		UpdatedAt: now,
	})}
	app := &App{SQL: sql, Clock: activity.RealClock{}}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "ap-1")
	req := httptest.NewRequest("GET", "/v1/applicants/ap-1", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	app.ApplicantsGet(rr, req)

	require.Equal(t, 200, rr.Code, rr.Body.String())
	require.Equal(t, []any{"ap-1"}, sql.gotArgs)

	var got applicantDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Equal(t, "ap-1", got.ID)
	require.Equal(t, "Budi Santoso", got.FullName)
	require.Equal(t, string(domain.StageInterview), got.Stage)
	require.Equal(t, "u1", got.OwnerID)
}

func TestApplicantsGet_NotFound(t *testing.T) {
	app := &App{SQL: &applicantTestSQL{row: NewSimpleRow(nil)}, Clock: activity.RealClock{}}

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "missing")
	req := httptest.NewRequest("GET", "/v1/applicants/missing", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr := httptest.NewRecorder()

	app.ApplicantsGet(rr, req)

	require.Equal(t, 404, rr.Code)
}

func TestApplicantsCreate_RejectsUnknownStage(t *testing.T) {
	app := &App{SQL: &applicantTestSQL{}, Clock: activity.RealClock{}}

	body := `{"full_name":"Budi","email":"budi@example.com","stage":"limbo"}`
	req := httptest.NewRequest("POST", "/v1/applicants", strings.NewReader(body))
	rr := httptest.NewRecorder()

	app.ApplicantsCreate(rr, req)

	require.Equal(t, 400, rr.Code)

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Equal(t, domain.ErrInvalidStage.Error(), payload.Error.Message)
}
