package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"crm/internal/activity"
	"crm/internal/infra"
	"crm/internal/infra/geoip"
	"crm/internal/middleware"
	"crm/internal/providers/payment"
)

// IDTokenVerifier verifies a Google ID token and returns its claims.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, token string) (map[string]any, error)
}

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	SQL            infra.SQLExecutor
	Logger         infra.Logger
	JWTSecret      string
	PublicBaseURL  string
	Clock          activity.Clock
	Geo            geoip.CountryResolver
	Payments       payment.Gateway
	GoogleVerifier IDTokenVerifier
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
