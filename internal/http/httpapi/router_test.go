package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm/internal/activity"
	"crm/internal/http/handlers"
	"crm/internal/infra"
	"crm/internal/middleware"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	app := &handlers.App{
		JWTSecret: "router-test-secret",
		Clock:     activity.RealClock{},
	}
	cfg := &infra.Config{RateLimitPerMin: 1000}
	return NewRouter(app, cfg)
}

func TestRouterHealthIsPublic(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest("GET", "/v1/healthz", nil))

	if rr.Code != 200 {
		t.Fatalf("healthz status = %d, want 200", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("health status = %q, want ok", body["status"])
	}
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	router := testRouter(t)
	for _, target := range []string{"/v1/me", "/v1/applicants", "/v1/activity/logs", "/v1/messages", "/v1/links"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", target, nil))
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without token = %d, want 401", target, rr.Code)
		}
	}
}

func TestRouterAcceptsSignedToken(t *testing.T) {
	token, err := middleware.SignJWT("router-test-secret", middleware.TokenClaims{
		Sub:  "user-1",
		Role: "officer",
		Exp:  time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	// The role gate rejects officers before any SQL runs, proving the token
	// was verified and its claims reached the handler.
	req := httptest.NewRequest("GET", "/v1/activity/logs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("activity logs as officer = %d, want 403", rr.Code)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != 200 {
		t.Fatalf("metrics status = %d, want 200", rr.Code)
	}
}
