package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"crm/internal/http/handlers"
	"crm/internal/infra"
	"crm/internal/metrics"
	"crm/internal/middleware"
)

// NewRouter wires the HTTP surface. Public routes (health, auth, webhook,
// short-link redirects, docs, metrics) sit outside the JWT gate; everything
// else under /v1 requires a staff token.
func NewRouter(app *handlers.App, cfg *infra.Config) http.Handler {
	var lookup middleware.CountryLookup
	if app.Geo != nil {
		lookup = app.Geo.CountryCode
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Logger(app.Logger),
		requestMetrics,
		middleware.CORS(cfg.CORSOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.I18N("en", lookup),
	)

	r.Get("/v1/healthz", app.Health)
	r.Post("/v1/auth/google", app.AuthGoogleVerify)
	r.Post("/v1/payments/webhook", app.PaymentsWebhook)
	r.Get("/r/{code}", app.LinkRedirect)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.JWTSecret))

		r.Get("/me", app.Me)

		r.Route("/applicants", func(r chi.Router) {
			r.Post("/", app.ApplicantsCreate)
			r.Get("/", app.ApplicantsList)
			r.Get("/{id}", app.ApplicantsGet)
			r.Patch("/{id}", app.ApplicantsUpdate)
			r.Delete("/{id}", app.ApplicantsDelete)
		})

		r.Route("/activity", func(r chi.Router) {
			r.Post("/events", app.ActivityRecord)
			r.Get("/logs", app.ActivityLogs)
			r.Get("/logs/me", app.ActivityLogsMe)
			r.Get("/logs/export", app.ActivityExport)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Post("/", app.PaymentsCreate)
			r.Get("/", app.PaymentsList)
		})

		r.Route("/messages", func(r chi.Router) {
			r.Post("/", app.MessagesCreate)
			r.Get("/", app.MessagesList)
		})

		r.Route("/links", func(r chi.Router) {
			r.Post("/", app.LinksCreate)
			r.Get("/", app.LinksList)
			r.Get("/{id}/stats", app.LinksStats)
		})
	})

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		metrics.RequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
	})
}
