package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Resilience/internal/session"
)

// Options configures the API router.
type Options struct {
	ShareBaseURL      string
	AdminToken        string
	RequestsPerMinute int
}

func NewRouter(sess *session.Session, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = 120
	}

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(opts.RequestsPerMinute))

	assessment := NewAssessmentHandler(sess, logger)
	share := NewShareHandler(sess, opts.ShareBaseURL)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", assessment.Catalog)

		r.Get("/assessment", assessment.Get)
		r.Put("/assessment/metrics/{id}", assessment.SetMetric)
		r.Put("/assessment/weights/{group}", assessment.SetWeight)
		r.Put("/assessment/context", assessment.SetContext)
		r.Get("/assessment/export.csv", assessment.ExportCSV)
		r.Get("/assessment/share", share.Share)

		r.Post("/share/preview", share.Preview)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminToken))
			r.Post("/assessment/reset", assessment.Reset)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
