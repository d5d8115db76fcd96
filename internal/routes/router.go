package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"

	"colloquium/backstage/internal/api"
	"colloquium/backstage/internal/importer"
	"colloquium/backstage/internal/metrics"
	"colloquium/backstage/internal/middleware"
	"colloquium/backstage/internal/services"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	SQLX         *sqlx.DB
	Metrics      *metrics.Registry
	Verification *services.VerificationService
	Stats        *services.StatsService
	Tokens       *services.TokenService
	Importer     *importer.Importer
}

// RegisterRoutes builds the chi router for the webhook/admin surface.
func RegisterRoutes(deps *Deps, upSince time.Time) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(deps.SQLX, upSince))

	if deps.Verification != nil {
		r.Get("/verify", api.VerifyHandler(deps.Verification))
	}

	r.Route("/admin", func(r chi.Router) {
		r.Post("/import", api.ImportScheduleHandler(deps.Importer, deps.Metrics))
		r.Post("/tokens", api.IssueTokensHandler(deps.Tokens))
		r.Get("/events/{key}/responses", api.EventResponsesHandler(deps.Stats))
	})

	return r
}
