package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hemafield/lead-capture/internal/infra/http/middleware"
)

// NewRouter mounts the public lead endpoints with permissive CORS, since the
// popup widget is embedded on third-party pages.
func NewRouter(leads *LeadHandler, health *HealthHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"authorization", "x-client-info", "apikey", "content-type", RulesVersionHeader},
	}))

	r.Post("/submit-lead", leads.SubmitLead)
	r.Post("/subscribe", leads.Subscribe)

	// cors answers real preflights itself; a bare OPTIONS reaches the router
	r.Options("/submit-lead", optionsOK)
	r.Options("/subscribe", optionsOK)

	if health != nil {
		r.Get("/health", health.Handle)
	}
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func optionsOK(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
