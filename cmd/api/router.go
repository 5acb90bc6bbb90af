package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/autoleads/internal/infra/http/handlers"
	"github.com/xavierca1/autoleads/internal/infra/http/middleware"
)

type routes struct {
	Leads          *handlers.LeadHandler
	Profile        *handlers.ProfileHandler
	Health         *handlers.HealthHandler
	AllowedOrigins []string
}

func newRouter(rt routes) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}))

	r.Get("/health", rt.Health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/analyze", rt.Leads.Analyze)

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", rt.Leads.List)
		r.Get("/export.csv", rt.Leads.ExportCSV)
		r.Post("/export/email", rt.Leads.ExportEmail)
		r.Delete("/{id}", rt.Leads.Delete)
		r.Get("/{id}/whatsapp", rt.Leads.WhatsAppLink)
		r.Post("/{id}/whatsapp/send", rt.Leads.WhatsAppSend)
	})

	r.Get("/profile", rt.Profile.Get)
	r.Put("/profile", rt.Profile.Save)

	return r
}
