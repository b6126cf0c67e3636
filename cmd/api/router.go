package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/rendetalje-leads/internal/infra/http/handlers"
	"github.com/xavierca1/rendetalje-leads/internal/infra/http/middleware"
)

type routes struct {
	leads    *handlers.LeadHandler
	replies  *handlers.ReplyHandler
	bookings *handlers.BookingHandler
	health   *handlers.HealthHandler
}

func newRouter(h routes, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.leads.List)
		r.Post("/email", h.leads.ProcessEmail)
		r.Post("/form", h.leads.SubmitForm)
		r.Get("/{id}", h.leads.Get)
		r.Post("/{id}/offer", h.leads.SendOfferAgain)
		r.Post("/{id}/transitions", h.leads.ApplyTransition)
	})

	r.Post("/webhooks/replies", h.replies.Handle)

	r.Route("/bookings/{id}", func(r chi.Router) {
		r.Post("/cancel", h.bookings.HandleCancel)
		r.Patch("/status", h.bookings.HandleUpdateStatus)
	})

	return r
}
