// Package server assembles the admin HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cronbeat/cronbeat/internal/api"
)

// NewRouter builds the read-only admin router.
func NewRouter(h *api.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(api.RequestID)
	r.Use(api.RequestLogger)
	r.Use(api.LimitBody)

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/v1/schedules", h.Schedules)

	return r
}
