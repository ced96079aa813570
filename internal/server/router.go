// Package server assembles the HTTP API.
package server

import (
	"os"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faciam-dev/listdash/internal/api/handler"
	"github.com/faciam-dev/listdash/internal/dashboard"
	"github.com/faciam-dev/listdash/internal/events"
	"github.com/faciam-dev/listdash/internal/server/middleware"
	"github.com/faciam-dev/listdash/pkg/store"
)

// Deps carries the wired backends for the API.
type Deps struct {
	Orc    *dashboard.Orchestrator
	Store  store.Store
	Events *events.Dispatcher
}

// New builds the chi router with CORS, the metrics endpoint and all API
// operations registered.
func New(deps Deps) (huma.API, *chi.Mux) {
	r := chi.NewRouter()

	allowed := os.Getenv("ALLOWED_ORIGINS")
	if allowed == "" {
		allowed = "http://localhost:5173"
	}
	origins := strings.Split(allowed, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	api := humachi.New(r, huma.DefaultConfig("ListDash API", "1.0.0"))
	api.UseMiddleware(middleware.MetricsMW)

	handler.Register(api, &handler.DashboardHandler{Orc: deps.Orc, Events: deps.Events})
	handler.RegisterStore(api, &handler.StoreHandler{Store: deps.Store, Events: deps.Events})

	return api, r
}
