package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"unionhall/backoffice/internal/api"
	"unionhall/backoffice/internal/db"
	"unionhall/backoffice/internal/jobs"
	"unionhall/backoffice/internal/logging"
	"unionhall/backoffice/internal/metrics"
	"unionhall/backoffice/internal/middleware"
	"unionhall/backoffice/internal/workers"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(metricsReg))
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-API-Key", "X-Entity-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")
	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies(metricsReg)
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	// Initialize handlers with dependencies
	handlers := api.NewHandlers(deps)

	// Background feed worker reads from the Redis stream when queueing is
	// configured
	workers.InitWorkers(deps.Services.Queue, deps.Services.Cache, deps.Services.Feed, metricsReg)

	// Scheduled cleanup of stale draft wizards and orphaned report rows
	jobs.InitializeJobs(deps.Repo.Wizards, deps.Repo.ReportRows)

	RegisterAPIRoutes(r, handlers, deps)

	return r
}
