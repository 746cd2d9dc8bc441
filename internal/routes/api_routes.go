package routes

import (
	"github.com/go-chi/chi/v5"

	"unionhall/backoffice/internal/api"
	"unionhall/backoffice/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies) {

	// API v1 routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.AuthMiddleware(deps.Repo.ApiClients)) // global: all routes must be authenticated

		v1.Get("/wizards/types", handlers.ListWizardTypes())
		v1.Post("/wizards", handlers.CreateWizard())
		v1.Get("/wizards", handlers.ListWizards())

		v1.Route("/wizards/{wizard_id}", func(wiz chi.Router) {
			wiz.Get("/", handlers.GetWizard())
			wiz.Post("/file", handlers.UploadFeedFile())
			wiz.Put("/mapping", handlers.SetColumnMapping())
			wiz.Post("/validate", handlers.ValidateFeed())
			wiz.Post("/process", handlers.ProcessFeed())
			wiz.Get("/progress", handlers.GetProgress())
			wiz.Post("/generate", handlers.GenerateReport())
			wiz.Get("/results", handlers.GetReportResults())
		})

		v1.Get("/files/{file_id}", handlers.DownloadFile())
	})
}
