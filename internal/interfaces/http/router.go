package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mennyrose/Bunker-data/internal/application/auth"
	"github.com/mennyrose/Bunker-data/internal/application/reporting"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC    *auth.UseCase
	ReportUC  *reporting.UseCase
	JWTSecret string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Protected routes (Bearer token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	reportHandler := NewReportHandler(deps.ReportUC)

	reports := protected.Group("/reports")
	reports.Get("/snapshot", reportHandler.Snapshot)
	reports.Post("/refresh", reportHandler.Refresh)
	reports.Post("/search", reportHandler.Search)
	reports.Get("/runway", reportHandler.Runway)
	reports.Post("/export", reportHandler.Export)

	protected.Get("/catalog", reportHandler.Catalog)
}
