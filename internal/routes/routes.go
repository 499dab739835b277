package routes

import (
	"github.com/eco-rangers/eco-rangers-api/internal/handlers"
	"github.com/eco-rangers/eco-rangers-api/internal/middleware"
	"github.com/eco-rangers/eco-rangers-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	api.Get("/ping", healthHandler.Ping)
	api.Get("/health", healthHandler.Check)

	// Reports are public: submissions are anonymous and the staff app reads
	// the same endpoints.
	api.Get("/reports", reportHandler.List)
	api.Get("/reports/:id", reportHandler.Get)
	api.Post("/reports", reportHandler.Create)
	api.Patch("/reports/:id/status", reportHandler.UpdateStatus)
	api.Delete("/reports/:id", reportHandler.Delete)

	// Auth — public
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)

	// Protected (bearer token required)
	protected := middleware.TokenProtected(authService)
	api.Get("/me", protected, authHandler.Me)
	api.Post("/logout", protected, authHandler.Logout)
}
