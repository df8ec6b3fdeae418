// handlers/dashboard.go
package handlers

import (
	"bowling-club-system/middleware"
	"bowling-club-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupDashboardRoutes(app *fiber.App, dashboardService *services.DashboardService, db *gorm.DB) {
	// 🔓 Health echo stays public
	app.Get("/dashboard/ping", dashboardService.Ping)

	// 🔐 Authenticated routes
	secured := app.Group("/dashboard", middleware.JWTAuthMiddleware(db))
	secured.Get("/stats", dashboardService.GetDashboardStats)
	secured.Get("/clubs", dashboardService.GetUserClubs)
	secured.Post("/game", dashboardService.AddGameRecord)
}
