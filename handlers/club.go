// handlers/club.go
package handlers

import (
	"bowling-club-system/middleware"
	"bowling-club-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupClubRoutes(app *fiber.App, clubService *services.ClubService, db *gorm.DB) {
	// 🔓 Public routes
	app.Get("/clubs", clubService.GetClubs)
	app.Get("/clubs/:id", clubService.GetClubByID)
	app.Get("/clubs/:id/members", clubService.GetClubMembers)
	app.Get("/clubs/:id/leaderboard", clubService.GetClubLeaderboard)

	// 🔐 Authenticated routes
	secured := app.Group("/clubs", middleware.JWTAuthMiddleware(db))
	secured.Post("/", clubService.CreateClub)
	secured.Post("/:id/join", clubService.JoinClub)
}
