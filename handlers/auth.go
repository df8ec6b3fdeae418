// handlers/auth.go
package handlers

import (
	"bowling-club-system/middleware"
	"bowling-club-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService, db *gorm.DB) {
	// 🔓 Public routes
	app.Post("/auth/register", authService.Register)
	app.Post("/auth/login", authService.Login)

	// 🔐 Authenticated routes
	secured := app.Group("/auth", middleware.JWTAuthMiddleware(db))
	secured.Get("/me", authService.Me)
	secured.Post("/avatar", authService.UploadAvatar)
	secured.Get("/users/:id", authService.GetProfile)
}
