// handlers/game.go
package handlers

import (
	"bowling-club-system/middleware"
	"bowling-club-system/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupGameRoutes(app *fiber.App, gameService *services.GameService, db *gorm.DB) {
	// 🔐 All game routes require an authenticated caller
	secured := app.Group("/games", middleware.JWTAuthMiddleware(db))

	secured.Post("/", gameService.CreateGame)
	secured.Post("/scores", gameService.AddGameScore)
	secured.Get("/my-stats", gameService.GetMyStats)
	secured.Get("/my-scores", gameService.GetMyScores)
	secured.Get("/club/:clubId", gameService.GetClubGames)
	secured.Get("/:gameId/scores", gameService.GetGameScores)
	secured.Patch("/scores/:scoreId", gameService.UpdateGameScore)
	secured.Delete("/scores/:scoreId", gameService.DeleteGameScore)
}
