// middleware/auth.go
package middleware

import (
	"log"
	"strings"

	"bowling-club-system/models"
	"bowling-club-system/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// JWTAuthMiddleware authenticates requests: extract bearer token, verify
// signature and expiry, re-confirm the subject still exists, reject stale
// tokens whose email no longer matches, then attach the caller's public
// profile to the request context.
func JWTAuthMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "인증 토큰이 필요합니다.",
			})
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := utils.VerifyToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "토큰이 유효하지 않습니다.",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.Subject).Error; err != nil {
			log.Printf("🚫 [AUTH] Token subject %s no longer exists | Path: %s", claims.Subject, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "사용자를 찾을 수 없습니다.",
			})
		}

		// Token issued before an email change is stale
		if user.Email != claims.Email {
			log.Printf("🚫 [AUTH] Stale token for user %s (email mismatch) | Path: %s", user.ID, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "토큰이 유효하지 않습니다.",
			})
		}

		c.Locals("user_id", user.ID)
		c.Locals("user", &user)

		return c.Next()
	}
}
