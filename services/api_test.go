// services/api_test.go
//
// End-to-end handler tests: real routes, real middleware, in-memory sqlite.
package services_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bowling-club-system/handlers"
	"bowling-club-system/models"
	"bowling-club-system/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testAPI struct {
	app  *fiber.App
	db   *gorm.DB
	club *services.ClubService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.BowlingCenter{},
		&models.Club{},
		&models.ClubMembership{},
		&models.Game{},
		&models.GameScore{},
		&models.ClubLeaderboardSnapshot{},
	))

	app := fiber.New()
	authService := services.NewAuthService(db)
	clubService := services.NewClubService(db)
	gameService := services.NewGameService(db)
	dashboardService := services.NewDashboardService(db)

	handlers.SetupAuthRoutes(app, authService, db)
	handlers.SetupClubRoutes(app, clubService, db)
	handlers.SetupGameRoutes(app, gameService, db)
	handlers.SetupDashboardRoutes(app, dashboardService, db)

	return &testAPI{app: app, db: db, club: clubService}
}

// request sends a JSON request and decodes the JSON response body.
func (a *testAPI) request(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Top-level arrays are wrapped under "items" so callers always get a map.
	var decoded map[string]any
	if len(raw) > 0 {
		var parsed any
		require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
		switch v := parsed.(type) {
		case map[string]any:
			decoded = v
		case []any:
			decoded = map[string]any{"items": v}
		}
	}
	return resp.StatusCode, decoded
}

// register creates an account and returns its token and user id.
func (a *testAPI) register(t *testing.T, email, name string) (token, userID string) {
	t.Helper()
	status, body := a.request(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"email":    email,
		"password": "secret123",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", email, body)
	token = body["accessToken"].(string)
	userID = body["user"].(map[string]any)["id"].(string)
	return token, userID
}

// createClub creates a club through the API and returns its id.
func (a *testAPI) createClub(t *testing.T, token, name string) string {
	t.Helper()
	status, body := a.request(t, http.MethodPost, "/clubs", token, fiber.Map{"name": name})
	require.Equal(t, http.StatusCreated, status, "create club: %v", body)
	return body["data"].(map[string]any)["id"].(string)
}

// seedCenter inserts a bowling center directly.
func (a *testAPI) seedCenter(t *testing.T, name string) string {
	t.Helper()
	center := &models.BowlingCenter{ID: uuid.NewString(), Name: name, Address: "서울시 강남구"}
	require.NoError(t, a.db.Create(center).Error)
	return center.ID
}

// createGame creates a game through the API and returns its id.
func (a *testAPI) createGame(t *testing.T, token, clubID, centerID string, date time.Time) string {
	t.Helper()
	status, body := a.request(t, http.MethodPost, "/games", token, fiber.Map{
		"clubId":          clubID,
		"bowlingCenterId": centerID,
		"gameDate":        date.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, status, "create game: %v", body)
	return body["data"].(map[string]any)["id"].(string)
}

// addScore records a score through the API and returns its id.
func (a *testAPI) addScore(t *testing.T, token, gameID string, score int) string {
	t.Helper()
	status, body := a.request(t, http.MethodPost, "/games/scores", token, fiber.Map{
		"gameId":    gameID,
		"score":     score,
		"gameOrder": 1,
	})
	require.Equal(t, http.StatusCreated, status, "add score: %v", body)
	return body["data"].(map[string]any)["id"].(string)
}
