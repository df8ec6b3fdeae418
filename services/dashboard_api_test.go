// services/dashboard_api_test.go
package services_test

import (
	"net/http"
	"testing"
	"time"

	"bowling-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardPingIsPublic(t *testing.T) {
	api := newTestAPI(t)

	status, body := api.request(t, http.MethodGet, "/dashboard/ping", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "Dashboard is working!", body["message"])
}

func TestDashboardStatsAggregation(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "dash@example.com", "대시보드")
	clubID := api.createClub(t, token, "Dash Club")
	centerID := api.seedCenter(t, "강남 볼링센터")
	gameID := api.createGame(t, token, clubID, centerID, time.Now())

	for _, score := range []int{100, 200, 150} {
		api.addScore(t, token, gameID, score)
	}

	status, body := api.request(t, http.MethodGet, "/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, status)

	assert.Equal(t, float64(3), body["totalGames"])
	assert.Equal(t, float64(150), body["averageScore"])
	assert.Equal(t, float64(200), body["highestScore"])

	recent := body["recentGames"].([]any)
	require.Len(t, recent, 3)
	assert.Equal(t, "Dash Club", recent[0].(map[string]any)["clubName"])

	memberships := body["clubMemberships"].([]any)
	require.Len(t, memberships, 1)
	m := memberships[0].(map[string]any)
	assert.Equal(t, clubID, m["clubId"])
	assert.Equal(t, models.RoleMaster, m["role"])
}

func TestDashboardClubActivities(t *testing.T) {
	api := newTestAPI(t)
	masterToken, _ := api.register(t, "act@example.com", "활동가")
	joinerToken, _ := api.register(t, "new@example.com", "신입")
	clubID := api.createClub(t, masterToken, "Active Club")
	api.request(t, http.MethodPost, "/clubs/"+clubID+"/join", joinerToken, nil)

	centerID := api.seedCenter(t, "강남 볼링센터")
	gameID := api.createGame(t, masterToken, clubID, centerID, time.Now())
	api.addScore(t, masterToken, gameID, 240)
	api.addScore(t, joinerToken, gameID, 180)

	status, body := api.request(t, http.MethodGet, "/dashboard/stats", masterToken, nil)
	require.Equal(t, http.StatusOK, status)

	activities := body["clubActivities"].([]any)
	require.NotEmpty(t, activities)
	assert.LessOrEqual(t, len(activities), 10)

	var sawGame, sawMember bool
	for _, raw := range activities {
		a := raw.(map[string]any)
		switch a["type"] {
		case "game":
			sawGame = true
			assert.Equal(t, "trophy", a["icon"])
			// only the game's top score is announced
			assert.Contains(t, a["title"], "활동가님이 240점")
		case "member":
			sawMember = true
			assert.Equal(t, "user-plus", a["icon"])
		}
		assert.Contains(t, a["description"], "Active Club")
	}
	assert.True(t, sawGame, "expected a game activity")
	assert.True(t, sawMember, "expected a recent-join activity")

	// newest first
	for i := 1; i < len(activities); i++ {
		prev, err := time.Parse(time.RFC3339, activities[i-1].(map[string]any)["time"].(string))
		require.NoError(t, err)
		cur, err := time.Parse(time.RFC3339, activities[i].(map[string]any)["time"].(string))
		require.NoError(t, err)
		assert.False(t, cur.After(prev))
	}
}

func TestDashboardDegradesWhollyOnMembershipFailure(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "partial@example.com", "회원")
	clubID := api.createClub(t, token, "Half Club")
	centerID := api.seedCenter(t, "강남 볼링센터")
	gameID := api.createGame(t, token, clubID, centerID, time.Now())
	api.addScore(t, token, gameID, 190)

	// a mid-assembly failure must zero the whole dashboard, not leave
	// the already-computed game stats behind
	require.NoError(t, api.db.Migrator().DropTable(&models.ClubMembership{}))

	status, body := api.request(t, http.MethodGet, "/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["totalGames"])
	assert.Equal(t, float64(0), body["averageScore"])
	assert.Equal(t, float64(0), body["highestScore"])
	assert.Empty(t, body["recentGames"])
	assert.Empty(t, body["clubActivities"])
	assert.Empty(t, body["clubMemberships"])
}

func TestDashboardDegradesWhollyOnActivityFailure(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "activityfail@example.com", "회원")
	api.createClub(t, token, "Doomed Club")

	require.NoError(t, api.db.Migrator().DropTable(&models.Game{}))

	status, body := api.request(t, http.MethodGet, "/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, body["clubMemberships"], "memberships are dropped with the failing section")
	assert.Empty(t, body["clubActivities"])
}

func TestDashboardUserClubs(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "clubs@example.com", "회원")
	api.createClub(t, token, "First Club")
	api.createClub(t, token, "Second Club")

	status, body := api.request(t, http.MethodGet, "/dashboard/clubs", token, nil)
	require.Equal(t, http.StatusOK, status)

	memberships := body["items"].([]any)
	require.Len(t, memberships, 2)
	names := []string{
		memberships[0].(map[string]any)["club"].(map[string]any)["name"].(string),
		memberships[1].(map[string]any)["club"].(map[string]any)["name"].(string),
	}
	assert.ElementsMatch(t, []string{"First Club", "Second Club"}, names)
}

func TestQuickAddCreatesDefaultsOnce(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "quick@example.com", "퀵애드")

	status, body := api.request(t, http.MethodPost, "/dashboard/game", token, fiber.Map{"score": 180})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, float64(180), body["score"])
	game := body["game"].(map[string]any)
	assert.Equal(t, models.GameTypePractice, game["gameType"])
	assert.Equal(t, "개인 연습", game["club"].(map[string]any)["name"])

	// second record reuses the default rows
	status, _ = api.request(t, http.MethodPost, "/dashboard/game", token, fiber.Map{"score": 210})
	require.Equal(t, http.StatusCreated, status)

	var centers, clubs int64
	require.NoError(t, api.db.Model(&models.BowlingCenter{}).Count(&centers).Error)
	require.NoError(t, api.db.Model(&models.Club{}).Where("name = ?", "개인 연습").Count(&clubs).Error)
	assert.Equal(t, int64(1), centers)
	assert.Equal(t, int64(1), clubs)
}

func TestQuickAddHonorsExplicitClub(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "explicit@example.com", "회원")
	clubID := api.createClub(t, token, "Chosen Club")
	centerID := api.seedCenter(t, "잠실 볼링센터")

	status, body := api.request(t, http.MethodPost, "/dashboard/game", token, fiber.Map{
		"score":           225,
		"clubId":          clubID,
		"bowlingCenterId": centerID,
		"gameType":        models.GameTypeLeague,
	})
	require.Equal(t, http.StatusCreated, status)

	game := body["game"].(map[string]any)
	assert.Equal(t, models.GameTypeLeague, game["gameType"])
	assert.Equal(t, "Chosen Club", game["club"].(map[string]any)["name"])
}

func TestQuickAddScoreValidation(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "badscore@example.com", "회원")

	for _, body := range []fiber.Map{
		{"score": 301},
		{"score": -1},
		{}, // score missing entirely
	} {
		status, resp := api.request(t, http.MethodPost, "/dashboard/game", token, body)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "올바른 점수를 입력해주세요 (0-300)", resp["error"])
	}
}
