// services/club_api_test.go
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

func TestCreateClubMakesCreatorMaster(t *testing.T) {
	api := newTestAPI(t)
	token, userID := api.register(t, "master@example.com", "클럽장")

	status, body := api.request(t, http.MethodPost, "/clubs", token, fiber.Map{
		"name":        "Strike Kings",
		"description": "금요일 리그 클럽",
		"clubFee":     30000,
	})
	require.Equal(t, http.StatusCreated, status)

	club := body["data"].(map[string]any)
	assert.Equal(t, "Strike Kings", club["name"])
	assert.Equal(t, "strike-kings", club["slug"])

	var membership models.ClubMembership
	require.NoError(t, api.db.
		Where("user_id = ? AND club_id = ?", userID, club["id"]).
		First(&membership).Error)
	assert.Equal(t, models.RoleMaster, membership.Role)
	assert.True(t, membership.IsActive)
}

func TestCreateClubSlugCollision(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "slugger@example.com", "클럽장")

	_, body1 := api.request(t, http.MethodPost, "/clubs", token, fiber.Map{"name": "Pin Crushers"})
	_, body2 := api.request(t, http.MethodPost, "/clubs", token, fiber.Map{"name": "Pin Crushers"})

	assert.Equal(t, "pin-crushers", body1["data"].(map[string]any)["slug"])
	assert.Equal(t, "pin-crushers-2", body2["data"].(map[string]any)["slug"])
}

func TestJoinClub(t *testing.T) {
	api := newTestAPI(t)
	masterToken, _ := api.register(t, "owner@example.com", "클럽장")
	memberToken, memberID := api.register(t, "joiner@example.com", "신입회원")
	clubID := api.createClub(t, masterToken, "Split Happens")

	status, body := api.request(t, http.MethodPost, "/clubs/"+clubID+"/join", memberToken, nil)
	require.Equal(t, http.StatusCreated, status)
	membership := body["data"].(map[string]any)
	assert.Equal(t, models.RoleMember, membership["role"])
	assert.Equal(t, memberID, membership["userId"])

	// joining twice conflicts
	status, _ = api.request(t, http.MethodPost, "/clubs/"+clubID+"/join", memberToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// unknown club
	status, _ = api.request(t, http.MethodPost, "/clubs/no-such-club/join", memberToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListClubsWithSearch(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register(t, "lister@example.com", "클럽장")
	api.createClub(t, token, "Thunder Strikes")
	api.createClub(t, token, "Gutter Gang")

	status, body := api.request(t, http.MethodGet, "/clubs?q=thunder", "", nil)
	require.Equal(t, http.StatusOK, status)
	clubs := body["clubs"].([]any)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Thunder Strikes", clubs[0].(map[string]any)["name"])

	pagination := body["pagination"].(map[string]any)
	assert.Equal(t, float64(1), pagination["total"])
}

func TestClubMembersListsActiveOnly(t *testing.T) {
	api := newTestAPI(t)
	masterToken, _ := api.register(t, "m@example.com", "클럽장")
	memberToken, memberID := api.register(t, "n@example.com", "회원")
	clubID := api.createClub(t, masterToken, "Ten Pin Alley")
	api.request(t, http.MethodPost, "/clubs/"+clubID+"/join", memberToken, nil)

	require.NoError(t, api.db.Model(&models.ClubMembership{}).
		Where("user_id = ? AND club_id = ?", memberID, clubID).
		Update("is_active", false).Error)

	status, body := api.request(t, http.MethodGet, "/clubs/"+clubID+"/members", "", nil)
	require.Equal(t, http.StatusOK, status)

	members := body["items"].([]any)
	require.Len(t, members, 1, "deactivated member must be excluded")
	member := members[0].(map[string]any)
	assert.Equal(t, models.RoleMaster, member["role"])
	assert.Equal(t, "클럽장", member["user"].(map[string]any)["name"])
}

func TestClubLeaderboardSnapshot(t *testing.T) {
	api := newTestAPI(t)
	masterToken, _ := api.register(t, "top@example.com", "에이스")
	otherToken, _ := api.register(t, "avg@example.com", "보통")
	clubID := api.createClub(t, masterToken, "Kingpins")
	api.request(t, http.MethodPost, "/clubs/"+clubID+"/join", otherToken, nil)

	// no snapshot yet
	status, _ := api.request(t, http.MethodGet, "/clubs/"+clubID+"/leaderboard", "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	centerID := api.seedCenter(t, "강남 볼링센터")
	gameID := api.createGame(t, masterToken, clubID, centerID, time.Now())
	api.addScore(t, masterToken, gameID, 250)
	api.addScore(t, otherToken, gameID, 150)

	api.club.RebuildLeaderboards()

	status, body := api.request(t, http.MethodGet, "/clubs/"+clubID+"/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["memberCount"])
	assert.Equal(t, float64(2), body["totalGames"])
	assert.Equal(t, float64(200), body["averageScore"])
	assert.Equal(t, float64(250), body["bestScore"])
	assert.Equal(t, "에이스", body["topScorer"])

	// rebuild again overwrites the same row
	api.club.RebuildLeaderboards()
	var count int64
	require.NoError(t, api.db.Model(&models.ClubLeaderboardSnapshot{}).
		Where("club_id = ?", clubID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
