// services/game_service.go
package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"bowling-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GameService struct {
	DB *gorm.DB
}

func NewGameService(db *gorm.DB) *GameService {
	return &GameService{DB: db}
}

type createGameRequest struct {
	ClubID          string `json:"clubId"`
	BowlingCenterID string `json:"bowlingCenterId"`
	GameDate        string `json:"gameDate"`
	GameType        string `json:"gameType"`
}

type createGameScoreRequest struct {
	GameID    string `json:"gameId"`
	Score     *int   `json:"score"`
	GameOrder int    `json:"gameOrder"`
}

// hasActiveMembership reports whether the user holds an active membership
// in the club.
func (s *GameService) hasActiveMembership(userID, clubID string) (bool, error) {
	var membership models.ClubMembership
	err := s.DB.Where("user_id = ? AND club_id = ? AND is_active = ?", userID, clubID, true).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func parseGameDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

// CreateGame creates a game for a club the caller is an active member of.
func (s *GameService) CreateGame(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req createGameRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "잘못된 요청 형식입니다."})
	}
	if req.ClubID == "" || req.BowlingCenterID == "" || req.GameDate == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "clubId, bowlingCenterId, gameDate는 필수입니다."})
	}
	gameDate, err := parseGameDate(req.GameDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "올바른 날짜 형식이 아닙니다."})
	}

	isMember, err := s.hasActiveMembership(userID, req.ClubID)
	if err != nil {
		log.Printf("❌ [GAME] Membership lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 생성 중 오류가 발생했습니다."})
	}
	if !isMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "해당 클럽의 멤버가 아닙니다."})
	}

	gameType := req.GameType
	if gameType == "" {
		gameType = models.GameTypePractice
	}
	game := &models.Game{
		ID:              uuid.NewString(),
		ClubID:          req.ClubID,
		BowlingCenterID: req.BowlingCenterID,
		GameDate:        gameDate,
		GameType:        gameType,
	}
	if err := s.DB.Create(game).Error; err != nil {
		log.Printf("❌ [GAME] Game insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 생성 중 오류가 발생했습니다."})
	}

	if err := s.DB.Preload("Club").Preload("BowlingCenter").First(game, "id = ?", game.ID).Error; err != nil {
		log.Printf("❌ [GAME] Game reload failed: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "게임이 생성되었습니다.",
		"data":    game,
	})
}

// AddGameScore records a score on an existing game. The caller must be an
// active member of the game's club; the score row is owned by the caller.
func (s *GameService) AddGameScore(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req createGameScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "잘못된 요청 형식입니다."})
	}
	if req.Score == nil || *req.Score < 0 || *req.Score > 300 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "올바른 점수를 입력해주세요 (0-300)"})
	}
	if req.GameOrder < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "gameOrder는 1 이상이어야 합니다."})
	}

	var game models.Game
	if err := s.DB.First(&game, "id = ?", req.GameID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "게임을 찾을 수 없습니다."})
	}

	isMember, err := s.hasActiveMembership(userID, game.ClubID)
	if err != nil {
		log.Printf("❌ [GAME] Membership lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 점수 추가 중 오류가 발생했습니다."})
	}
	if !isMember {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "해당 클럽의 멤버가 아닙니다."})
	}

	score := &models.GameScore{
		ID:        uuid.NewString(),
		GameID:    req.GameID,
		UserID:    userID,
		Score:     *req.Score,
		GameOrder: req.GameOrder,
	}
	if err := s.DB.Create(score).Error; err != nil {
		log.Printf("❌ [GAME] Score insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 점수 추가 중 오류가 발생했습니다."})
	}

	if err := s.DB.Preload("Game.Club").Preload("Game.BowlingCenter").
		First(score, "id = ?", score.ID).Error; err != nil {
		log.Printf("❌ [GAME] Score reload failed: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "게임 점수가 추가되었습니다.",
		"data":    score,
	})
}

// GetMyStats aggregates the caller's whole score history.
func (s *GameService) GetMyStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var scores []models.GameScore
	err := s.DB.Preload("Game.Club").Preload("Game.BowlingCenter").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&scores).Error
	if err != nil {
		log.Printf("❌ [GAME] Stats scan failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 통계 조회 중 오류가 발생했습니다."})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "게임 통계 조회가 완료되었습니다.",
		"data":    computeUserStats(scores),
	})
}

// GetMyScores lists the caller's scores with offset pagination, sortable
// by date or score and filterable by club/center name and date/score range.
func (s *GameService) GetMyScores(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := pageParams(c)

	db := s.DB.Model(&models.GameScore{}).
		Joins("JOIN games ON games.id = game_scores.game_id").
		Joins("JOIN clubs ON clubs.id = games.club_id").
		Joins("JOIN bowling_centers ON bowling_centers.id = games.bowling_center_id").
		Where("game_scores.user_id = ?", userID)

	if club := strings.TrimSpace(c.Query("club")); club != "" {
		db = db.Where("LOWER(clubs.name) LIKE ?", "%"+strings.ToLower(club)+"%")
	}
	if center := strings.TrimSpace(c.Query("center")); center != "" {
		db = db.Where("LOWER(bowling_centers.name) LIKE ?", "%"+strings.ToLower(center)+"%")
	}
	if start := c.Query("startDate"); start != "" {
		if t, err := parseGameDate(start); err == nil {
			db = db.Where("games.game_date >= ?", t)
		}
	}
	if end := c.Query("endDate"); end != "" {
		if t, err := parseGameDate(end); err == nil {
			db = db.Where("games.game_date <= ?", t)
		}
	}
	if minScore := c.QueryInt("minScore", -1); minScore >= 0 {
		db = db.Where("game_scores.score >= ?", minScore)
	}
	if maxScore := c.QueryInt("maxScore", -1); maxScore >= 0 {
		db = db.Where("game_scores.score <= ?", maxScore)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("❌ [GAME] Score count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 점수 목록 조회 중 오류가 발생했습니다."})
	}

	// Whitelisted sort columns only
	orderColumn := "game_scores.created_at"
	if c.Query("sortBy") == "score" {
		orderColumn = "game_scores.score"
	} else if c.Query("sortBy") == "date" {
		orderColumn = "games.game_date"
	}
	direction := "DESC"
	if strings.EqualFold(c.Query("order"), "asc") {
		direction = "ASC"
	}

	var scores []models.GameScore
	err := db.Preload("Game.Club").Preload("Game.BowlingCenter").
		Order(orderColumn + " " + direction).
		Offset((page - 1) * limit).Limit(limit).
		Find(&scores).Error
	if err != nil {
		log.Printf("❌ [GAME] Score list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 점수 목록 조회 중 오류가 발생했습니다."})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "게임 점수 목록 조회가 완료되었습니다.",
		"data": fiber.Map{
			"gameScores": scores,
			"pagination": newPagination(total, page, limit),
		},
	})
}

// GetGameScores returns a game with all its scores, highest first.
func (s *GameService) GetGameScores(c *fiber.Ctx) error {
	var game models.Game
	err := s.DB.Preload("Club").Preload("BowlingCenter").
		Preload("Scores", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_scores.score DESC")
		}).
		Preload("Scores.User").
		First(&game, "id = ?", c.Params("gameId")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "게임을 찾을 수 없습니다."})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "게임 점수 상세 조회가 완료되었습니다.",
		"data":    &game,
	})
}

// GetClubGames lists a club's games, newest game date first.
func (s *GameService) GetClubGames(c *fiber.Ctx) error {
	clubID := c.Params("clubId")
	page, limit := pageParams(c)

	var total int64
	if err := s.DB.Model(&models.Game{}).Where("club_id = ?", clubID).Count(&total).Error; err != nil {
		log.Printf("❌ [GAME] Club game count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 목록 조회 중 오류가 발생했습니다."})
	}

	var games []models.Game
	err := s.DB.Preload("BowlingCenter").
		Preload("Scores", func(db *gorm.DB) *gorm.DB {
			return db.Order("game_scores.score DESC")
		}).
		Preload("Scores.User").
		Where("club_id = ?", clubID).
		Order("game_date DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&games).Error
	if err != nil {
		log.Printf("❌ [GAME] Club game list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 목록 조회 중 오류가 발생했습니다."})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "클럽 게임 목록 조회가 완료되었습니다.",
		"data": fiber.Map{
			"games":      games,
			"pagination": newPagination(total, page, limit),
		},
	})
}

type updateGameScoreRequest struct {
	Score *int `json:"score"`
}

// UpdateGameScore changes a score the caller owns. Ownership, not club
// role, is the gate — masters cannot edit members' scores.
func (s *GameService) UpdateGameScore(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req updateGameScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "잘못된 요청 형식입니다."})
	}
	if req.Score == nil || *req.Score < 0 || *req.Score > 300 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "올바른 점수를 입력해주세요 (0-300)"})
	}

	var score models.GameScore
	if err := s.DB.First(&score, "id = ?", c.Params("scoreId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "게임 점수를 찾을 수 없습니다."})
	}
	if score.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "이 점수를 수정할 권한이 없습니다."})
	}

	if err := s.DB.Model(&score).Update("score", *req.Score).Error; err != nil {
		log.Printf("❌ [GAME] Score update failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 점수 수정 중 오류가 발생했습니다."})
	}

	if err := s.DB.Preload("Game.Club").Preload("Game.BowlingCenter").
		First(&score, "id = ?", score.ID).Error; err != nil {
		log.Printf("❌ [GAME] Score reload failed: %v", err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "게임 점수가 수정되었습니다.",
		"data":    &score,
	})
}

// DeleteGameScore removes a score the caller owns.
func (s *GameService) DeleteGameScore(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var score models.GameScore
	if err := s.DB.First(&score, "id = ?", c.Params("scoreId")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "게임 점수를 찾을 수 없습니다."})
	}
	if score.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "이 점수를 삭제할 권한이 없습니다."})
	}

	if err := s.DB.Delete(&score).Error; err != nil {
		log.Printf("❌ [GAME] Score delete failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 점수 삭제 중 오류가 발생했습니다."})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "게임 점수가 삭제되었습니다.",
	})
}
