// services/dashboard_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"bowling-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DashboardService struct {
	DB *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{DB: db}
}

const (
	defaultClubName   = "개인 연습"
	defaultClubSlug   = "personal-practice"
	defaultCenterName = "기본 볼링센터"
)

type DashboardRecentGame struct {
	ID         string    `json:"id"`
	TotalScore int       `json:"totalScore"`
	GameDate   time.Time `json:"gameDate"`
	ClubName   string    `json:"clubName"`
	GameOrder  int       `json:"gameOrder"`
}

type ClubActivity struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Time        time.Time `json:"time"`
	Icon        string    `json:"icon"`
}

type MembershipSummary struct {
	ClubID     string    `json:"clubId"`
	ClubName   string    `json:"clubName"`
	Role       string    `json:"role"`
	JoinedDate time.Time `json:"joinedDate"`
}

type DashboardStats struct {
	TotalGames      int                   `json:"totalGames"`
	AverageScore    int                   `json:"averageScore"`
	HighestScore    int                   `json:"highestScore"`
	RecentGames     []DashboardRecentGame `json:"recentGames"`
	ClubActivities  []ClubActivity        `json:"clubActivities"`
	ClubMemberships []MembershipSummary   `json:"clubMemberships"`
}

func emptyDashboard() *DashboardStats {
	return &DashboardStats{
		RecentGames:     []DashboardRecentGame{},
		ClubActivities:  []ClubActivity{},
		ClubMemberships: []MembershipSummary{},
	}
}

// GetDashboardStats composes the caller's dashboard. Aggregation is
// fail-soft: on a data-access failure it returns a zeroed dashboard
// instead of an error.
func (s *DashboardService) GetDashboardStats(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	return c.JSON(s.buildUserDashboard(userID))
}

func (s *DashboardService) buildUserDashboard(userID string) *DashboardStats {
	stats, err := s.assembleDashboard(userID)
	if err != nil {
		log.Printf("❌ [DASHBOARD] Data fetch error: %v", err)
		return emptyDashboard()
	}
	return stats
}

// assembleDashboard gathers every dashboard section; a failure in any of
// them bubbles up so the caller degrades to the zeroed dashboard as a
// whole, never a partially filled one.
func (s *DashboardService) assembleDashboard(userID string) (*DashboardStats, error) {
	stats := emptyDashboard()

	var scores []models.GameScore
	err := s.DB.Preload("Game.Club").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	stats.TotalGames = len(scores)
	if len(scores) > 0 {
		sum := 0
		for _, sc := range scores {
			sum += sc.Score
			if sc.Score > stats.HighestScore {
				stats.HighestScore = sc.Score
			}
		}
		stats.AverageScore = roundAverage(sum, len(scores))
	}

	for _, sc := range scores[:min(5, len(scores))] {
		clubName := sc.Game.Club.Name
		if clubName == "" {
			clubName = defaultClubName
		}
		stats.RecentGames = append(stats.RecentGames, DashboardRecentGame{
			ID:         sc.ID,
			TotalScore: sc.Score,
			GameDate:   sc.Game.GameDate,
			ClubName:   clubName,
			GameOrder:  sc.GameOrder,
		})
	}

	var memberships []models.ClubMembership
	err = s.DB.Preload("Club").
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	for _, m := range memberships {
		stats.ClubMemberships = append(stats.ClubMemberships, MembershipSummary{
			ClubID:     m.ClubID,
			ClubName:   m.Club.Name,
			Role:       m.Role,
			JoinedDate: m.JoinedDate,
		})
	}

	activities, err := s.recentClubActivities(memberships)
	if err != nil {
		return nil, err
	}
	stats.ClubActivities = activities

	return stats, nil
}

// recentClubActivities merges two event kinds per club: the top score of
// each of the club's 3 most recent games, and members who joined within
// the last 7 days. Sorted newest first, capped at 10.
func (s *DashboardService) recentClubActivities(memberships []models.ClubMembership) ([]ClubActivity, error) {
	activities := []ClubActivity{}

	for _, m := range memberships {
		var recentGames []models.Game
		err := s.DB.Where("club_id = ?", m.ClubID).
			Order("game_date DESC").
			Limit(3).
			Find(&recentGames).Error
		if err != nil {
			return nil, err
		}

		for _, g := range recentGames {
			var top models.GameScore
			err := s.DB.Preload("User").
				Where("game_id = ?", g.ID).
				Order("score DESC").
				First(&top).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return nil, err
			}
			activities = append(activities, ClubActivity{
				Type:        "game",
				Title:       fmt.Sprintf("%s님이 %d점을 기록했습니다", top.User.Name, top.Score),
				Description: fmt.Sprintf("%s 클럽", m.Club.Name),
				Time:        g.GameDate,
				Icon:        "trophy",
			})
		}

		var newMembers []models.ClubMembership
		weekAgo := time.Now().Add(-7 * 24 * time.Hour)
		err = s.DB.Preload("User").
			Where("club_id = ? AND joined_date >= ?", m.ClubID, weekAgo).
			Order("joined_date DESC").
			Limit(3).
			Find(&newMembers).Error
		if err != nil {
			return nil, err
		}

		for _, nm := range newMembers {
			activities = append(activities, ClubActivity{
				Type:        "member",
				Title:       fmt.Sprintf("%s님이 클럽에 가입했습니다", nm.User.Name),
				Description: fmt.Sprintf("%s 클럽", m.Club.Name),
				Time:        nm.JoinedDate,
				Icon:        "user-plus",
			})
		}
	}

	sort.Slice(activities, func(i, j int) bool {
		return activities[i].Time.After(activities[j].Time)
	})
	if len(activities) > 10 {
		activities = activities[:10]
	}
	return activities, nil
}

// GetUserClubs lists the caller's active memberships with club details.
func (s *DashboardService) GetUserClubs(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var memberships []models.ClubMembership
	err := s.DB.Preload("Club").
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&memberships).Error
	if err != nil {
		log.Printf("❌ [DASHBOARD] Get user clubs error: %v", err)
		return c.JSON([]models.ClubMembership{})
	}

	return c.JSON(memberships)
}

type addGameRecordRequest struct {
	ClubID          *string `json:"clubId"`
	Score           *int    `json:"score"`
	GameType        string  `json:"gameType"`
	BowlingCenterID *string `json:"bowlingCenterId"`
}

// AddGameRecord is the dashboard quick-add: find-or-create the default
// center and practice club, then write the game row and the score row in
// one transaction. The find-or-create step is not atomic against
// concurrent first-time callers; duplicate default rows are possible.
func (s *DashboardService) AddGameRecord(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req addGameRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "잘못된 요청 형식입니다."})
	}
	if req.Score == nil || *req.Score < 0 || *req.Score > 300 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "올바른 점수를 입력해주세요 (0-300)"})
	}

	center, err := s.defaultBowlingCenter()
	if err != nil {
		log.Printf("❌ [DASHBOARD] Default center lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 기록 추가에 실패했습니다."})
	}
	club, err := s.defaultClub(center.ID)
	if err != nil {
		log.Printf("❌ [DASHBOARD] Default club lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 기록 추가에 실패했습니다."})
	}

	clubID := club.ID
	if req.ClubID != nil && *req.ClubID != "" {
		clubID = *req.ClubID
	}
	centerID := center.ID
	if req.BowlingCenterID != nil && *req.BowlingCenterID != "" {
		centerID = *req.BowlingCenterID
	}
	gameType := req.GameType
	if gameType == "" {
		gameType = models.GameTypePractice
	}

	var score models.GameScore
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		game := &models.Game{
			ID:              uuid.NewString(),
			ClubID:          clubID,
			BowlingCenterID: centerID,
			GameDate:        time.Now(),
			GameType:        gameType,
		}
		if err := tx.Create(game).Error; err != nil {
			return err
		}

		score = models.GameScore{
			ID:        uuid.NewString(),
			GameID:    game.ID,
			UserID:    userID,
			Score:     *req.Score,
			GameOrder: 1,
		}
		return tx.Create(&score).Error
	})
	if err != nil {
		log.Printf("❌ [DASHBOARD] Add game record error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "게임 기록 추가에 실패했습니다."})
	}

	if err := s.DB.Preload("Game.Club").First(&score, "id = ?", score.ID).Error; err != nil {
		log.Printf("❌ [DASHBOARD] Score reload failed: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(&score)
}

func (s *DashboardService) defaultBowlingCenter() (*models.BowlingCenter, error) {
	var center models.BowlingCenter
	err := s.DB.First(&center).Error
	if err == nil {
		return &center, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	center = models.BowlingCenter{
		ID:               uuid.NewString(),
		Name:             defaultCenterName,
		Address:          "서울시 강남구",
		LaneCount:        20,
		ParkingAvailable: true,
	}
	if err := s.DB.Create(&center).Error; err != nil {
		return nil, err
	}
	return &center, nil
}

func (s *DashboardService) defaultClub(centerID string) (*models.Club, error) {
	var club models.Club
	err := s.DB.Where("name = ?", defaultClubName).First(&club).Error
	if err == nil {
		return &club, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	club = models.Club{
		ID:              uuid.NewString(),
		Name:            defaultClubName,
		Slug:            defaultClubSlug,
		Description:     "개인 연습용 클럽",
		ClubFee:         0,
		BowlingCenterID: &centerID,
	}
	if err := s.DB.Create(&club).Error; err != nil {
		return nil, err
	}
	return &club, nil
}

// Ping is an unauthenticated health echo.
func (s *DashboardService) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":   "Dashboard is working!",
		"timestamp": time.Now(),
		"status":    "OK",
	})
}
