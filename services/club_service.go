// services/club_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"bowling-club-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ClubService struct {
	DB *gorm.DB
}

func NewClubService(db *gorm.DB) *ClubService {
	return &ClubService{DB: db}
}

type createClubRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	ClubFee         int     `json:"clubFee"`
	BowlingCenterID *string `json:"bowlingCenterId"`
}

// CreateClub creates a club and makes the creator its master member,
// both in one transaction.
func (s *ClubService) CreateClub(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req createClubRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "잘못된 요청 형식입니다."})
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "클럽 이름은 최소 2자리 이상이어야 합니다."})
	}
	if req.ClubFee < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "회비는 0 이상이어야 합니다."})
	}

	clubSlug, err := s.uniqueSlug(req.Name)
	if err != nil {
		log.Printf("❌ [CLUB] Slug lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "클럽 생성 중 오류가 발생했습니다."})
	}

	club := &models.Club{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Slug:            clubSlug,
		Description:     req.Description,
		ClubFee:         req.ClubFee,
		BowlingCenterID: req.BowlingCenterID,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}
		membership := &models.ClubMembership{
			ID:       uuid.NewString(),
			UserID:   userID,
			ClubID:   club.ID,
			Role:     models.RoleMaster,
			IsActive: true,
		}
		return tx.Create(membership).Error
	})
	if err != nil {
		log.Printf("❌ [CLUB] Club insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "클럽 생성 중 오류가 발생했습니다."})
	}

	log.Printf("✅ [CLUB] Created club %s (%s)", club.Name, club.Slug)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "클럽이 생성되었습니다.",
		"data":    club,
	})
}

// uniqueSlug derives a URL slug from the club name, suffixing a counter
// on collision. Only a not-found result advances past a candidate; any
// other lookup failure aborts.
func (s *ClubService) uniqueSlug(name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "club"
	}
	candidate := base
	for i := 2; ; i++ {
		var existing models.Club
		err := s.DB.Where("slug = ?", candidate).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// JoinClub adds the caller as an active member of the club.
func (s *ClubService) JoinClub(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	clubID := c.Params("id")

	var club models.Club
	if err := s.DB.First(&club, "id = ?", clubID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "클럽을 찾을 수 없습니다."})
	}

	var existing models.ClubMembership
	err := s.DB.Where("user_id = ? AND club_id = ? AND is_active = ?", userID, clubID, true).
		First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "이미 가입한 클럽입니다."})
	}

	membership := &models.ClubMembership{
		ID:       uuid.NewString(),
		UserID:   userID,
		ClubID:   clubID,
		Role:     models.RoleMember,
		IsActive: true,
	}
	if err := s.DB.Create(membership).Error; err != nil {
		log.Printf("❌ [CLUB] Membership insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "클럽 가입 중 오류가 발생했습니다."})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "클럽에 가입했습니다.",
		"data":    membership,
	})
}

// GetClubs lists clubs, newest first, with optional name search.
func (s *ClubService) GetClubs(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	query := strings.TrimSpace(c.Query("q", ""))

	db := s.DB.Model(&models.Club{})
	if query != "" {
		db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(query)+"%")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		log.Printf("❌ [CLUB] Club count failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "클럽 목록 조회 중 오류가 발생했습니다."})
	}

	var clubs []models.Club
	if err := db.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&clubs).Error; err != nil {
		log.Printf("❌ [CLUB] Club list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "클럽 목록 조회 중 오류가 발생했습니다."})
	}

	return c.JSON(fiber.Map{
		"clubs":      clubs,
		"pagination": newPagination(total, page, limit),
	})
}

func (s *ClubService) GetClubByID(c *fiber.Ctx) error {
	var club models.Club
	if err := s.DB.Preload("BowlingCenter").First(&club, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "클럽을 찾을 수 없습니다."})
	}
	return c.JSON(&club)
}

// GetClubMembers lists a club's active members with their public profiles.
func (s *ClubService) GetClubMembers(c *fiber.Ctx) error {
	clubID := c.Params("id")

	var club models.Club
	if err := s.DB.First(&club, "id = ?", clubID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "클럽을 찾을 수 없습니다."})
	}

	var members []models.ClubMembership
	if err := s.DB.Preload("User").
		Where("club_id = ? AND is_active = ?", clubID, true).
		Order("joined_date ASC").
		Find(&members).Error; err != nil {
		log.Printf("❌ [CLUB] Member list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "멤버 목록 조회 중 오류가 발생했습니다."})
	}

	return c.JSON(members)
}

// GetClubLeaderboard returns the latest scheduler-computed snapshot.
func (s *ClubService) GetClubLeaderboard(c *fiber.Ctx) error {
	var snapshot models.ClubLeaderboardSnapshot
	if err := s.DB.First(&snapshot, "club_id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "리더보드가 아직 집계되지 않았습니다."})
	}
	return c.JSON(&snapshot)
}
