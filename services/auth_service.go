// services/auth_service.go
package services

import (
	"errors"
	"log"
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"bowling-club-system/models"
	"bowling-club-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type registerRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	Name            string  `json:"name"`
	PhoneNumber     *string `json:"phoneNumber"`
	ProfileImageUrl *string `json:"profileImageUrl"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and signs the first token for it.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "잘못된 요청 형식입니다."})
	}

	if !emailPattern.MatchString(req.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "올바른 이메일 형식이 아닙니다."})
	}
	if len(req.Password) < 6 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "비밀번호는 최소 6자리 이상이어야 합니다."})
	}
	if utf8.RuneCountInString(req.Name) < 2 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "이름은 최소 2자리 이상이어야 합니다."})
	}

	var existing models.User
	err := s.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "이미 존재하는 이메일입니다."})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("❌ [AUTH] Email lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "회원가입 중 오류가 발생했습니다."})
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ [AUTH] Password hashing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "회원가입 중 오류가 발생했습니다."})
	}

	user := &models.User{
		ID:              uuid.NewString(),
		Email:           req.Email,
		Name:            req.Name,
		PasswordHash:    passwordHash,
		PhoneNumber:     req.PhoneNumber,
		ProfileImageUrl: req.ProfileImageUrl,
	}
	if err := s.DB.Create(user).Error; err != nil {
		log.Printf("❌ [AUTH] User insert failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "회원가입 중 오류가 발생했습니다."})
	}

	accessToken, err := utils.IssueToken(user.ID, user.Email)
	if err != nil {
		log.Printf("❌ [AUTH] Token signing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "회원가입 중 오류가 발생했습니다."})
	}

	log.Printf("✅ [AUTH] Registered new user %s", user.ID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"accessToken": accessToken,
		"user":        user,
	})
}

// Login verifies credentials and signs a token. The failure message never
// discloses whether the email or the password was wrong.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "잘못된 요청 형식입니다."})
	}

	var user models.User
	if err := s.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "이메일 또는 비밀번호가 올바르지 않습니다."})
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "이메일 또는 비밀번호가 올바르지 않습니다."})
	}

	accessToken, err := utils.IssueToken(user.ID, user.Email)
	if err != nil {
		log.Printf("❌ [AUTH] Token signing failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "로그인 중 오류가 발생했습니다."})
	}

	return c.JSON(fiber.Map{
		"accessToken": accessToken,
		"user":        &user,
	})
}

// Me returns the authenticated caller's profile, as resolved by the
// auth middleware.
func (s *AuthService) Me(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "사용자 정보를 찾을 수 없습니다."})
	}
	return c.JSON(user)
}

// GetProfile looks a user up by id (direct profile lookups).
func (s *AuthService) GetProfile(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "사용자를 찾을 수 없습니다."})
	}
	return c.JSON(&user)
}

// UploadAvatar stores a profile image in the object store and saves its
// public URL on the caller's account.
func (s *AuthService) UploadAvatar(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(*models.User)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "사용자 정보를 찾을 수 없습니다."})
	}

	if !utils.StorageEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "이미지 저장소가 설정되지 않았습니다."})
	}

	avatar, err := c.FormFile("avatar")
	if err != nil || avatar.Size == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar 파일이 필요합니다."})
	}

	ext := filepath.Ext(avatar.Filename)
	if ext == "" {
		ext = ".png"
	}
	key := "avatars/" + uuid.NewString() + ext
	url, err := utils.UploadToStorage(avatar, key)
	if err != nil {
		log.Printf("❌ [AUTH] Avatar upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "이미지 업로드에 실패했습니다."})
	}

	user.ProfileImageUrl = &url
	if err := s.DB.Model(user).Update("profile_image_url", url).Error; err != nil {
		log.Printf("❌ [AUTH] Avatar URL save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "이미지 업로드에 실패했습니다."})
	}

	return c.JSON(user)
}
