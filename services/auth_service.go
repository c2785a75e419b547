// services/auth_service.go
package services

import (
	"errors"
	"log"
	"time"

	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionTTL is the fixed validity horizon: a session older than this is
// treated identically to no session.
const SessionTTL = 7 * 24 * time.Hour

// ErrInvalidLogin covers unknown username, wrong password and inactive
// account alike — the caller gets no hint which one it was.
var ErrInvalidLogin = errors.New("invalid credentials")

type AuthService struct {
	DB      *gorm.DB
	Buffers *BufferRegistry
}

func NewAuthService(db *gorm.DB, buffers *BufferRegistry) *AuthService {
	return &AuthService{DB: db, Buffers: buffers}
}

// HashPassword produces a one-way salted bcrypt hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticate verifies the credentials and, on success, stamps last_login,
// resolves the role's permission set and materializes a session record.
func (s *AuthService) Authenticate(username, password string) (*models.Session, error) {
	var user models.User
	if err := s.DB.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("🚫 [AUTH] login attempt for unknown username: %s", username)
			return nil, ErrInvalidLogin
		}
		return nil, err
	}

	if !CheckPassword(password, user.PasswordHash) {
		log.Printf("🚫 [AUTH] wrong password for user: %s", username)
		return nil, ErrInvalidLogin
	}

	if !user.IsActive {
		log.Printf("🚫 [AUTH] login attempt for deactivated user: %s", username)
		return nil, ErrInvalidLogin
	}

	now := time.Now()
	if err := s.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("last_login", now).Error; err != nil {
		log.Printf("⚠️ [AUTH] failed to stamp last login for %s: %v", username, err)
	}

	roleName := "Unknown"
	permissions := ""
	var role models.Role
	if err := s.DB.First(&role, "id = ?", user.RoleID).Error; err != nil {
		log.Printf("⚠️ [AUTH] failed to resolve role %d for %s: %v", user.RoleID, username, err)
	} else {
		roleName = role.Name
		permissions = role.Permissions
	}

	session := models.Session{
		Token:       uuid.NewString(),
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		RoleID:      user.RoleID,
		RoleName:    roleName,
		Permissions: permissions,
		LoginAt:     now,
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ [AUTH] login ok for %s (role: %s)", username, roleName)
	return &session, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates and returns the session record. Every failure mode
// answers the same 401.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	session, err := s.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidLogin) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		log.Printf("❌ [AUTH] login error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}
	return c.JSON(session)
}

// Logout deletes the session row and drops any pending ledger buffer tied
// to it.
func (s *AuthService) Logout(c *fiber.Ctx) error {
	session := c.Locals("session").(models.Session)
	if err := s.DB.Delete(&models.Session{}, "token = ?", session.Token).Error; err != nil {
		log.Printf("❌ [AUTH] failed to delete session for %s: %v", session.Username, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "logout failed"})
	}
	s.Buffers.Drop(session.Token)
	log.Printf("🚪 [AUTH] logout for %s", session.Username)
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me returns the current session.
func (s *AuthService) Me(c *fiber.Ctx) error {
	session := c.Locals("session").(models.Session)
	return c.JSON(session)
}
