// services/user_service.go
package services

import (
	"encoding/json"
	"errors"
	"log"

	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserService is the admin surface for accounts and roles.
type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

func (s *UserService) GetAll(c *fiber.Ctx) error {
	var users []models.User
	if err := s.DB.Find(&users).Error; err != nil {
		log.Printf("❌ [USER] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch users"})
	}
	return c.JSON(users)
}

func (s *UserService) GetByID(c *fiber.Ctx) error {
	var user models.User
	if err := s.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(user)
}

type userCreateRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
	Email     string `json:"email" validate:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	RoleID    uint   `json:"role_id" validate:"required"`
	IsActive  *bool  `json:"is_active"`
	IsAdmin   bool   `json:"is_admin"`
}

// Create hashes the password on the way in; the plaintext never reaches
// storage.
func (s *UserService) Create(c *fiber.Ctx) error {
	var req userCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ [USER] password hash failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	user := models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		RoleID:       req.RoleID,
		IsActive:     active,
		IsAdmin:      req.IsAdmin,
		CreatedBy:    sessionUsername(c),
		UpdatedBy:    sessionUsername(c),
	}
	if err := s.DB.Create(&user).Error; err != nil {
		log.Printf("❌ [USER] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create user"})
	}
	log.Printf("✅ [USER] created %s (ID: %d)", user.Username, user.ID)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Update applies a partial field set. A "password" key is hashed and
// rewritten as password_hash before the update runs.
func (s *UserService) Update(c *fiber.Ctx) error {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if pw, ok := data["password"].(string); ok {
		delete(data, "password")
		if pw != "" {
			hash, err := HashPassword(pw)
			if err != nil {
				log.Printf("❌ [USER] password hash failed: %v", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update user"})
			}
			data["password_hash"] = hash
		}
	}

	res := s.DB.Model(&models.User{}).Where("id = ?", c.Params("id")).
		Updates(scrubUpdate(data, sessionUsername(c)))
	if res.Error != nil {
		log.Printf("❌ [USER] update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update user"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(fiber.Map{"message": "user updated"})
}

func (s *UserService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.User{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [USER] delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete user"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(fiber.Map{"message": "user deleted"})
}

func (s *UserService) GetRoles(c *fiber.Ctx) error {
	var roles []models.Role
	if err := s.DB.Find(&roles).Error; err != nil {
		log.Printf("❌ [ROLE] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch roles"})
	}
	return c.JSON(roles)
}

type roleRequest struct {
	Name        string   `json:"name" validate:"required"`
	Permissions []string `json:"permissions"`
}

func (s *UserService) CreateRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	perms, _ := json.Marshal(req.Permissions)
	role := models.Role{Name: req.Name, Permissions: string(perms)}
	if err := s.DB.Create(&role).Error; err != nil {
		log.Printf("❌ [ROLE] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create role"})
	}
	log.Printf("✅ [ROLE] created %s (ID: %d)", role.Name, role.ID)
	return c.Status(fiber.StatusCreated).JSON(role)
}

func (s *UserService) UpdateRole(c *fiber.Ctx) error {
	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	perms, _ := json.Marshal(req.Permissions)
	res := s.DB.Model(&models.Role{}).Where("id = ?", c.Params("id")).
		Updates(map[string]any{"name": req.Name, "permissions": string(perms)})
	if res.Error != nil {
		log.Printf("❌ [ROLE] update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update role"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "role not found"})
	}
	return c.JSON(fiber.Map{"message": "role updated"})
}

func (s *UserService) DeleteRole(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Role{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [ROLE] delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete role"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "role not found"})
	}
	return c.JSON(fiber.Map{"message": "role deleted"})
}
