// services/copierpack_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"prop-broker-dashboard/forms"
	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CopierPackService struct {
	DB *gorm.DB
}

func NewCopierPackService(db *gorm.DB) *CopierPackService {
	return &CopierPackService{DB: db}
}

func CopierPackSchema() *forms.Schema {
	return forms.NewSchema("Copier Pack").
		Text("pack_number", "Pack #", true).
		Number("broker_id", "Broker", true, nil).
		Text("account_number", "Account Number", false).
		Add(forms.Field{Name: "account_password", Label: "Account Password", Kind: forms.FieldText,
			Help: "Stored as-is — encrypt before submitting if confidentiality is required"}).
		Text("broker_server", "Broker Server", false).
		Select("account_type", "Account Type", []string{"Demo", "Live"}, false).
		Number("initial_balance", "Initial Balance", false, 0.0).
		Number("current_balance", "Current Balance", false, 0.0).
		Number("profit_loss", "Profit/Loss", false, 0.0).
		Number("max_drawdown", "Max Drawdown", false, 0.0).
		Select("status", "Status", models.CopierPackStatuses, true).
		Textarea("notes", "Notes")
}

func (s *CopierPackService) GetSchema(c *fiber.Ctx) error {
	return c.JSON(CopierPackSchema())
}

// GetAll lists packs with the account password blanked.
func (s *CopierPackService) GetAll(c *fiber.Ctx) error {
	var packs []models.CopierPack
	db := s.DB
	if c.Query("active") == "true" {
		db = db.Where("status = ?", models.CopierPackStatusActive)
	}
	if err := db.Find(&packs).Error; err != nil {
		log.Printf("❌ [PACK] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch copier packs"})
	}
	for i := range packs {
		packs[i] = packs[i].Sanitized()
	}
	return c.JSON(packs)
}

func (s *CopierPackService) GetByID(c *fiber.Ctx) error {
	var pack models.CopierPack
	if err := s.DB.First(&pack, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "copier pack not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(pack)
}

type copierPackCreateRequest struct {
	PackNumber      string  `json:"pack_number" validate:"required"`
	BrokerID        uint    `json:"broker_id" validate:"required"`
	AccountNumber   string  `json:"account_number"`
	AccountPassword string  `json:"account_password"`
	BrokerServer    string  `json:"broker_server"`
	AccountType     string  `json:"account_type"`
	InitialBalance  float64 `json:"initial_balance"`
	CurrentBalance  float64 `json:"current_balance"`
	ProfitLoss      float64 `json:"profit_loss"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	Status          string  `json:"status"`
	Notes           string  `json:"notes"`
}

func (s *CopierPackService) Create(c *fiber.Ctx) error {
	var req copierPackCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status == "" {
		req.Status = models.CopierPackStatusActive
	}
	if !models.ValidStatus(req.Status, models.CopierPackStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", req.Status)})
	}

	pack := models.CopierPack{
		PackNumber:      req.PackNumber,
		BrokerID:        req.BrokerID,
		AccountNumber:   req.AccountNumber,
		AccountPassword: req.AccountPassword,
		BrokerServer:    req.BrokerServer,
		AccountType:     req.AccountType,
		InitialBalance:  req.InitialBalance,
		CurrentBalance:  req.CurrentBalance,
		ProfitLoss:      req.ProfitLoss,
		MaxDrawdown:     req.MaxDrawdown,
		Status:          req.Status,
		Notes:           req.Notes,
		CreatedBy:       sessionUsername(c),
		UpdatedBy:       sessionUsername(c),
	}
	if err := s.DB.Create(&pack).Error; err != nil {
		log.Printf("❌ [PACK] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create copier pack"})
	}
	log.Printf("✅ [PACK] created %s (ID: %d)", pack.PackNumber, pack.ID)
	return c.Status(fiber.StatusCreated).JSON(pack.Sanitized())
}

func (s *CopierPackService) Update(c *fiber.Ctx) error {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if status, ok := data["status"].(string); ok && !models.ValidStatus(status, models.CopierPackStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", status)})
	}

	res := s.DB.Model(&models.CopierPack{}).Where("id = ?", c.Params("id")).
		Updates(scrubUpdate(data, sessionUsername(c)))
	if res.Error != nil {
		log.Printf("❌ [PACK] update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update copier pack"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "copier pack not found"})
	}
	return c.JSON(fiber.Map{"message": "copier pack updated"})
}

func (s *CopierPackService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.CopierPack{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [PACK] delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete copier pack"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "copier pack not found"})
	}
	return c.JSON(fiber.Map{"message": "copier pack deleted"})
}
