// services/propfirm_service.go
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

type PropFirmService struct {
	DB *gorm.DB
}

func NewPropFirmService(db *gorm.DB) *PropFirmService {
	return &PropFirmService{DB: db}
}

func PropFirmSchema() *forms.Schema {
	return forms.NewSchema("Prop Firm").
		Text("name", "Name", true).
		Text("prop_type", "Prop Type", false).
		Number("initial_capital", "Initial Capital", false, 0.0).
		Number("max_drawdown_pct", "Max Drawdown %", false, 0.0).
		Number("profit_target", "Profit Target", false, 0.0).
		Textarea("trading_rules", "Trading Rules").
		Text("time_restrictions", "Time Restrictions", false).
		Text("instruments", "Instruments", false).
		Number("commission", "Commission", false, 0.0).
		Number("monthly_fee", "Monthly Fee", false, 0.0).
		Select("status", "Status", models.PropFirmStatuses, true).
		Textarea("notes", "Notes")
}

func (s *PropFirmService) GetSchema(c *fiber.Ctx) error {
	return c.JSON(PropFirmSchema())
}

func (s *PropFirmService) GetAll(c *fiber.Ctx) error {
	var firms []models.PropFirm
	db := s.DB
	if c.Query("active") == "true" {
		db = db.Where("status = ?", models.PropFirmStatusActive)
	}
	if err := db.Find(&firms).Error; err != nil {
		log.Printf("❌ [PROP] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch prop firms"})
	}
	return c.JSON(firms)
}

func (s *PropFirmService) GetByID(c *fiber.Ctx) error {
	var firm models.PropFirm
	if err := s.DB.First(&firm, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "prop firm not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(firm)
}

type propFirmCreateRequest struct {
	Name             string  `json:"name" validate:"required"`
	PropType         string  `json:"prop_type"`
	InitialCapital   float64 `json:"initial_capital"`
	MaxDrawdownPct   float64 `json:"max_drawdown_pct"`
	ProfitTarget     float64 `json:"profit_target"`
	TradingRules     string  `json:"trading_rules"`
	TimeRestrictions string  `json:"time_restrictions"`
	Instruments      string  `json:"instruments"`
	Commission       float64 `json:"commission"`
	MonthlyFee       float64 `json:"monthly_fee"`
	Status           string  `json:"status"`
	Notes            string  `json:"notes"`
}

func (s *PropFirmService) Create(c *fiber.Ctx) error {
	var req propFirmCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status == "" {
		req.Status = models.PropFirmStatusActive
	}
	if !models.ValidStatus(req.Status, models.PropFirmStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", req.Status)})
	}

	firm := models.PropFirm{
		Name:             req.Name,
		PropType:         req.PropType,
		InitialCapital:   req.InitialCapital,
		MaxDrawdownPct:   req.MaxDrawdownPct,
		ProfitTarget:     req.ProfitTarget,
		TradingRules:     req.TradingRules,
		TimeRestrictions: req.TimeRestrictions,
		Instruments:      req.Instruments,
		Commission:       req.Commission,
		MonthlyFee:       req.MonthlyFee,
		Status:           req.Status,
		Notes:            req.Notes,
		CreatedBy:        sessionUsername(c),
		UpdatedBy:        sessionUsername(c),
	}
	if err := s.DB.Create(&firm).Error; err != nil {
		log.Printf("❌ [PROP] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create prop firm"})
	}
	log.Printf("✅ [PROP] created %s (ID: %d)", firm.Name, firm.ID)
	return c.Status(fiber.StatusCreated).JSON(firm)
}

func (s *PropFirmService) Update(c *fiber.Ctx) error {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if status, ok := data["status"].(string); ok && !models.ValidStatus(status, models.PropFirmStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", status)})
	}

	res := s.DB.Model(&models.PropFirm{}).Where("id = ?", c.Params("id")).
		Updates(scrubUpdate(data, sessionUsername(c)))
	if res.Error != nil {
		log.Printf("❌ [PROP] update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update prop firm"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "prop firm not found"})
	}
	return c.JSON(fiber.Map{"message": "prop firm updated"})
}

func (s *PropFirmService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.PropFirm{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [PROP] delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete prop firm"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "prop firm not found"})
	}
	return c.JSON(fiber.Map{"message": "prop firm deleted"})
}
