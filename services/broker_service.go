// services/broker_service.go
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

type BrokerService struct {
	DB *gorm.DB
}

func NewBrokerService(db *gorm.DB) *BrokerService {
	return &BrokerService{DB: db}
}

// BrokerSchema is the declarative form definition the external renderer
// draws the broker form from.
func BrokerSchema() *forms.Schema {
	return forms.NewSchema("Broker").
		Text("name", "Name", true).
		Text("broker_type", "Broker Type", false).
		Text("regulator", "Regulator", false).
		Text("country", "Country", false).
		Text("website", "Website", false).
		Number("min_spread", "Min Spread", false, 0.0).
		Number("commission", "Commission", false, 0.0).
		Number("max_leverage", "Max Leverage", false, 0).
		Number("min_deposit", "Min Deposit", false, 0.0).
		Text("currencies", "Currencies", false).
		Text("platforms", "Platforms", false).
		Select("status", "Status", models.BrokerStatuses, true).
		Textarea("notes", "Notes")
}

func (s *BrokerService) GetSchema(c *fiber.Ctx) error {
	return c.JSON(BrokerSchema())
}

// GetAll lists brokers; ?active=true keeps only the Active ones.
func (s *BrokerService) GetAll(c *fiber.Ctx) error {
	var brokers []models.Broker
	db := s.DB
	if c.Query("active") == "true" {
		db = db.Where("status = ?", models.BrokerStatusActive)
	}
	if err := db.Find(&brokers).Error; err != nil {
		log.Printf("❌ [BROKER] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch brokers"})
	}
	return c.JSON(brokers)
}

func (s *BrokerService) GetByID(c *fiber.Ctx) error {
	var broker models.Broker
	if err := s.DB.First(&broker, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "broker not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(broker)
}

type brokerCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	BrokerType  string  `json:"broker_type"`
	Regulator   string  `json:"regulator"`
	Country     string  `json:"country"`
	Website     string  `json:"website"`
	MinSpread   float64 `json:"min_spread"`
	Commission  float64 `json:"commission"`
	MaxLeverage int     `json:"max_leverage"`
	MinDeposit  float64 `json:"min_deposit"`
	Currencies  string  `json:"currencies"`
	Platforms   string  `json:"platforms"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
}

func (s *BrokerService) Create(c *fiber.Ctx) error {
	var req brokerCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status == "" {
		req.Status = models.BrokerStatusActive
	}
	if !models.ValidStatus(req.Status, models.BrokerStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", req.Status)})
	}

	broker := models.Broker{
		Name:        req.Name,
		BrokerType:  req.BrokerType,
		Regulator:   req.Regulator,
		Country:     req.Country,
		Website:     req.Website,
		MinSpread:   req.MinSpread,
		Commission:  req.Commission,
		MaxLeverage: req.MaxLeverage,
		MinDeposit:  req.MinDeposit,
		Currencies:  req.Currencies,
		Platforms:   req.Platforms,
		Status:      req.Status,
		Notes:       req.Notes,
		CreatedBy:   sessionUsername(c),
		UpdatedBy:   sessionUsername(c),
	}
	if err := s.DB.Create(&broker).Error; err != nil {
		log.Printf("❌ [BROKER] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create broker"})
	}
	log.Printf("✅ [BROKER] created %s (ID: %d)", broker.Name, broker.ID)
	return c.Status(fiber.StatusCreated).JSON(broker)
}

// CreateFromForm runs the declarative form flow over raw field values:
// aggregated validation, defaults filled for missing optional fields, and
// persistence invoked exactly once. Validation failure returns every
// violation at once with the submitted values echoed back for a retry.
func (s *BrokerService) CreateFromForm(c *fiber.Ctx) error {
	values := map[string]any{}
	if err := c.BodyParser(&values); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result := BrokerSchema().Submit(values, forms.ModeCreate, func(full map[string]any, mode string) bool {
		full["created_by"] = sessionUsername(c)
		full["updated_by"] = sessionUsername(c)
		if err := s.DB.Model(&models.Broker{}).Create(full).Error; err != nil {
			log.Printf("❌ [BROKER] form create failed: %v", err)
			return false
		}
		return true
	})

	if !result.Saved {
		return c.Status(fiber.StatusBadRequest).JSON(result)
	}
	log.Printf("✅ [BROKER] created %v via form", result.Values["name"])
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update applies a partial field set; updated_at is re-stamped.
func (s *BrokerService) Update(c *fiber.Ctx) error {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if status, ok := data["status"].(string); ok && !models.ValidStatus(status, models.BrokerStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", status)})
	}

	res := s.DB.Model(&models.Broker{}).Where("id = ?", c.Params("id")).
		Updates(scrubUpdate(data, sessionUsername(c)))
	if res.Error != nil {
		log.Printf("❌ [BROKER] update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update broker"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "broker not found"})
	}
	return c.JSON(fiber.Map{"message": "broker updated"})
}

// Delete hard-deletes by id. Cascade behavior for referencing packs, wallets
// and PAMM groups lives in the store's foreign-key configuration, not here.
func (s *BrokerService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Broker{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [BROKER] delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete broker"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "broker not found"})
	}
	return c.JSON(fiber.Map{"message": "broker deleted"})
}
