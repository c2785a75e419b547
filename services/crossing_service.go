// services/crossing_service.go
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

type CrossingService struct {
	DB *gorm.DB
}

func NewCrossingService(db *gorm.DB) *CrossingService {
	return &CrossingService{DB: db}
}

func CrossingSchema() *forms.Schema {
	return forms.NewSchema("Crossing").
		Text("name", "Name", true).
		Select("crossing_type", "Crossing Type",
			[]string{"Broker-Prop", "Wallet-PAMM", "Broker-Pack", "Full"}, false).
		Number("broker_id", "Broker", false, nil).
		Number("prop_firm_id", "Prop Firm", false, nil).
		Number("wallet_id", "Wallet", false, nil).
		Number("pamm_group_id", "PAMM Group", false, nil).
		Number("copier_pack_id", "Copier Pack", false, nil).
		Number("performance_pct", "Performance %", false, 0.0).
		Number("risk_pct", "Risk %", false, 0.0).
		Select("status", "Status", models.CrossingStatuses, true).
		Textarea("description", "Description").
		Textarea("notes", "Notes")
}

func (s *CrossingService) GetSchema(c *fiber.Ctx) error {
	return c.JSON(CrossingSchema())
}

// crossingView is a list row with referenced entity names resolved.
type crossingView struct {
	models.Crossing
	BrokerName    string `json:"broker_name,omitempty"`
	PropFirmName  string `json:"prop_firm_name,omitempty"`
	WalletName    string `json:"wallet_name,omitempty"`
	PammGroupName string `json:"pamm_group_name,omitempty"`
	PackNumber    string `json:"pack_number,omitempty"`
}

func (s *CrossingService) GetAll(c *fiber.Ctx) error {
	var crossings []models.Crossing
	if err := s.DB.Find(&crossings).Error; err != nil {
		log.Printf("❌ [CROSSING] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch crossings"})
	}

	// Resolve referenced names in one pass per table.
	brokerNames := s.nameMap(&[]models.Broker{})
	propNames := s.nameMap(&[]models.PropFirm{})
	groupNames := s.nameMap(&[]models.PammGroup{})

	var walletNames = map[uint]string{}
	var wallets []models.Wallet
	if err := s.DB.Find(&wallets).Error; err == nil {
		for _, w := range wallets {
			walletNames[w.ID] = w.Name
		}
	}
	var packNumbers = map[uint]string{}
	var packs []models.CopierPack
	if err := s.DB.Find(&packs).Error; err == nil {
		for _, p := range packs {
			packNumbers[p.ID] = p.PackNumber
		}
	}

	views := make([]crossingView, len(crossings))
	for i, cr := range crossings {
		views[i] = crossingView{
			Crossing:      cr,
			BrokerName:    brokerNames[cr.BrokerID],
			PropFirmName:  propNames[cr.PropFirmID],
			WalletName:    walletNames[cr.WalletID],
			PammGroupName: groupNames[cr.PammGroupID],
			PackNumber:    packNumbers[cr.CopierPackID],
		}
	}
	return c.JSON(views)
}

// nameMap loads every row of dest and indexes name by id.
func (s *CrossingService) nameMap(dest any) map[uint]string {
	names := map[uint]string{}
	if err := s.DB.Find(dest).Error; err != nil {
		return names
	}
	switch rows := dest.(type) {
	case *[]models.Broker:
		for _, r := range *rows {
			names[r.ID] = r.Name
		}
	case *[]models.PropFirm:
		for _, r := range *rows {
			names[r.ID] = r.Name
		}
	case *[]models.PammGroup:
		for _, r := range *rows {
			names[r.ID] = r.Name
		}
	}
	return names
}

func (s *CrossingService) GetByID(c *fiber.Ctx) error {
	var crossing models.Crossing
	if err := s.DB.First(&crossing, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "crossing not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(crossing)
}

type crossingCreateRequest struct {
	Name           string  `json:"name" validate:"required"`
	BrokerID       uint    `json:"broker_id"`
	PropFirmID     uint    `json:"prop_firm_id"`
	WalletID       uint    `json:"wallet_id"`
	PammGroupID    uint    `json:"pamm_group_id"`
	CopierPackID   uint    `json:"copier_pack_id"`
	CrossingType   string  `json:"crossing_type"`
	PerformancePct float64 `json:"performance_pct"`
	RiskPct        float64 `json:"risk_pct"`
	Status         string  `json:"status"`
	Description    string  `json:"description"`
	Notes          string  `json:"notes"`
}

func (s *CrossingService) Create(c *fiber.Ctx) error {
	var req crossingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status == "" {
		req.Status = models.CrossingStatusActive
	}
	if !models.ValidStatus(req.Status, models.CrossingStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", req.Status)})
	}

	crossing := models.Crossing{
		Name:           req.Name,
		BrokerID:       req.BrokerID,
		PropFirmID:     req.PropFirmID,
		WalletID:       req.WalletID,
		PammGroupID:    req.PammGroupID,
		CopierPackID:   req.CopierPackID,
		CrossingType:   req.CrossingType,
		PerformancePct: req.PerformancePct,
		RiskPct:        req.RiskPct,
		Status:         req.Status,
		Description:    req.Description,
		Notes:          req.Notes,
		CreatedBy:      sessionUsername(c),
		UpdatedBy:      sessionUsername(c),
	}
	if err := s.DB.Create(&crossing).Error; err != nil {
		log.Printf("❌ [CROSSING] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create crossing"})
	}
	log.Printf("✅ [CROSSING] created %s (ID: %d)", crossing.Name, crossing.ID)
	return c.Status(fiber.StatusCreated).JSON(crossing)
}

func (s *CrossingService) Update(c *fiber.Ctx) error {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if status, ok := data["status"].(string); ok && !models.ValidStatus(status, models.CrossingStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", status)})
	}

	res := s.DB.Model(&models.Crossing{}).Where("id = ?", c.Params("id")).
		Updates(scrubUpdate(data, sessionUsername(c)))
	if res.Error != nil {
		log.Printf("❌ [CROSSING] update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update crossing"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "crossing not found"})
	}
	return c.JSON(fiber.Map{"message": "crossing updated"})
}

func (s *CrossingService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Crossing{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [CROSSING] delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete crossing"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "crossing not found"})
	}
	return c.JSON(fiber.Map{"message": "crossing deleted"})
}
