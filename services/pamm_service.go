// services/pamm_service.go
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

// PammService covers PAMM group CRUD and the client rows hanging off each
// group. The ledger editor itself lives in LedgerService.
type PammService struct {
	DB *gorm.DB
}

func NewPammService(db *gorm.DB) *PammService {
	return &PammService{DB: db}
}

func PammGroupSchema() *forms.Schema {
	return forms.NewSchema("PAMM Group").
		Text("name", "Group Name", true).
		Text("manager_name", "Manager", true).
		Number("broker_id", "Broker", true, nil).
		Text("pamm_account", "PAMM Account", false).
		Number("total_capital", "Total Capital", false, 0.0).
		Number("participant_count", "Participants", false, 0).
		Number("performance_pct", "Performance %", false, 0.0).
		Number("monthly_perf_pct", "Monthly Performance %", false, 0.0).
		Number("max_drawdown", "Max Drawdown", false, 0.0).
		Number("manager_commission", "Manager Commission", false, 0.0).
		Number("broker_commission", "Broker Commission", false, 0.0).
		Select("status", "Status", models.PammGroupStatuses, true).
		Textarea("notes", "Notes")
}

func PammClientSchema() *forms.Schema {
	return forms.NewSchema("PAMM Client").
		Text("client_name", "Client", true).
		Number("deposit_amount", "Deposit", true, nil).
		Select("prop_state", "Prop State", models.PropStates, false).
		Select("deposit_state", "PAMM Deposit", []string{models.DepositStateDeposited, ""}, false).
		Number("prop_quota", "Prop Quota", false, 1).
		Number("cycle_number", "Cycle #", false, 0).
		Text("prop_phase", "Prop Phase", false).
		Text("operation_number", "Operation #", false).
		Text("broker_outcome", "Broker Outcome", false).
		Text("prop_outcome", "Prop Outcome", false).
		Number("prop_withdrawal", "Prop Withdrawal", false, 0.0).
		Number("profit_withdrawal", "Profit Withdrawal", false, 0.0).
		Number("commission_pct", "Commission %", false, models.StandardCommissionPct).
		Text("broker_credentials", "Broker Credentials", false).
		Text("prop_credentials", "Prop Credentials", false).
		Text("purchased_by", "Purchased By", false)
}

func (s *PammService) GetGroupSchema(c *fiber.Ctx) error {
	return c.JSON(PammGroupSchema())
}

func (s *PammService) GetClientSchema(c *fiber.Ctx) error {
	return c.JSON(PammClientSchema())
}

func (s *PammService) GetGroups(c *fiber.Ctx) error {
	var groups []models.PammGroup
	db := s.DB
	if c.Query("active") == "true" {
		db = db.Where("status = ?", models.PammGroupStatusActive)
	}
	if err := db.Find(&groups).Error; err != nil {
		log.Printf("❌ [PAMM] group list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch PAMM groups"})
	}
	return c.JSON(groups)
}

func (s *PammService) GetGroupByID(c *fiber.Ctx) error {
	var group models.PammGroup
	if err := s.DB.Preload("Clients").First(&group, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PAMM group not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(group)
}

type pammGroupCreateRequest struct {
	Name              string  `json:"name" validate:"required"`
	ManagerName       string  `json:"manager_name" validate:"required"`
	BrokerID          uint    `json:"broker_id" validate:"required"`
	PammAccount       string  `json:"pamm_account"`
	TotalCapital      float64 `json:"total_capital"`
	ParticipantCount  int     `json:"participant_count"`
	PerformancePct    float64 `json:"performance_pct"`
	MonthlyPerfPct    float64 `json:"monthly_perf_pct"`
	MaxDrawdown       float64 `json:"max_drawdown"`
	ManagerCommission float64 `json:"manager_commission"`
	BrokerCommission  float64 `json:"broker_commission"`
	Status            string  `json:"status"`
	Notes             string  `json:"notes"`
}

func (s *PammService) CreateGroup(c *fiber.Ctx) error {
	var req pammGroupCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status == "" {
		req.Status = models.PammGroupStatusActive
	}
	if !models.ValidStatus(req.Status, models.PammGroupStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", req.Status)})
	}

	group := models.PammGroup{
		Name:              req.Name,
		ManagerName:       req.ManagerName,
		BrokerID:          req.BrokerID,
		PammAccount:       req.PammAccount,
		TotalCapital:      req.TotalCapital,
		ParticipantCount:  req.ParticipantCount,
		PerformancePct:    req.PerformancePct,
		MonthlyPerfPct:    req.MonthlyPerfPct,
		MaxDrawdown:       req.MaxDrawdown,
		ManagerCommission: req.ManagerCommission,
		BrokerCommission:  req.BrokerCommission,
		Status:            req.Status,
		Notes:             req.Notes,
		CreatedBy:         sessionUsername(c),
		UpdatedBy:         sessionUsername(c),
	}
	if err := s.DB.Create(&group).Error; err != nil {
		log.Printf("❌ [PAMM] group create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create PAMM group"})
	}
	log.Printf("✅ [PAMM] created group %s (ID: %d)", group.Name, group.ID)
	return c.Status(fiber.StatusCreated).JSON(group)
}

func (s *PammService) UpdateGroup(c *fiber.Ctx) error {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if status, ok := data["status"].(string); ok && !models.ValidStatus(status, models.PammGroupStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", status)})
	}

	res := s.DB.Model(&models.PammGroup{}).Where("id = ?", c.Params("id")).
		Updates(scrubUpdate(data, sessionUsername(c)))
	if res.Error != nil {
		log.Printf("❌ [PAMM] group update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update PAMM group"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PAMM group not found"})
	}
	return c.JSON(fiber.Map{"message": "PAMM group updated"})
}

func (s *PammService) DeleteGroup(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.PammGroup{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [PAMM] group delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete PAMM group"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PAMM group not found"})
	}
	return c.JSON(fiber.Map{"message": "PAMM group deleted"})
}

// GetClients lists the client rows of one group.
func (s *PammService) GetClients(c *fiber.Ctx) error {
	var clients []models.PammClient
	if err := s.DB.Where("group_id = ?", c.Params("id")).
		Order("client_name").Find(&clients).Error; err != nil {
		log.Printf("❌ [PAMM] client list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch clients"})
	}
	return c.JSON(clients)
}

type pammClientCreateRequest struct {
	ClientName    string  `json:"client_name" validate:"required"`
	DepositAmount float64 `json:"deposit_amount"`
	PropState     string  `json:"prop_state"`
	DepositState  string  `json:"deposit_state"`
	PropQuota     int     `json:"prop_quota"`
	// Pointer so an explicit 0.0 is distinguishable from an omitted field.
	CommissionPct *float64 `json:"commission_pct"`
	PurchasedBy   string   `json:"purchased_by"`
}

// CreateClient adds a ledger row to a group. The group reference is
// required: a client always belongs to exactly one group.
func (s *PammService) CreateClient(c *fiber.Ctx) error {
	var group models.PammGroup
	if err := s.DB.First(&group, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "PAMM group not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	var req pammClientCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.PropState == "" {
		req.PropState = models.PropStateNotDone
	}
	if !models.ValidStatus(req.PropState, models.PropStates) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid prop state %q", req.PropState)})
	}
	if !models.ValidStatus(req.DepositState, models.DepositStates) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid deposit state %q", req.DepositState)})
	}
	if req.PropQuota == 0 {
		req.PropQuota = 1
	}
	commission := models.StandardCommissionPct
	if req.CommissionPct != nil {
		commission = *req.CommissionPct
	}
	if commission < 0 || commission > 100 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("commission %v out of range [0, 100]", commission)})
	}

	client := models.PammClient{
		GroupID:       group.ID,
		ClientName:    req.ClientName,
		DepositAmount: req.DepositAmount,
		PropState:     req.PropState,
		DepositState:  req.DepositState,
		PropQuota:     req.PropQuota,
		CommissionPct: commission,
		PurchasedBy:   req.PurchasedBy,
		CreatedBy:     sessionUsername(c),
		UpdatedBy:     sessionUsername(c),
	}
	if err := s.DB.Create(&client).Error; err != nil {
		log.Printf("❌ [PAMM] client create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create client"})
	}
	log.Printf("✅ [PAMM] created client %s in group %s", client.ClientName, group.Name)
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (s *PammService) DeleteClient(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.PammClient{}, "id = ?", c.Params("clientId"))
	if res.Error != nil {
		log.Printf("❌ [PAMM] client delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete client"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "client not found"})
	}
	return c.JSON(fiber.Map{"message": "client deleted"})
}
