// services/wallet_service.go
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

type WalletService struct {
	DB *gorm.DB
}

func NewWalletService(db *gorm.DB) *WalletService {
	return &WalletService{DB: db}
}

func WalletSchema() *forms.Schema {
	return forms.NewSchema("Wallet").
		Text("address", "Address", true).
		Text("wallet_type", "Wallet Type", false).
		Text("name", "Name", false).
		Number("balance", "Balance", false, 0.0).
		Text("currency", "Currency", false).
		Text("exchange", "Exchange", false).
		Add(forms.Field{Name: "private_key", Label: "Private Key", Kind: forms.FieldText,
			Help: "Stored as-is — encrypt before submitting if confidentiality is required"}).
		Add(forms.Field{Name: "seed_phrase", Label: "Seed Phrase", Kind: forms.FieldTextarea,
			Help: "Stored as-is — encrypt before submitting if confidentiality is required"}).
		Select("status", "Status", models.WalletStatuses, true).
		Textarea("notes", "Notes")
}

func (s *WalletService) GetSchema(c *fiber.Ctx) error {
	return c.JSON(WalletSchema())
}

// GetAll lists wallets with credential fields blanked — private keys and
// seed phrases never appear in list views.
func (s *WalletService) GetAll(c *fiber.Ctx) error {
	var wallets []models.Wallet
	db := s.DB
	if c.Query("active") == "true" {
		db = db.Where("status = ?", models.WalletStatusActive)
	}
	if err := db.Find(&wallets).Error; err != nil {
		log.Printf("❌ [WALLET] list failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to fetch wallets"})
	}
	for i := range wallets {
		wallets[i] = wallets[i].Sanitized()
	}
	return c.JSON(wallets)
}

func (s *WalletService) GetByID(c *fiber.Ctx) error {
	var wallet models.Wallet
	if err := s.DB.First(&wallet, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}
	return c.JSON(wallet)
}

type walletCreateRequest struct {
	Address    string  `json:"address" validate:"required"`
	WalletType string  `json:"wallet_type"`
	Name       string  `json:"name"`
	Balance    float64 `json:"balance"`
	Currency   string  `json:"currency"`
	Exchange   string  `json:"exchange"`
	PrivateKey string  `json:"private_key"`
	SeedPhrase string  `json:"seed_phrase"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes"`
}

func (s *WalletService) Create(c *fiber.Ctx) error {
	var req walletCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.Status == "" {
		req.Status = models.WalletStatusActive
	}
	if !models.ValidStatus(req.Status, models.WalletStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", req.Status)})
	}

	wallet := models.Wallet{
		Address:    req.Address,
		WalletType: req.WalletType,
		Name:       req.Name,
		Balance:    req.Balance,
		Currency:   req.Currency,
		Exchange:   req.Exchange,
		PrivateKey: req.PrivateKey,
		SeedPhrase: req.SeedPhrase,
		Status:     req.Status,
		Notes:      req.Notes,
		CreatedBy:  sessionUsername(c),
		UpdatedBy:  sessionUsername(c),
	}
	if err := s.DB.Create(&wallet).Error; err != nil {
		log.Printf("❌ [WALLET] create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to create wallet"})
	}
	log.Printf("✅ [WALLET] created %s (ID: %d)", wallet.Address, wallet.ID)
	return c.Status(fiber.StatusCreated).JSON(wallet.Sanitized())
}

func (s *WalletService) Update(c *fiber.Ctx) error {
	data := map[string]any{}
	if err := c.BodyParser(&data); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if status, ok := data["status"].(string); ok && !models.ValidStatus(status, models.WalletStatuses) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid status %q", status)})
	}

	res := s.DB.Model(&models.Wallet{}).Where("id = ?", c.Params("id")).
		Updates(scrubUpdate(data, sessionUsername(c)))
	if res.Error != nil {
		log.Printf("❌ [WALLET] update failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update wallet"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
	}
	return c.JSON(fiber.Map{"message": "wallet updated"})
}

func (s *WalletService) Delete(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Wallet{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("❌ [WALLET] delete failed: %v", res.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete wallet"})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "wallet not found"})
	}
	return c.JSON(fiber.Map{"message": "wallet deleted"})
}
