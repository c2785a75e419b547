// services/export_service.go
package services

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"prop-broker-dashboard/models"
	"prop-broker-dashboard/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// ExportService snapshots the ledger into a CSV with the original
// spreadsheet's 14 columns and uploads it to R2.
type ExportService struct {
	DB *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{DB: db}
}

// ledgerCSVHeader mirrors the spreadsheet column layout the ledger editor
// replicates.
var ledgerCSVHeader = []string{
	"Group",
	"Client",
	"PAMM Deposit",
	"Prop Quota",
	"Cycle #",
	"Prop Phase",
	"Operation #",
	"Broker Outcome",
	"Prop Outcome",
	"Prop Withdrawal",
	"Profit Withdrawal",
	"Commission %",
	"Broker Credentials",
	"Prop Credentials",
	"Purchased By",
}

// ExportLedger builds the snapshot (optionally for a single group via
// ?group=<name>) and returns the uploaded object URL.
func (s *ExportService) ExportLedger(c *fiber.Ctx) error {
	var groups []models.PammGroup
	if err := s.DB.Find(&groups).Error; err != nil {
		log.Printf("❌ [EXPORT] failed to load groups: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load groups"})
	}
	names := make(map[uint]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}

	var clients []models.PammClient
	if err := s.DB.Find(&clients).Error; err != nil {
		log.Printf("❌ [EXPORT] failed to load clients: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load clients"})
	}

	groupFilter := c.Query("group", "")
	sections := BuildSections(clients, names)

	var rows [][]string
	for _, section := range sections {
		if groupFilter != "" && section.GroupName != groupFilter {
			continue
		}
		for _, r := range section.Rows {
			rows = append(rows, []string{
				section.GroupName,
				r.ClientName,
				r.DepositState,
				strconv.Itoa(r.PropQuota),
				strconv.Itoa(r.CycleNumber),
				r.PropPhase,
				r.OperationNumber,
				r.BrokerOutcome,
				r.PropOutcome,
				fmt.Sprintf("%.2f", r.PropWithdrawal),
				fmt.Sprintf("%.2f", r.ProfitWithdrawal),
				fmt.Sprintf("%.1f", r.CommissionPct),
				r.BrokerCredentials,
				r.PropCredentials,
				r.PurchasedBy,
			})
		}
	}

	data, err := utils.BuildCSV(ledgerCSVHeader, rows)
	if err != nil {
		log.Printf("❌ [EXPORT] CSV build failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build CSV"})
	}

	name := "pamm-ledger"
	if groupFilter != "" {
		name = slug.Make(groupFilter)
	}
	key := fmt.Sprintf("exports/%s-%s-%s.csv",
		name, time.Now().Format("2006-01-02"), uuid.NewString()[:8])

	url, err := utils.UploadBytesToR2(data, key, "text/csv")
	if err != nil {
		log.Printf("❌ [EXPORT] upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to upload export"})
	}

	log.Printf("📤 [EXPORT] ledger snapshot uploaded: %s (%d rows)", key, len(rows))
	return c.JSON(fiber.Map{"url": url, "rows": len(rows)})
}
