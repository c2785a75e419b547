// services/stats_service.go
package services

import (
	"log"

	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StatsService computes the dashboard's aggregate counters. Counts are
// queried fresh on every request.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

func (s *StatsService) GetOverview(c *fiber.Ctx) error {
	counts := map[string]int64{}

	queries := []struct {
		key   string
		model any
		where []any
	}{
		{"active_brokers", &models.Broker{}, []any{"status = ?", models.BrokerStatusActive}},
		{"active_prop_firms", &models.PropFirm{}, []any{"status = ?", models.PropFirmStatusActive}},
		{"active_wallets", &models.Wallet{}, []any{"status = ?", models.WalletStatusActive}},
		{"active_copier_packs", &models.CopierPack{}, []any{"status = ?", models.CopierPackStatusActive}},
		{"active_pamm_groups", &models.PammGroup{}, []any{"status = ?", models.PammGroupStatusActive}},
		{"total_crossings", &models.Crossing{}, nil},
		{"total_pamm_clients", &models.PammClient{}, nil},
	}

	for _, q := range queries {
		var n int64
		db := s.DB.Model(q.model)
		if q.where != nil {
			db = db.Where(q.where[0], q.where[1:]...)
		}
		if err := db.Count(&n).Error; err != nil {
			log.Printf("❌ [STATS] count %s failed: %v", q.key, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute statistics"})
		}
		counts[q.key] = n
	}

	return c.JSON(counts)
}
