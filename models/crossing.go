// models/crossing.go
package models

import (
	"time"
)

const (
	CrossingStatusActive   = "Active"
	CrossingStatusInactive = "Inactive"
	CrossingStatusClosed   = "Closed"
)

var CrossingStatuses = []string{
	CrossingStatusActive,
	CrossingStatusInactive,
	CrossingStatusClosed,
}

// Crossing links broker, prop firm, wallet, PAMM group and copier pack
// combinations ("incroci") with aggregate performance and risk figures.
type Crossing struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null"`

	BrokerID     uint `json:"broker_id" gorm:"index"`
	PropFirmID   uint `json:"prop_firm_id" gorm:"index"`
	WalletID     uint `json:"wallet_id" gorm:"index"`
	PammGroupID  uint `json:"pamm_group_id" gorm:"index"`
	CopierPackID uint `json:"copier_pack_id" gorm:"index"`

	CrossingType   string  `json:"crossing_type"` // Broker-Prop, Wallet-PAMM, ...
	PerformancePct float64 `json:"performance_pct"`
	RiskPct        float64 `json:"risk_pct"`

	Status      string `json:"status" gorm:"default:'Active'"`
	Description string `json:"description"`
	Notes       string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}
