// models/propfirm.go
package models

import (
	"time"
)

const (
	PropFirmStatusActive      = "Active"
	PropFirmStatusInactive    = "Inactive"
	PropFirmStatusUnderReview = "Under Review"
	PropFirmStatusRejected    = "Rejected"
)

var PropFirmStatuses = []string{
	PropFirmStatusActive,
	PropFirmStatusInactive,
	PropFirmStatusUnderReview,
	PropFirmStatusRejected,
}

type PropFirm struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"not null"`
	PropType string `json:"prop_type"` // Evaluation, Instant Funding, ...

	InitialCapital float64 `json:"initial_capital"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	ProfitTarget   float64 `json:"profit_target"`

	TradingRules     string `json:"trading_rules"`
	TimeRestrictions string `json:"time_restrictions"`
	Instruments      string `json:"instruments"` // comma-separated

	Commission float64 `json:"commission"`
	MonthlyFee float64 `json:"monthly_fee"`

	Status string `json:"status" gorm:"default:'Active'"`
	Notes  string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}
