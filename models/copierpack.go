// models/copierpack.go
package models

import (
	"time"
)

const (
	CopierPackStatusActive   = "Active"
	CopierPackStatusInactive = "Inactive"
	CopierPackStatusTesting  = "Testing"
	CopierPackStatusError    = "Error"
)

var CopierPackStatuses = []string{
	CopierPackStatusActive,
	CopierPackStatusInactive,
	CopierPackStatusTesting,
	CopierPackStatusError,
}

// CopierPack is a copy-trading account pack tied to a broker.
type CopierPack struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	PackNumber string `json:"pack_number" gorm:"not null"`
	BrokerID   uint   `json:"broker_id" gorm:"index"`

	AccountNumber string `json:"account_number"`
	// ⚠️ Opaque plain string, same caveat as wallet credentials.
	AccountPassword string `json:"account_password,omitempty"`
	BrokerServer    string `json:"broker_server"`
	AccountType     string `json:"account_type"` // Demo, Live, ...

	InitialBalance float64 `json:"initial_balance"`
	CurrentBalance float64 `json:"current_balance"`
	ProfitLoss     float64 `json:"profit_loss"`
	MaxDrawdown    float64 `json:"max_drawdown"`

	Status string `json:"status" gorm:"default:'Active'"`
	Notes  string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

// Sanitized blanks the account password for list views.
func (p CopierPack) Sanitized() CopierPack {
	p.AccountPassword = ""
	return p
}
