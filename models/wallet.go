// models/wallet.go
package models

import (
	"time"
)

const (
	WalletStatusActive    = "Active"
	WalletStatusInactive  = "Inactive"
	WalletStatusSuspended = "Suspended"
	WalletStatusBlocked   = "Blocked"
)

var WalletStatuses = []string{
	WalletStatusActive,
	WalletStatusInactive,
	WalletStatusSuspended,
	WalletStatusBlocked,
}

type Wallet struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Address    string `json:"address" gorm:"uniqueIndex;not null"`
	WalletType string `json:"wallet_type"` // Bitcoin, Ethereum, Tether, ...
	Name       string `json:"name"`

	Balance  float64 `json:"balance"`
	Currency string  `json:"currency"`
	Exchange string  `json:"exchange"`

	// ⚠️ Stored as opaque plain strings. Nothing in this layer encrypts them;
	// callers must encrypt before writing if confidentiality is required.
	// Never returned in list responses.
	PrivateKey string `json:"private_key,omitempty"`
	SeedPhrase string `json:"seed_phrase,omitempty"`

	Status string `json:"status" gorm:"default:'Active'"`
	Notes  string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

// Sanitized returns a copy safe for list views, with credential fields blanked.
func (w Wallet) Sanitized() Wallet {
	w.PrivateKey = ""
	w.SeedPhrase = ""
	return w
}
