// models/broker.go
package models

import (
	"time"
)

const (
	BrokerStatusActive    = "Active"
	BrokerStatusInactive  = "Inactive"
	BrokerStatusSuspended = "Suspended"
	BrokerStatusBlocked   = "Blocked"
)

// BrokerStatuses is the closed set of valid broker states.
var BrokerStatuses = []string{
	BrokerStatusActive,
	BrokerStatusInactive,
	BrokerStatusSuspended,
	BrokerStatusBlocked,
}

type Broker struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	BrokerType  string `json:"broker_type"` // ECN, STP, Market Maker, ...
	Regulator   string `json:"regulator"`   // FCA, CySEC, ASIC, ...
	Country     string `json:"country"`
	Website     string `json:"website"`

	MinSpread   float64 `json:"min_spread"`
	Commission  float64 `json:"commission"`
	MaxLeverage int     `json:"max_leverage"`
	MinDeposit  float64 `json:"min_deposit"`

	// Comma-separated lists, mirroring the upstream table layout
	Currencies string `json:"currencies"`
	Platforms  string `json:"platforms"` // MT4, MT5, cTrader, ...

	Status string `json:"status" gorm:"default:'Active'"`
	Notes  string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

// ValidStatus reports whether s belongs to the given closed status set.
func ValidStatus(s string, set []string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
