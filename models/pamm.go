// models/pamm.go
package models

import (
	"time"
)

const (
	PammGroupStatusActive          = "Active"
	PammGroupStatusInactive        = "Inactive"
	PammGroupStatusUnderManagement = "Under Management"
	PammGroupStatusClosed          = "Closed"
)

var PammGroupStatuses = []string{
	PammGroupStatusActive,
	PammGroupStatusInactive,
	PammGroupStatusUnderManagement,
	PammGroupStatusClosed,
}

// Prop evaluation outcome per ledger row. "Not done" is the starting state;
// forward transitions are made by hand through the ledger editor and are not
// guarded — this is a data-entry tool, not a workflow engine.
const (
	PropStateDone                = "Done"
	PropStateNotDone             = "Not done"
	PropStateInsufficientBalance = "Insufficient balance"
)

var PropStates = []string{
	PropStateDone,
	PropStateNotDone,
	PropStateInsufficientBalance,
}

// PAMM deposit state is two-valued: deposited, or the empty string.
const (
	DepositStateDeposited    = "Deposited"
	DepositStateNotDeposited = ""
)

var DepositStates = []string{
	DepositStateDeposited,
	DepositStateNotDeposited,
}

// StandardCommissionPct is the expected commission on every ledger row.
// Anything else renders as a flagged anomaly.
const StandardCommissionPct = 25.0

type PammGroup struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	ManagerName string `json:"manager_name"`
	BrokerID    uint   `json:"broker_id" gorm:"index"`
	PammAccount string `json:"pamm_account"`

	TotalCapital     float64 `json:"total_capital"`
	ParticipantCount int     `json:"participant_count"`
	PerformancePct   float64 `json:"performance_pct"`
	MonthlyPerfPct   float64 `json:"monthly_perf_pct"`
	MaxDrawdown      float64 `json:"max_drawdown"`

	ManagerCommission float64 `json:"manager_commission"`
	BrokerCommission  float64 `json:"broker_commission"`

	Status string `json:"status" gorm:"default:'Active'"`
	Notes  string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`

	Clients []PammClient `json:"clients,omitempty" gorm:"foreignKey:GroupID"`
}

// PammClient is one ledger row: an investor-client inside a PAMM group,
// tracking their prop-firm evaluation progress against the money they put in.
type PammClient struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	GroupID uint `json:"group_id" gorm:"index;not null"`

	// Display name, possibly with a bracketed deposit ("MANUEL CARINI [4000]").
	// Read-only in the ledger editor.
	ClientName    string  `json:"client_name" gorm:"not null"`
	DepositAmount float64 `json:"deposit_amount"`

	PropState    string `json:"prop_state" gorm:"default:'Not done'"`
	DepositState string `json:"deposit_state" gorm:"default:''"`

	PropQuota       int    `json:"prop_quota" gorm:"default:1"`
	CycleNumber     int    `json:"cycle_number" gorm:"default:0"`
	PropPhase       string `json:"prop_phase"`
	OperationNumber string `json:"operation_number"`
	BrokerOutcome   string `json:"broker_outcome"`
	PropOutcome     string `json:"prop_outcome"`

	PropWithdrawal   float64 `json:"prop_withdrawal"`
	ProfitWithdrawal float64 `json:"profit_withdrawal"`
	CommissionPct    float64 `json:"commission_pct" gorm:"default:25"`

	// ⚠️ Opaque plain strings, never encrypted here.
	BrokerCredentials string `json:"broker_credentials"`
	PropCredentials   string `json:"prop_credentials"`

	PurchasedBy string `json:"purchased_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by"`
	UpdatedBy string    `json:"updated_by"`
}

// CommissionStandard reports whether the row carries the standard 25%.
func (c PammClient) CommissionStandard() bool {
	return c.CommissionPct == StandardCommissionPct
}
