// forms/table.go
package forms

import (
	"fmt"
)

// nameColumns are the known identifying columns, checked in order, used to
// build a human-readable selector label per row.
var nameColumns = []string{
	"name",
	"client_name",
	"group_name",
	"username",
	"address",
	"pack_number",
	"manager_name",
}

// headerLabels translates raw column names into display headers.
var headerLabels = map[string]string{
	"name":               "Name",
	"client_name":        "Client",
	"group_name":         "Group",
	"username":           "Username",
	"address":            "Address",
	"pack_number":        "Pack #",
	"manager_name":       "Manager",
	"broker_type":        "Broker Type",
	"prop_type":          "Prop Type",
	"wallet_type":        "Wallet Type",
	"crossing_type":      "Crossing Type",
	"regulator":          "Regulator",
	"country":            "Country",
	"status":             "Status",
	"notes":              "Notes",
	"deposit_amount":     "Deposit",
	"deposit_state":      "PAMM Deposit",
	"prop_state":         "Prop State",
	"prop_quota":         "Prop Quota",
	"cycle_number":       "Cycle #",
	"prop_phase":         "Prop Phase",
	"operation_number":   "Operation #",
	"broker_outcome":     "Broker Outcome",
	"prop_outcome":       "Prop Outcome",
	"prop_withdrawal":    "Prop Withdrawal",
	"profit_withdrawal":  "Profit Withdrawal",
	"commission_pct":     "Commission %",
	"broker_credentials": "Broker Credentials",
	"prop_credentials":   "Prop Credentials",
	"purchased_by":       "Purchased By",
	"created_at":         "Created",
	"updated_at":         "Updated",
	"min_spread":         "Min Spread",
	"commission":         "Commission",
	"max_leverage":       "Max Leverage",
	"min_deposit":        "Min Deposit",
	"initial_capital":    "Initial Capital",
	"max_drawdown_pct":   "Max Drawdown %",
	"profit_target":      "Profit Target",
	"monthly_fee":        "Monthly Fee",
	"balance":            "Balance",
	"currency":           "Currency",
	"exchange":           "Exchange",
	"email":              "Email",
	"role_id":            "Role",
	"is_active":          "Active",
	"last_login":         "Last Login",
}

// HeaderLabel returns the display header for a column, falling back to the
// raw column name when no translation exists.
func HeaderLabel(col string) string {
	if l, ok := headerLabels[col]; ok {
		return l
	}
	return col
}

// SelectorLabel builds the per-row label for the single-selection panel:
// "<name> (ID: <id>)" when a known identifying column is present, otherwise
// "ID: <id>", otherwise a positional fallback.
func SelectorLabel(row map[string]any, position int) string {
	id, hasID := row["id"]
	for _, col := range nameColumns {
		if v, ok := row[col]; ok {
			if s, ok := v.(string); ok && s != "" {
				if hasID {
					return fmt.Sprintf("%s (ID: %v)", s, id)
				}
				return s
			}
		}
	}
	if hasID {
		return fmt.Sprintf("ID: %v", id)
	}
	return fmt.Sprintf("Row %d", position+1)
}

// FormatDetails renders every field of the selected row except the raw id:
// floats to two decimals, nils as "N/A", headers translated.
func FormatDetails(row map[string]any) map[string]string {
	out := make(map[string]string, len(row))
	for col, v := range row {
		if col == "id" {
			continue
		}
		out[HeaderLabel(col)] = FormatValue(v)
	}
	return out
}

func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "N/A"
	case float64:
		return fmt.Sprintf("%.2f", t)
	case float32:
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
