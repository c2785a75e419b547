// services/ledger.go
package services

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"prop-broker-dashboard/models"
)

// The ledger editor buffers field edits in memory, keyed by (record id,
// field), and only touches storage on an explicit save. Everything here is
// plain data manipulation; persistence lives in LedgerService.

// PendingChange is one buffered single-field edit.
type PendingChange struct {
	RecordID uint      `json:"record_id"`
	Field    string    `json:"field"`
	Value    any       `json:"value"`
	EditedAt time.Time `json:"edited_at"`
}

// editableFields are the ledger columns a user may change in place, with a
// normalizer enforcing each field's bounds. The client display name is
// deliberately absent: it is read-only in this view.
var editableFields = map[string]func(any) (any, error){
	"deposit_state":      normalizeDepositState,
	"prop_quota":         normalizeInt(1, 999),
	"cycle_number":       normalizeInt(0, 999),
	"prop_phase":         normalizeText,
	"operation_number":   normalizeText,
	"broker_outcome":     normalizeText,
	"prop_outcome":       normalizeText,
	"prop_withdrawal":    normalizeDecimal(0, 999999.99, 2),
	"profit_withdrawal":  normalizeDecimal(0, 999999.99, 2),
	"commission_pct":     normalizeDecimal(0, 100, 1),
	"broker_credentials": normalizeText,
	"prop_credentials":   normalizeText,
	"purchased_by":       normalizeText,
}

// ChangeBuffer holds pending edits in insertion order. A second edit to the
// same (record, field) overwrites the first, value and timestamp both.
// Handlers for the same session run concurrently, so every access takes the
// lock.
type ChangeBuffer struct {
	mu      sync.Mutex
	changes map[string]*PendingChange
	order   []string
}

func NewChangeBuffer() *ChangeBuffer {
	return &ChangeBuffer{changes: make(map[string]*PendingChange)}
}

func changeKey(recordID uint, field string) string {
	return fmt.Sprintf("%d_%s", recordID, field)
}

// Put buffers one edit after validating the field name and its bounds.
func (b *ChangeBuffer) Put(recordID uint, field string, value any) error {
	normalize, ok := editableFields[field]
	if !ok {
		return fmt.Errorf("field %q is not editable", field)
	}
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	key := changeKey(recordID, field)
	if _, exists := b.changes[key]; !exists {
		b.order = append(b.order, key)
	}
	b.changes[key] = &PendingChange{
		RecordID: recordID,
		Field:    field,
		Value:    v,
		EditedAt: time.Now(),
	}
	return nil
}

func (b *ChangeBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}

// List returns the buffered changes in insertion order.
func (b *ChangeBuffer) List() []PendingChange {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PendingChange, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, *b.changes[key])
	}
	return out
}

func (b *ChangeBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = make(map[string]*PendingChange)
	b.order = nil
}

// BufferRegistry keeps one change buffer per session token. Buffers are
// request-scoped state made explicit: they are never shared across sessions
// and die with the session.
type BufferRegistry struct {
	mu      sync.Mutex
	buffers map[string]*ChangeBuffer
}

func NewBufferRegistry() *BufferRegistry {
	return &BufferRegistry{buffers: make(map[string]*ChangeBuffer)}
}

// Get returns the buffer for a session, creating it on first use.
func (r *BufferRegistry) Get(sessionToken string) *ChangeBuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	buf, ok := r.buffers[sessionToken]
	if !ok {
		buf = NewChangeBuffer()
		r.buffers[sessionToken] = buf
	}
	return buf
}

// Drop discards a session's buffer entirely.
func (r *BufferRegistry) Drop(sessionToken string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buffers, sessionToken)
}

// Retain drops every buffer whose session token is not in keep. Used by the
// sweeper to release buffers orphaned by expired sessions.
func (r *BufferRegistry) Retain(keep map[string]bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	dropped := 0
	for token := range r.buffers {
		if !keep[token] {
			delete(r.buffers, token)
			dropped++
		}
	}
	return dropped
}

// BatchFailure records one failed write during a best-effort pass.
type BatchFailure struct {
	ID     uint   `json:"id"`
	Reason string `json:"reason"`
}

// BatchResult reports a best-effort bulk pass: one entry per attempted
// record, successes and failures counted independently. Partial failure is
// surfaced, never hidden and never rolled back.
type BatchResult struct {
	Succeeded []uint         `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

func (r BatchResult) SuccessCount() int { return len(r.Succeeded) }
func (r BatchResult) FailureCount() int { return len(r.Failed) }

// GroupSummary carries the roll-up counters and sums shown above each group
// section, and system-wide across all groups. Always computed fresh from the
// loaded rows, never cached.
type GroupSummary struct {
	ClientCount    int     `json:"client_count"`
	DoneCount      int     `json:"done_count"`
	DepositedCount int     `json:"deposited_count"`

	TotalDeposits          float64 `json:"total_deposits"`
	TotalPropWithdrawals   float64 `json:"total_prop_withdrawals"`
	TotalProfitWithdrawals float64 `json:"total_profit_withdrawals"`
	MeanCommissionPct      float64 `json:"mean_commission_pct"`
}

// LedgerRow is one client row as the editor shows it, with the conditional
// presentation flags precomputed.
type LedgerRow struct {
	models.PammClient
	GroupName          string `json:"group_name"`
	Deposited          bool   `json:"deposited"`
	CommissionStandard bool   `json:"commission_standard"`
}

// GroupSection is one visually delimited group block in the editor.
type GroupSection struct {
	GroupName string       `json:"group_name"`
	Summary   GroupSummary `json:"summary"`
	Rows      []LedgerRow  `json:"rows"`
}

// Summarize computes the roll-ups for a set of client rows.
func Summarize(clients []models.PammClient) GroupSummary {
	s := GroupSummary{ClientCount: len(clients)}
	var commissionSum float64
	for _, c := range clients {
		if c.PropState == models.PropStateDone {
			s.DoneCount++
		}
		if c.DepositState == models.DepositStateDeposited {
			s.DepositedCount++
		}
		s.TotalDeposits += c.DepositAmount
		s.TotalPropWithdrawals += c.PropWithdrawal
		s.TotalProfitWithdrawals += c.ProfitWithdrawal
		commissionSum += c.CommissionPct
	}
	if len(clients) > 0 {
		s.MeanCommissionPct = commissionSum / float64(len(clients))
	}
	return s
}

// BuildSections sorts clients by (group name, client name) and partitions
// them into one section per group, each with its roll-ups.
func BuildSections(clients []models.PammClient, groupNames map[uint]string) []GroupSection {
	sorted := make([]models.PammClient, len(clients))
	copy(sorted, clients)
	sort.SliceStable(sorted, func(i, j int) bool {
		gi, gj := groupNames[sorted[i].GroupID], groupNames[sorted[j].GroupID]
		if gi != gj {
			return gi < gj
		}
		return sorted[i].ClientName < sorted[j].ClientName
	})

	var sections []GroupSection
	byName := make(map[string]int)
	for _, c := range sorted {
		name := groupNames[c.GroupID]
		idx, ok := byName[name]
		if !ok {
			idx = len(sections)
			byName[name] = idx
			sections = append(sections, GroupSection{GroupName: name})
		}
		sections[idx].Rows = append(sections[idx].Rows, LedgerRow{
			PammClient:         c,
			GroupName:          name,
			Deposited:          c.DepositState == models.DepositStateDeposited,
			CommissionStandard: c.CommissionStandard(),
		})
	}

	for i := range sections {
		rows := make([]models.PammClient, len(sections[i].Rows))
		for j, r := range sections[i].Rows {
			rows[j] = r.PammClient
		}
		sections[i].Summary = Summarize(rows)
	}
	return sections
}

// SearchClients returns the rows whose client or group name contains the
// query, case-insensitive. Display-only: the pending buffer is untouched.
func SearchClients(clients []models.PammClient, groupNames map[uint]string, query string) []models.PammClient {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return clients
	}
	var out []models.PammClient
	for _, c := range clients {
		if strings.Contains(strings.ToLower(c.ClientName), q) ||
			strings.Contains(strings.ToLower(groupNames[c.GroupID]), q) {
			out = append(out, c)
		}
	}
	return out
}

func normalizeText(v any) (any, error) {
	if v == nil {
		return "", nil
	}
	return fmt.Sprintf("%v", v), nil
}

func normalizeDepositState(v any) (any, error) {
	s, _ := v.(string)
	if !models.ValidStatus(s, models.DepositStates) {
		return nil, fmt.Errorf("invalid deposit state %q", s)
	}
	return s, nil
}

func normalizeInt(min, max int) func(any) (any, error) {
	return func(v any) (any, error) {
		f, ok := asFloat(v)
		if !ok || f != math.Trunc(f) {
			return nil, fmt.Errorf("expected an integer, got %v", v)
		}
		n := int(f)
		if n < min || n > max {
			return nil, fmt.Errorf("%d out of range [%d, %d]", n, min, max)
		}
		return n, nil
	}
}

func normalizeDecimal(min, max float64, decimals int) func(any) (any, error) {
	return func(v any) (any, error) {
		f, ok := asFloat(v)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %v", v)
		}
		if f < min || f > max {
			return nil, fmt.Errorf("%v out of range [%v, %v]", f, min, max)
		}
		pow := math.Pow10(decimals)
		return math.Round(f*pow) / pow, nil
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	default:
		return 0, false
	}
}
