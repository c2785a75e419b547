// services/ledger_service.go
package services

import (
	"fmt"
	"log"

	"prop-broker-dashboard/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LedgerService drives the spreadsheet-replica editor over PAMM client rows:
// grouped display with roll-ups, per-session edit buffering, best-effort bulk
// save, bulk status updates and search.
type LedgerService struct {
	DB      *gorm.DB
	Buffers *BufferRegistry
}

func NewLedgerService(db *gorm.DB, buffers *BufferRegistry) *LedgerService {
	return &LedgerService{DB: db, Buffers: buffers}
}

func (s *LedgerService) loadGroupNames() (map[uint]string, error) {
	var groups []models.PammGroup
	if err := s.DB.Find(&groups).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names, nil
}

func (s *LedgerService) loadLedger(query string) (fiber.Map, error) {
	names, err := s.loadGroupNames()
	if err != nil {
		return nil, err
	}
	var clients []models.PammClient
	if err := s.DB.Find(&clients).Error; err != nil {
		return nil, err
	}
	if query != "" {
		clients = SearchClients(clients, names, query)
	}
	return fiber.Map{
		"groups":  BuildSections(clients, names),
		"overall": Summarize(clients),
	}, nil
}

// GetLedger returns every client row sorted by (group, client), partitioned
// per group with roll-up counters, plus system-wide totals. ?q= filters by
// client or group name, case-insensitive.
func (s *LedgerService) GetLedger(c *fiber.Ctx) error {
	ledger, err := s.loadLedger(c.Query("q", ""))
	if err != nil {
		log.Printf("❌ [LEDGER] failed to load ledger: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load ledger"})
	}
	session := c.Locals("session").(models.Session)
	ledger["pending_changes"] = s.Buffers.Get(session.Token).Len()
	return c.JSON(ledger)
}

type bufferEditRequest struct {
	RecordID uint   `json:"record_id"`
	Field    string `json:"field"`
	Value    any    `json:"value"`
}

// BufferEdit records one field edit into the session's pending buffer.
// Nothing is persisted until an explicit save.
func (s *LedgerService) BufferEdit(c *fiber.Ctx) error {
	var req bufferEditRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.RecordID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "record_id is required"})
	}

	session := c.Locals("session").(models.Session)
	buf := s.Buffers.Get(session.Token)
	if err := buf.Put(req.RecordID, req.Field, req.Value); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"pending_changes": buf.Len()})
}

// ListChanges returns the session's buffered edits in insertion order.
func (s *LedgerService) ListChanges(c *fiber.Ctx) error {
	session := c.Locals("session").(models.Session)
	buf := s.Buffers.Get(session.Token)
	return c.JSON(fiber.Map{"changes": buf.List(), "pending_changes": buf.Len()})
}

// DiscardChanges drops the session's buffer without contacting storage.
func (s *LedgerService) DiscardChanges(c *fiber.Ctx) error {
	session := c.Locals("session").(models.Session)
	s.Buffers.Drop(session.Token)
	log.Printf("🗑️ [LEDGER] pending changes discarded for %s", session.Username)
	return c.JSON(fiber.Map{"pending_changes": 0})
}

// SaveChanges flushes the session's buffer: one single-field UPDATE per
// buffered change, in insertion order, best-effort. A failed change never
// blocks its siblings and there is no rollback. The buffer is cleared
// unconditionally afterwards, failures included, and the authoritative
// post-save ledger is reloaded into the response.
func (s *LedgerService) SaveChanges(c *fiber.Ctx) error {
	session := c.Locals("session").(models.Session)
	buf := s.Buffers.Get(session.Token)
	changes := buf.List()

	result := s.applyChanges(changes)
	buf.Clear()

	log.Printf("💾 [LEDGER] %s saved %d changes: %d ok, %d failed",
		session.Username, len(changes), result.SuccessCount(), result.FailureCount())

	ledger, err := s.loadLedger("")
	if err != nil {
		log.Printf("❌ [LEDGER] reload after save failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  "saved but failed to reload ledger",
			"result": result,
		})
	}
	return c.JSON(fiber.Map{
		"result":        result,
		"success_count": result.SuccessCount(),
		"failure_count": result.FailureCount(),
		"ledger":        ledger,
	})
}

func (s *LedgerService) applyChanges(changes []PendingChange) BatchResult {
	var result BatchResult
	for _, ch := range changes {
		if err := s.updateClientField(ch.RecordID, ch.Field, ch.Value); err != nil {
			log.Printf("❌ [LEDGER] update record %d field %s: %v", ch.RecordID, ch.Field, err)
			result.Failed = append(result.Failed, BatchFailure{ID: ch.RecordID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, ch.RecordID)
	}
	return result
}

func (s *LedgerService) updateClientField(id uint, field string, value any) error {
	res := s.DB.Model(&models.PammClient{}).Where("id = ?", id).Update(field, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("record %d not found", id)
	}
	return nil
}

type bulkStatusRequest struct {
	IDs   []uint `json:"ids"`
	Field string `json:"field"` // prop_state or deposit_state
	Value string `json:"value"`
}

// BulkStatus applies one target prop-state or deposit-state to an explicit
// list of client ids via repeated single-record updates. Best-effort, no
// atomicity across the batch.
func (s *LedgerService) BulkStatus(c *fiber.Ctx) error {
	var req bulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.IDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "ids is required"})
	}

	switch req.Field {
	case "prop_state":
		if !models.ValidStatus(req.Value, models.PropStates) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid prop state %q", req.Value)})
		}
	case "deposit_state":
		if !models.ValidStatus(req.Value, models.DepositStates) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": fmt.Sprintf("invalid deposit state %q", req.Value)})
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "field must be prop_state or deposit_state"})
	}

	var result BatchResult
	for _, id := range req.IDs {
		if err := s.updateClientField(id, req.Field, req.Value); err != nil {
			log.Printf("❌ [LEDGER] bulk %s on record %d: %v", req.Field, id, err)
			result.Failed = append(result.Failed, BatchFailure{ID: id, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	return c.JSON(fiber.Map{
		"result":        result,
		"success_count": result.SuccessCount(),
		"failure_count": result.FailureCount(),
	})
}
