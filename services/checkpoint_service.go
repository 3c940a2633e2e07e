// services/checkpoint_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"action-quest-system/models"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// RandomWordRetentionDays is how far back a checkpoint word stays
// queryable. Pending tickets older than this can never resolve and get
// swept.
const RandomWordRetentionDays = 5

// Oracle is the external randomness capability. Fulfilment arrives out
// of band (the oracle worker polls for it); the core never blocks on it.
type Oracle interface {
	RequestRandomWords(checkpoint int64) (requestID string, err error)
}

// CheckpointService is the checkpoint store: one randomness bucket per
// completed UTC day, write-once on resolution, shared read-only by every
// player's settlement.
type CheckpointService struct {
	DB     *gorm.DB
	Clock  clockwork.Clock
	Oracle Oracle
}

func NewCheckpointService(db *gorm.DB, clock clockwork.Clock, oracle Oracle) *CheckpointService {
	return &CheckpointService{DB: db, Clock: clock, Oracle: oracle}
}

// RequestRandomness requests the word for the oldest completed day that
// has no request yet. A day can only be requested after it has fully
// elapsed, so the drawn word always postdates every interval it settles.
// Returns ErrRandomnessTooSoon once fully caught up; callers loop until
// then to catch up after downtime.
func (s *CheckpointService) RequestRandomness() (*models.Checkpoint, error) {
	now := s.Clock.Now().Unix()

	var next int64
	var last models.Checkpoint
	err := s.DB.Order("timestamp DESC").First(&last).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		next = models.CheckpointOf(now) - models.CheckpointInterval
	case err != nil:
		return nil, fmt.Errorf("failed to load latest checkpoint: %w", err)
	default:
		next = last.Timestamp + models.CheckpointInterval
	}

	// The bucket must be a completed day.
	if next+models.CheckpointInterval > now {
		return nil, ErrRandomnessTooSoon
	}

	requestID, err := s.Oracle.RequestRandomWords(next)
	if err != nil {
		return nil, fmt.Errorf("oracle request failed: %w", err)
	}

	cp := models.Checkpoint{
		Timestamp:   next,
		RequestID:   requestID,
		RequestedAt: now,
	}
	if err := s.DB.Create(&cp).Error; err != nil {
		return nil, fmt.Errorf("failed to persist checkpoint: %w", err)
	}
	log.Printf("[Checkpoint] Requested randomness for checkpoint %d (request %s)", next, requestID)
	return &cp, nil
}

// Fulfill resolves a randomness request. Word 0 is never valid and a
// resolved checkpoint cannot be re-fulfilled; the store is append-only
// per checkpoint key.
func (s *CheckpointService) Fulfill(requestID string, word uint64) error {
	if word == 0 {
		return ErrInvalidRandomWord
	}
	var cp models.Checkpoint
	if err := s.DB.First(&cp, "request_id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequestNotFound
		}
		return fmt.Errorf("failed to load checkpoint for request %s: %w", requestID, err)
	}
	if cp.Resolved() {
		return ErrAlreadyFulfilled
	}
	cp.Word = word
	cp.ResolvedAt = s.Clock.Now().Unix()
	if err := s.DB.Save(&cp).Error; err != nil {
		return fmt.Errorf("failed to resolve checkpoint %d: %w", cp.Timestamp, err)
	}
	log.Printf("✅ [Checkpoint] Checkpoint %d resolved", cp.Timestamp)
	return nil
}

// HasRandomWord reports whether the checkpoint covering ts has resolved
// randomness. Unavailability is the normal pending outcome, never an
// error.
func (s *CheckpointService) HasRandomWord(tx *gorm.DB, ts int64) bool {
	var cp models.Checkpoint
	if err := tx.First(&cp, "timestamp = ?", models.CheckpointOf(ts)).Error; err != nil {
		return false
	}
	return cp.Resolved()
}

// GetRandomWord returns the word covering ts, enforcing the temporal
// window: not older than the retention horizon, not the still-running
// day or later.
func (s *CheckpointService) GetRandomWord(tx *gorm.DB, ts int64) (uint64, error) {
	now := s.Clock.Now().Unix()
	if ts < now-RandomWordRetentionDays*models.CheckpointInterval {
		return 0, ErrCheckpointTooOld
	}
	if models.CheckpointOf(ts) >= models.CheckpointOf(now) {
		return 0, ErrCheckpointInFuture
	}
	var cp models.Checkpoint
	if err := tx.First(&cp, "timestamp = ?", models.CheckpointOf(ts)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNoRandomWord
		}
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if !cp.Resolved() {
		return 0, ErrNoRandomWord
	}
	return cp.Word, nil
}

// SweepExpiredTickets deletes pending tickets whose checkpoint fell out
// of the retention window; they can never resolve.
func (s *CheckpointService) SweepExpiredTickets() (int64, error) {
	horizon := s.Clock.Now().Unix() - RandomWordRetentionDays*models.CheckpointInterval
	res := s.DB.Where("checkpoint_ts < ?", horizon).Delete(&models.PendingRandomRewardTicket{})
	if res.Error != nil {
		return 0, fmt.Errorf("ticket sweep failed: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		log.Printf("[Checkpoint] Swept %d expired pending tickets", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
