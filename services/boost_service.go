// services/boost_service.go
package services

import (
	"errors"
	"fmt"

	"action-quest-system/models"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// BoostService owns the single active boost slot per player.
type BoostService struct {
	DB     *gorm.DB
	Clock  clockwork.Clock
	Ledger Ledger
}

func NewBoostService(db *gorm.DB, clock clockwork.Clock, ledger Ledger) *BoostService {
	return &BoostService{DB: db, Clock: clock, Ledger: ledger}
}

// StartBoost consumes one vial from the player's ledger balance and
// installs the boost, overwriting any existing one. Remaining duration
// of the replaced boost is lost: use it or lose it.
func (s *BoostService) StartBoost(tx *gorm.DB, player *models.Player, itemID int64) error {
	var item models.BoostItem
	if err := tx.First(&item, "item_id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoostItemNotFound
		}
		return fmt.Errorf("failed to load boost item %d: %w", itemID, err)
	}

	if err := s.Ledger.Burn(player.OwnerID, itemID, 1); err != nil {
		return err
	}

	boost := models.ActiveBoost{
		PlayerID:  player.ID,
		ItemID:    itemID,
		Type:      item.Type,
		Value:     item.Value,
		StartTime: s.Clock.Now().Unix(),
		Duration:  item.Duration,
	}
	if err := tx.Save(&boost).Error; err != nil {
		return fmt.Errorf("failed to save active boost: %w", err)
	}
	return nil
}

// ActiveBoost returns the player's boost slot, or an inactive zero slot
// if none has ever been set.
func (s *BoostService) ActiveBoost(tx *gorm.DB, playerID int64) (*models.ActiveBoost, error) {
	var boost models.ActiveBoost
	err := tx.First(&boost, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.ActiveBoost{PlayerID: playerID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active boost: %w", err)
	}
	return &boost, nil
}

// clearBoost empties the slot. Called only once processing has
// committed past the boost's end time, never earlier, so preview can
// still read the overlap until then.
func (s *BoostService) clearBoost(tx *gorm.DB, playerID int64) error {
	return tx.Model(&models.ActiveBoost{}).
		Where("player_id = ?", playerID).
		Updates(map[string]interface{}{
			"item_id": models.ItemNone, "type": "", "value": 0, "start_time": 0, "duration": 0,
		}).Error
}

// overlapSeconds is the clamped intersection of the boost window
// [boostStart, boostEnd) and the interval [start, end).
func overlapSeconds(boostStart, boostEnd, start, end int64) int64 {
	lo := boostStart
	if start > lo {
		lo = start
	}
	hi := boostEnd
	if end < hi {
		hi = end
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// boostXPApplies says whether a boost type adds XP for the given skill.
// Gathering boosts never touch XP; a mismatched NonCombatXP boost is
// simply worth zero for that slice, it is not invalidated.
func boostXPApplies(bt models.BoostType, skill models.Skill, isCombat bool) bool {
	switch bt {
	case models.BoostAnyXP:
		return true
	case models.BoostNonCombatXP:
		return !isCombat && !skill.IsCombat()
	case models.BoostCombatXP:
		return isCombat
	}
	return false
}
