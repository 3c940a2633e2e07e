// services/catalog_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"

	"action-quest-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// SnapshotArchiver receives a JSON snapshot of every catalog version.
// Nil disables archiving (tests, local runs without R2 credentials).
type SnapshotArchiver interface {
	Upload(key string, data []byte, contentType string) (string, error)
}

// CatalogService is the admin-gated mutation surface of the action
// catalog. Settlement correctness only consumes it read-only; all the
// ordering/uniqueness invariants are enforced here at write time so the
// read path never has to.
type CatalogService struct {
	DB      *gorm.DB
	Archive SnapshotArchiver
}

func NewCatalogService(db *gorm.DB, archive SnapshotArchiver) *CatalogService {
	return &CatalogService{DB: db, Archive: archive}
}

// The threshold schedule. AddXPThresholdRewards only accepts values on
// this ladder.
var xpThresholdLadder = []int64{
	500, 1000, 2500, 5000, 10000, 30000, 50000,
	100000, 250000, 500000, 1000000,
}

type RewardInput struct {
	ItemID int64 `json:"item_id"`
	Rate   int64 `json:"rate"`
	Chance int   `json:"chance"`
	Amount int64 `json:"amount"`
}

type ActionInput struct {
	ActionID             int64              `json:"action_id"`
	Name                 string             `json:"name"`
	Skill                models.Skill       `json:"skill"`
	XPPerHour            int64              `json:"xp_per_hour"`
	MinXP                int64              `json:"min_xp"`
	IsDynamic            bool               `json:"is_dynamic"`
	NumSpawned           int                `json:"num_spawned"`
	HandItemRangeMin     int64              `json:"hand_item_range_min"`
	HandItemRangeMax     int64              `json:"hand_item_range_max"`
	IsAvailable          bool               `json:"is_available"`
	ActionChoiceRequired bool               `json:"action_choice_required"`
	SuccessPercent       int                `json:"success_percent"`
	GuaranteedRewards    []RewardInput      `json:"guaranteed_rewards"`
	RandomRewards        []RewardInput      `json:"random_rewards"`
	CombatStats          models.CombatStats `json:"combat_stats"`
}

func validateActionInput(in *ActionInput) error {
	if !in.Skill.IsValid() {
		return ErrInvalidSkill
	}
	if in.SuccessPercent < 0 || in.SuccessPercent > 100 {
		return ErrInvalidSuccessPercent
	}
	if in.HandItemRangeMin > in.HandItemRangeMax {
		return ErrInvalidHandItemRange
	}
	if err := validateGuaranteedRewards(in.GuaranteedRewards); err != nil {
		return err
	}
	return validateRandomRewards(in.RandomRewards)
}

func validateGuaranteedRewards(rewards []RewardInput) error {
	seen := make(map[int64]bool)
	for _, r := range rewards {
		if seen[r.ItemID] {
			return ErrGuaranteedRewardDuplicate
		}
		seen[r.ItemID] = true
		if r.Rate <= 0 {
			return ErrInvalidRewardAmount
		}
	}
	return nil
}

// validateRandomRewards enforces the write-time table invariant:
// strictly ascending chance, unique item ids, sane bounds.
func validateRandomRewards(rewards []RewardInput) error {
	seen := make(map[int64]bool)
	prevChance := 0
	for _, r := range rewards {
		if r.Chance < 1 || r.Chance > chanceScale {
			return ErrInvalidRewardChance
		}
		if r.Chance <= prevChance {
			return ErrRandomRewardsOutOfOrder
		}
		prevChance = r.Chance
		if seen[r.ItemID] {
			return ErrRandomRewardDuplicate
		}
		seen[r.ItemID] = true
		if r.Amount <= 0 {
			return ErrInvalidRewardAmount
		}
	}
	return nil
}

func buildAction(in *ActionInput) *models.Action {
	action := &models.Action{
		ID:                   in.ActionID,
		Slug:                 slug.Make(in.Name),
		Name:                 in.Name,
		Skill:                in.Skill,
		XPPerHour:            in.XPPerHour,
		MinXP:                in.MinXP,
		IsDynamic:            in.IsDynamic,
		NumSpawned:           in.NumSpawned,
		HandItemRangeMin:     in.HandItemRangeMin,
		HandItemRangeMax:     in.HandItemRangeMax,
		IsAvailable:          in.IsAvailable,
		ActionChoiceRequired: in.ActionChoiceRequired,
		SuccessPercent:       in.SuccessPercent,
		CatalogVersion:       1,
		CombatStats:          in.CombatStats,
	}
	for i, r := range in.GuaranteedRewards {
		action.GuaranteedRewards = append(action.GuaranteedRewards, models.GuaranteedReward{
			ID: uuid.NewString(), ActionID: in.ActionID, ItemID: r.ItemID, Rate: r.Rate, SortOrder: i,
		})
	}
	for i, r := range in.RandomRewards {
		action.RandomRewards = append(action.RandomRewards, models.RandomReward{
			ID: uuid.NewString(), ActionID: in.ActionID, ItemID: r.ItemID, Chance: r.Chance, Amount: r.Amount, SortOrder: i,
		})
	}
	return action
}

// AddAction validates and persists a new catalog entry, then archives a
// versioned snapshot.
func (s *CatalogService) AddAction(in *ActionInput) (*models.Action, error) {
	if err := validateActionInput(in); err != nil {
		return nil, err
	}

	action := buildAction(in)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(action).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create action %d: %w", in.ActionID, err)
	}

	s.archiveSnapshot(action)
	return action, nil
}

// EditAction replaces the catalog entry wholesale and bumps the version.
// Settlement reads the current row, so edits take effect for queued
// actions immediately; the snapshot archive keeps prior versions
// auditable.
func (s *CatalogService) EditAction(in *ActionInput) (*models.Action, error) {
	if err := validateActionInput(in); err != nil {
		return nil, err
	}

	var updated *models.Action
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Action
		if err := tx.First(&existing, "id = ?", in.ActionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrActionNotFound
			}
			return err
		}

		if err := tx.Where("action_id = ?", in.ActionID).Delete(&models.GuaranteedReward{}).Error; err != nil {
			return err
		}
		if err := tx.Where("action_id = ?", in.ActionID).Delete(&models.RandomReward{}).Error; err != nil {
			return err
		}

		action := buildAction(in)
		action.CatalogVersion = existing.CatalogVersion + 1
		action.CreatedAt = existing.CreatedAt
		if err := tx.Save(action).Error; err != nil {
			return err
		}
		updated = action
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.archiveSnapshot(updated)
	return updated, nil
}

// SetAvailable toggles a non-dynamic action. Dynamic actions manage
// their own availability.
func (s *CatalogService) SetAvailable(actionID int64, available bool) error {
	var action models.Action
	if err := s.DB.First(&action, "id = ?", actionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrActionNotFound
		}
		return err
	}
	if action.IsDynamic {
		return ErrDynamicActionAvailability
	}
	return s.DB.Model(&action).Update("is_available", available).Error
}

// GetAction loads an action with its reward tables in stored order.
func (s *CatalogService) GetAction(tx *gorm.DB, actionID int64) (*models.Action, error) {
	var action models.Action
	err := tx.
		Preload("GuaranteedRewards", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("RandomRewards", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		First(&action, "id = ?", actionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load action %d: %w", actionID, err)
	}
	return &action, nil
}

// AddActionChoice registers a sub-recipe. Choice id 0 is the "no
// choice" sentinel and cannot be defined.
func (s *CatalogService) AddActionChoice(choice *models.ActionChoice) error {
	if choice.ID == 0 {
		return ErrInvalidActionChoiceID
	}
	if choice.SuccessPercent == 0 {
		choice.SuccessPercent = 100
	}
	return s.DB.Create(choice).Error
}

func (s *CatalogService) GetActionChoice(tx *gorm.DB, choiceID int64) (*models.ActionChoice, error) {
	var choice models.ActionChoice
	err := tx.First(&choice, "id = ?", choiceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrActionChoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load action choice %d: %w", choiceID, err)
	}
	return &choice, nil
}

// UpsertBoostItem registers or updates boost vial metadata.
func (s *CatalogService) UpsertBoostItem(item *models.BoostItem) error {
	return s.DB.Save(item).Error
}

type XPThresholdInput struct {
	Threshold int64              `json:"threshold"`
	Rewards   []models.Equipment `json:"rewards"`
}

// AddXPThresholdRewards installs reward lists for schedule thresholds.
// Values off the ladder are rejected before anything is written.
func (s *CatalogService) AddXPThresholdRewards(inputs []XPThresholdInput) error {
	for _, in := range inputs {
		i := sort.Search(len(xpThresholdLadder), func(i int) bool { return xpThresholdLadder[i] >= in.Threshold })
		if i == len(xpThresholdLadder) || xpThresholdLadder[i] != in.Threshold {
			return ErrXPThresholdNotFound
		}
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			row := models.XPThresholdReward{Threshold: in.Threshold}
			if err := row.SetRewards(in.Rewards); err != nil {
				return err
			}
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// XPThresholds returns the configured threshold table sorted ascending.
func (s *CatalogService) XPThresholds(tx *gorm.DB) ([]models.XPThresholdReward, error) {
	var rows []models.XPThresholdReward
	if err := tx.Order("threshold ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load xp thresholds: %w", err)
	}
	return rows, nil
}

func (s *CatalogService) archiveSnapshot(action *models.Action) {
	if s.Archive == nil {
		return
	}
	data, err := json.Marshal(action)
	if err != nil {
		log.Printf("⚠️  Failed to marshal catalog snapshot for action %d: %v", action.ID, err)
		return
	}
	key := fmt.Sprintf("catalog/%s/v%d.json", action.Slug, action.CatalogVersion)
	url, err := s.Archive.Upload(key, data, "application/json")
	if err != nil {
		log.Printf("⚠️  Failed to archive catalog snapshot %s: %v", key, err)
		return
	}
	log.Printf("✅ Archived catalog snapshot %s", url)
}
