package models

import (
	"time"

	"gorm.io/gorm"
)

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Action is a catalog-defined timed activity. Settlement reads the
// current row; CatalogVersion climbs on every admin edit and each
// version is archived as a JSON snapshot.
type Action struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"`
	Name string `gorm:"not null" json:"name"`

	Skill                Skill `gorm:"not null;index" json:"skill"`
	XPPerHour            int64 `json:"xp_per_hour"`
	MinXP                int64 `json:"min_xp"`
	IsDynamic            bool  `gorm:"default:false" json:"is_dynamic"`
	NumSpawned           int   `json:"num_spawned"` // ticket multiplier for combat-like actions
	HandItemRangeMin     int64 `json:"hand_item_range_min"`
	HandItemRangeMax     int64 `json:"hand_item_range_max"`
	IsAvailable          bool  `gorm:"default:false" json:"is_available"`
	ActionChoiceRequired bool  `gorm:"default:false" json:"action_choice_required"`
	SuccessPercent       int   `gorm:"default:100" json:"success_percent"`

	CatalogVersion int `gorm:"default:1" json:"catalog_version"`

	GuaranteedRewards []GuaranteedReward `gorm:"foreignKey:ActionID;constraint:OnDelete:CASCADE" json:"guaranteed_rewards"`
	RandomRewards     []RandomReward     `gorm:"foreignKey:ActionID;constraint:OnDelete:CASCADE" json:"random_rewards"`

	CombatStats CombatStats `gorm:"embedded;embeddedPrefix:combat_" json:"combat_stats"`

	Timestamps
}

// GuaranteedReward is deterministic, rate-proportional output.
// Rate is in tenths of a unit per hour (rate 10 = 1.0/hour).
type GuaranteedReward struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	ActionID  int64  `gorm:"index;not null" json:"action_id"`
	ItemID    int64  `gorm:"not null" json:"item_id"`
	Rate      int64  `gorm:"not null" json:"rate"`
	SortOrder int    `json:"sort_order"`
}

// RandomReward is probabilistic output. Chance is a threshold on the
// 0..65535 scale (65535 = 100%); tables are strictly ascending by
// chance with unique item ids, enforced at write time.
type RandomReward struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	ActionID  int64  `gorm:"index;not null" json:"action_id"`
	ItemID    int64  `gorm:"not null" json:"item_id"`
	Chance    int    `gorm:"not null" json:"chance"`
	Amount    int64  `gorm:"not null" json:"amount"`
	SortOrder int    `json:"sort_order"`
}

// RandomRewardSnapshot is the ticket-embedded copy of a random reward
// entry, immune to later catalog edits.
type RandomRewardSnapshot struct {
	ItemID int64 `json:"item_id"`
	Chance int   `json:"chance"`
	Amount int64 `json:"amount"`
}

type CombatStats struct {
	Melee         int `json:"melee"`
	Magic         int `json:"magic"`
	Ranged        int `json:"ranged"`
	MeleeDefence  int `json:"melee_defence"`
	MagicDefence  int `json:"magic_defence"`
	RangedDefence int `json:"ranged_defence"`
	Health        int `json:"health"`
}

// ActionChoice is a sub-recipe selected when queuing (e.g. which spell
// or which dish). ActionID 0 means the choice is usable with any action.
type ActionChoice struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ActionID  int64 `gorm:"index" json:"action_id"`
	Skill     Skill `json:"skill"`
	XPPerHour int64 `json:"xp_per_hour"`
	MinXP     int64 `json:"min_xp"`
	Rate      int64 `json:"rate"` // tenths per hour, same scale as GuaranteedReward

	InputItemID1 int64 `json:"input_item_id_1"`
	InputNum1    int   `json:"input_num_1"`
	InputItemID2 int64 `json:"input_item_id_2"`
	InputNum2    int   `json:"input_num_2"`
	InputItemID3 int64 `json:"input_item_id_3"`
	InputNum3    int   `json:"input_num_3"`

	OutputItemID int64 `json:"output_item_id"`
	OutputNum    int   `json:"output_num"`

	SuccessPercent int `gorm:"default:100" json:"success_percent"`

	Timestamps
}
