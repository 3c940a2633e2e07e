package models

// BoostType says what a boost vial modifies.
type BoostType string

const (
	BoostNone        BoostType = ""
	BoostNonCombatXP BoostType = "non_combat_xp"
	BoostAnyXP       BoostType = "any_xp"
	BoostCombatXP    BoostType = "combat_xp"
	BoostGathering   BoostType = "gathering" // production rate, never XP
)

// BoostItem is catalog metadata for a consumable boost vial.
type BoostItem struct {
	ItemID   int64     `gorm:"primaryKey;autoIncrement:false" json:"item_id"`
	Type     BoostType `gorm:"not null" json:"type"`
	Value    int       `gorm:"not null" json:"value"` // percent
	Duration int64     `gorm:"not null" json:"duration"`

	Timestamps
}

// ActiveBoost is the single boost slot per player. ItemID 0 means no
// boost. Starting a new boost overwrites unconditionally; unused
// duration is not refunded.
type ActiveBoost struct {
	PlayerID  int64     `gorm:"primaryKey;autoIncrement:false" json:"player_id"`
	ItemID    int64     `gorm:"not null;default:0" json:"item_id"`
	Type      BoostType `json:"type"`
	Value     int       `json:"value"`
	StartTime int64     `json:"start_time"`
	Duration  int64     `json:"duration"`
}

func (b *ActiveBoost) Active() bool {
	return b != nil && b.ItemID != ItemNone
}

// EndTime is the exclusive end of the boost window.
func (b *ActiveBoost) EndTime() int64 {
	return b.StartTime + b.Duration
}
