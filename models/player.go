package models

import "math"

// Player is our local record for an identity owned by the external
// registry. OwnerID is the registry id and is what the ledger keys
// balances on.
type Player struct {
	ID      int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	OwnerID string `gorm:"index;not null" json:"owner_id"`

	Timestamps
}

// SkillXP is one skill track for one player. XP only climbs; AddXP
// saturates instead of wrapping.
type SkillXP struct {
	PlayerID int64 `gorm:"primaryKey;autoIncrement:false" json:"player_id"`
	Skill    Skill `gorm:"primaryKey" json:"skill"`
	XP       int64 `gorm:"not null;default:0" json:"xp"`
}

// AddXP adds delta to the track, clamping at MaxInt64.
func (s *SkillXP) AddXP(delta int64) {
	if delta < 0 {
		return
	}
	if s.XP > math.MaxInt64-delta {
		s.XP = math.MaxInt64
		return
	}
	s.XP += delta
}
