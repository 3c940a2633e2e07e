package models

// WeekInterval is seven checkpoint days.
const WeekInterval = 7 * CheckpointInterval

// PlayerCalendar is the per-player daily/weekly claim state. ClaimedMask
// holds one bit per day slot (bit 0 = first day of the anchored week).
// Crossing into a new week clears the mask; missed days are lost.
type PlayerCalendar struct {
	PlayerID    int64 `gorm:"primaryKey;autoIncrement:false" json:"player_id"`
	ClaimedMask uint8 `gorm:"not null;default:0" json:"claimed_mask"`
	WeekAnchor  int64 `gorm:"not null" json:"week_anchor"`
	Streak      int   `gorm:"not null;default:0" json:"streak"`

	Timestamps
}

// Claimed reports whether the day slot (0..6) has been claimed this week.
func (c *PlayerCalendar) Claimed(day int) bool {
	return c.ClaimedMask&(1<<uint(day)) != 0
}

// MarkClaimed sets the day slot bit.
func (c *PlayerCalendar) MarkClaimed(day int) {
	c.ClaimedMask |= 1 << uint(day)
}

// FullWeek reports whether all seven slots are claimed.
func (c *PlayerCalendar) FullWeek() bool {
	return c.ClaimedMask == 0x7F
}

// ClaimedDays expands the mask into the seven-slot bool view the player
// surface returns.
func (c *PlayerCalendar) ClaimedDays() [7]bool {
	var out [7]bool
	for i := 0; i < 7; i++ {
		out[i] = c.Claimed(i)
	}
	return out
}

// WeekAnchorOf aligns a timestamp down to its week boundary.
func WeekAnchorOf(ts int64) int64 {
	return ts / WeekInterval * WeekInterval
}

// GameSetting is a single key/value configuration row (e.g. the daily
// rewards enabled flag).
type GameSetting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`

	Timestamps
}

const SettingDailyRewardsEnabled = "daily_rewards_enabled"
