// services/calendar_service.go
package services

import (
	"errors"
	"fmt"
	"log"

	"action-quest-system/models"

	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// Fixed daily reward per week slot. Day here is days since the week
// anchor, not a named weekday.
var dailyRewardTable = [7]models.Equipment{
	{ItemID: models.ItemCopperOre, Amount: 100},
	{ItemID: models.ItemCoalOre, Amount: 200},
	{ItemID: models.ItemRuby, Amount: 100},
	{ItemID: models.ItemMithrilBar, Amount: 200},
	{ItemID: models.ItemCookedBowfish, Amount: 100},
	{ItemID: models.ItemLeafFragments, Amount: 20},
	{ItemID: models.ItemHellScroll, Amount: 300},
}

var weeklyBonusReward = models.Equipment{ItemID: models.ItemXPBoost, Amount: 1}

// Every streakMilestoneEvery fully-claimed weeks an extra reward drops.
const streakMilestoneEvery = 4

var streakMilestoneReward = models.Equipment{ItemID: models.ItemSkillBoost, Amount: 1}

// CalendarService is the daily/weekly claim state machine. It is only
// ever driven from action-start and process calls; there is no timer of
// its own.
type CalendarService struct {
	DB    *gorm.DB
	Clock clockwork.Clock
}

func NewCalendarService(db *gorm.DB, clock clockwork.Clock) *CalendarService {
	return &CalendarService{DB: db, Clock: clock}
}

// Enabled reads the daily-rewards configuration flag.
func (s *CalendarService) Enabled(tx *gorm.DB) bool {
	var setting models.GameSetting
	if err := tx.First(&setting, "key = ?", models.SettingDailyRewardsEnabled).Error; err != nil {
		return false
	}
	return setting.Value == "true"
}

func (s *CalendarService) SetEnabled(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	setting := models.GameSetting{Key: models.SettingDailyRewardsEnabled, Value: value}
	return s.DB.Save(&setting).Error
}

// State returns the player's calendar row, initialized to the current
// week if it does not exist yet. Read-only: nothing is persisted.
func (s *CalendarService) State(tx *gorm.DB, playerID int64) (*models.PlayerCalendar, error) {
	now := s.Clock.Now().Unix()
	cal, err := s.load(tx, playerID, now)
	if err != nil {
		return nil, err
	}
	advanceWeek(cal, now)
	return cal, nil
}

func (s *CalendarService) load(tx *gorm.DB, playerID, now int64) (*models.PlayerCalendar, error) {
	var cal models.PlayerCalendar
	err := tx.First(&cal, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.PlayerCalendar{
			PlayerID:   playerID,
			WeekAnchor: models.WeekAnchorOf(now),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player calendar: %w", err)
	}
	return &cal, nil
}

// advanceWeek rolls the anchor forward by whole weeks and clears the
// claim mask when a new week is observed. Missed days are never granted
// retroactively.
func advanceWeek(cal *models.PlayerCalendar, now int64) {
	if now < cal.WeekAnchor+models.WeekInterval {
		return
	}
	cal.WeekAnchor = models.WeekAnchorOf(now)
	cal.ClaimedMask = 0
}

// Touch claims today's reward if it has not been claimed yet. Completing
// all seven slots grants the weekly bonus and advances the streak; every
// streakMilestoneEvery-th full week adds the milestone reward. Callers
// run Touch inside the same transaction as the settlement that triggered
// it and mint the returned grants only after that transaction commits.
func (s *CalendarService) Touch(tx *gorm.DB, player *models.Player) ([]models.Equipment, error) {
	if !s.Enabled(tx) {
		return nil, nil
	}

	now := s.Clock.Now().Unix()
	cal, err := s.load(tx, player.ID, now)
	if err != nil {
		return nil, err
	}
	advanceWeek(cal, now)

	day := int((now - cal.WeekAnchor) / models.CheckpointInterval)
	if cal.Claimed(day) {
		return nil, tx.Save(cal).Error
	}

	cal.MarkClaimed(day)
	grants := []models.Equipment{dailyRewardTable[day]}

	if cal.FullWeek() {
		grants = append(grants, weeklyBonusReward)
		cal.Streak++
		if cal.Streak%streakMilestoneEvery == 0 {
			grants = append(grants, streakMilestoneReward)
		}
		log.Printf("🎉 Player %d completed week, streak now %d", player.ID, cal.Streak)
	}

	if err := tx.Save(cal).Error; err != nil {
		return nil, err
	}
	return grants, nil
}
