package services

import (
	"testing"
	"time"

	"action-quest-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// touch claims the day and mints the returned grants, as the queue does
// after its settlement transaction commits.
func touch(t *testing.T, env *testEnv, player *models.Player) []models.Equipment {
	t.Helper()
	grants, err := env.calendar.Touch(env.db, player)
	require.NoError(t, err)
	for _, g := range grants {
		require.NoError(t, env.ledger.Mint(player.OwnerID, g.ItemID, g.Amount))
	}
	return grants
}

func TestTouchDisabledByDefault(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)

	assert.Empty(t, touch(t, env, player))

	state, err := env.calendar.State(env.db, player.ID)
	require.NoError(t, err)
	assert.Zero(t, state.ClaimedMask)
}

func TestTouchClaimsOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)
	require.NoError(t, env.calendar.SetEnabled(true))

	day := int((env.now() - models.WeekAnchorOf(env.now())) / models.CheckpointInterval)

	touch(t, env, player)
	assert.Empty(t, touch(t, env, player))

	state, err := env.calendar.State(env.db, player.ID)
	require.NoError(t, err)
	assert.True(t, state.Claimed(day))

	// Exactly one day's reward, despite the double touch.
	reward := dailyRewardTable[day]
	assert.Equal(t, reward.Amount, env.balance(t, player.OwnerID, reward.ItemID))
}

func TestFullWeekGrantsBonusAndStreak(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)
	require.NoError(t, env.calendar.SetEnabled(true))

	// Move to a week boundary so the seven slots line up day by day.
	nextAnchor := models.WeekAnchorOf(env.now()) + models.WeekInterval
	env.clock.Advance(time.Duration(nextAnchor-env.now()) * time.Second)

	for i := 0; i < 7; i++ {
		touch(t, env, player)
		if i < 6 {
			env.clock.Advance(24 * time.Hour)
		}
	}

	state, err := env.calendar.State(env.db, player.ID)
	require.NoError(t, err)
	assert.True(t, state.FullWeek())
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, int64(1), env.balance(t, player.OwnerID, models.ItemXPBoost))

	// Every daily slot paid out exactly once.
	for _, reward := range dailyRewardTable {
		assert.GreaterOrEqual(t, env.balance(t, player.OwnerID, reward.ItemID), reward.Amount)
	}
}

func TestMissedDaysResetOnNewWeek(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)
	require.NoError(t, env.calendar.SetEnabled(true))

	touch(t, env, player)

	// Skip two weeks: the mask clears, nothing retroactive.
	env.clock.Advance(14 * 24 * time.Hour)
	touch(t, env, player)

	state, err := env.calendar.State(env.db, player.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, countClaimed(state))
	assert.Equal(t, models.WeekAnchorOf(env.now()), state.WeekAnchor)
}

func TestStreakMilestone(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)
	require.NoError(t, env.calendar.SetEnabled(true))

	// Three full weeks banked; day 6 of this week is the only one left.
	anchor := models.WeekAnchorOf(env.now())
	day := int((env.now() - anchor) / models.CheckpointInterval)
	require.Equal(t, 6, day, "test expects the base time to sit on the last week slot")
	seed := models.PlayerCalendar{
		PlayerID:    player.ID,
		ClaimedMask: 0x3F,
		WeekAnchor:  anchor,
		Streak:      3,
	}
	require.NoError(t, env.db.Create(&seed).Error)

	touch(t, env, player)

	state, err := env.calendar.State(env.db, player.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, state.Streak)
	assert.Equal(t, int64(1), env.balance(t, player.OwnerID, models.ItemXPBoost))
	assert.Equal(t, int64(1), env.balance(t, player.OwnerID, models.ItemSkillBoost))
}

func countClaimed(cal *models.PlayerCalendar) int {
	n := 0
	for _, claimed := range cal.ClaimedDays() {
		if claimed {
			n++
		}
	}
	return n
}
