package services

import (
	"testing"
	"time"

	"action-quest-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlapSeconds(t *testing.T) {
	cases := []struct {
		name                 string
		bStart, bEnd, s, e   int64
		want                 int64
	}{
		{"full cover", 0, 100, 20, 50, 30},
		{"boost inside interval", 30, 40, 0, 100, 10},
		{"partial head", 0, 50, 40, 100, 10},
		{"partial tail", 60, 200, 0, 100, 40},
		{"disjoint before", 0, 10, 20, 30, 0},
		{"disjoint after", 50, 60, 0, 40, 0},
		{"touching edges", 0, 20, 20, 40, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, overlapSeconds(tc.bStart, tc.bEnd, tc.s, tc.e))
		})
	}
}

func TestBoostXPApplies(t *testing.T) {
	assert.True(t, boostXPApplies(models.BoostAnyXP, models.SkillMining, false))
	assert.True(t, boostXPApplies(models.BoostAnyXP, models.SkillMelee, true))

	assert.True(t, boostXPApplies(models.BoostNonCombatXP, models.SkillMining, false))
	assert.False(t, boostXPApplies(models.BoostNonCombatXP, models.SkillMelee, true))

	assert.False(t, boostXPApplies(models.BoostCombatXP, models.SkillMining, false))
	assert.True(t, boostXPApplies(models.BoostCombatXP, models.SkillMelee, true))

	// Gathering boosts affect production only.
	assert.False(t, boostXPApplies(models.BoostGathering, models.SkillMining, false))
	assert.False(t, boostXPApplies(models.BoostNone, models.SkillMining, false))
}

func TestStartBoostConsumesVial(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)

	require.NoError(t, env.catalog.UpsertBoostItem(&models.BoostItem{
		ItemID: models.ItemXPBoost, Type: models.BoostAnyXP, Value: 10, Duration: 7200,
	}))
	require.NoError(t, env.ledger.Mint(player.OwnerID, models.ItemXPBoost, 2))

	require.NoError(t, env.boosts.StartBoost(env.db, player, models.ItemXPBoost))
	assert.Equal(t, int64(1), env.balance(t, player.OwnerID, models.ItemXPBoost))

	boost, err := env.boosts.ActiveBoost(env.db, player.ID)
	require.NoError(t, err)
	assert.True(t, boost.Active())
	assert.Equal(t, models.BoostAnyXP, boost.Type)
	assert.Equal(t, 10, boost.Value)
	assert.Equal(t, env.now(), boost.StartTime)
	assert.Equal(t, env.now()+7200, boost.EndTime())
}

func TestStartBoostReplaceNoRefund(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)

	require.NoError(t, env.catalog.UpsertBoostItem(&models.BoostItem{
		ItemID: models.ItemXPBoost, Type: models.BoostAnyXP, Value: 10, Duration: 7200,
	}))
	require.NoError(t, env.catalog.UpsertBoostItem(&models.BoostItem{
		ItemID: models.ItemGatheringBoost, Type: models.BoostGathering, Value: 20, Duration: 3600,
	}))
	require.NoError(t, env.ledger.Mint(player.OwnerID, models.ItemXPBoost, 1))
	require.NoError(t, env.ledger.Mint(player.OwnerID, models.ItemGatheringBoost, 1))

	require.NoError(t, env.boosts.StartBoost(env.db, player, models.ItemXPBoost))

	// Replacing mid-run discards the rest of the old boost; nothing
	// comes back.
	env.clock.Advance(time.Hour)
	require.NoError(t, env.boosts.StartBoost(env.db, player, models.ItemGatheringBoost))

	assert.Equal(t, int64(0), env.balance(t, player.OwnerID, models.ItemXPBoost))
	boost, err := env.boosts.ActiveBoost(env.db, player.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemGatheringBoost, boost.ItemID)
	assert.Equal(t, models.BoostGathering, boost.Type)
	assert.Equal(t, env.now(), boost.StartTime)
}

func TestStartBoostErrors(t *testing.T) {
	env := newTestEnv(t)
	player := env.player(t, 1)

	err := env.boosts.StartBoost(env.db, player, 999999)
	assert.ErrorIs(t, err, ErrBoostItemNotFound)

	require.NoError(t, env.catalog.UpsertBoostItem(&models.BoostItem{
		ItemID: models.ItemXPBoost, Type: models.BoostAnyXP, Value: 10, Duration: 7200,
	}))
	err = env.boosts.StartBoost(env.db, player, models.ItemXPBoost)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestActiveBoostEmptySlot(t *testing.T) {
	env := newTestEnv(t)
	boost, err := env.boosts.ActiveBoost(env.db, 42)
	require.NoError(t, err)
	assert.False(t, boost.Active())
}
