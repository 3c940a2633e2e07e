package services

import (
	"testing"

	"action-quest-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddActionValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name    string
		mutate  func(in *ActionInput)
		wantErr error
	}{
		{"invalid skill", func(in *ActionInput) { in.Skill = "juggling" }, ErrInvalidSkill},
		{"success percent over 100", func(in *ActionInput) { in.SuccessPercent = 101 }, ErrInvalidSuccessPercent},
		{"inverted hand range", func(in *ActionInput) {
			in.HandItemRangeMin = models.WoodcuttingMax
			in.HandItemRangeMax = models.WoodcuttingBase
		}, ErrInvalidHandItemRange},
		{"duplicate guaranteed item", func(in *ActionInput) {
			in.GuaranteedRewards = append(in.GuaranteedRewards, RewardInput{ItemID: models.ItemLog, Rate: 10})
		}, ErrGuaranteedRewardDuplicate},
		{"zero guaranteed rate", func(in *ActionInput) {
			in.GuaranteedRewards = []RewardInput{{ItemID: models.ItemLog, Rate: 0}}
		}, ErrInvalidRewardAmount},
		{"random chance zero", func(in *ActionInput) {
			in.RandomRewards = []RewardInput{{ItemID: 1, Chance: 0, Amount: 1}}
		}, ErrInvalidRewardChance},
		{"random chance above scale", func(in *ActionInput) {
			in.RandomRewards = []RewardInput{{ItemID: 1, Chance: chanceScale + 1, Amount: 1}}
		}, ErrInvalidRewardChance},
		{"random chances not ascending", func(in *ActionInput) {
			in.RandomRewards = []RewardInput{
				{ItemID: 1, Chance: 500, Amount: 1},
				{ItemID: 2, Chance: 500, Amount: 1},
			}
		}, ErrRandomRewardsOutOfOrder},
		{"duplicate random item", func(in *ActionInput) {
			in.RandomRewards = []RewardInput{
				{ItemID: 1, Chance: 100, Amount: 1},
				{ItemID: 1, Chance: 200, Amount: 1},
			}
		}, ErrRandomRewardDuplicate},
		{"zero random amount", func(in *ActionInput) {
			in.RandomRewards = []RewardInput{{ItemID: 1, Chance: 100, Amount: 0}}
		}, ErrInvalidRewardAmount},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := woodcuttingInput(int64(100 + i))
			tc.mutate(in)
			_, err := env.catalog.AddAction(in)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAddAndEditActionVersions(t *testing.T) {
	env := newTestEnv(t)

	in := woodcuttingInput(1)
	in.RandomRewards = []RewardInput{
		{ItemID: 10, Chance: 30, Amount: 1},
		{ItemID: 11, Chance: 50, Amount: 1},
		{ItemID: 12, Chance: 200, Amount: 1},
	}
	action := env.addAction(t, in)
	assert.Equal(t, 1, action.CatalogVersion)
	assert.Equal(t, "chop-oak-1", action.Slug)

	in.XPPerHour = 4000
	in.RandomRewards = in.RandomRewards[:2]
	edited, err := env.catalog.EditAction(in)
	require.NoError(t, err)
	assert.Equal(t, 2, edited.CatalogVersion)

	loaded, err := env.catalog.GetAction(env.db, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), loaded.XPPerHour)
	require.Len(t, loaded.RandomRewards, 2)
	assert.Equal(t, int64(10), loaded.RandomRewards[0].ItemID)
	assert.Equal(t, int64(11), loaded.RandomRewards[1].ItemID)

	// Can't break the ascending invariant on edit either.
	in.RandomRewards = []RewardInput{
		{ItemID: 10, Chance: 300, Amount: 1},
		{ItemID: 11, Chance: 50, Amount: 1},
	}
	_, err = env.catalog.EditAction(in)
	assert.ErrorIs(t, err, ErrRandomRewardsOutOfOrder)
}

func TestEditUnknownAction(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.catalog.EditAction(woodcuttingInput(404))
	assert.ErrorIs(t, err, ErrActionNotFound)
}

func TestSetAvailable(t *testing.T) {
	env := newTestEnv(t)

	in := woodcuttingInput(1)
	in.IsAvailable = false
	env.addAction(t, in)

	require.NoError(t, env.catalog.SetAvailable(1, true))
	loaded, err := env.catalog.GetAction(env.db, 1)
	require.NoError(t, err)
	assert.True(t, loaded.IsAvailable)

	assert.ErrorIs(t, env.catalog.SetAvailable(404, true), ErrActionNotFound)
}

func TestSetAvailableRejectsDynamic(t *testing.T) {
	env := newTestEnv(t)

	in := woodcuttingInput(2)
	in.IsDynamic = true
	env.addAction(t, in)

	assert.ErrorIs(t, env.catalog.SetAvailable(2, true), ErrDynamicActionAvailability)
}

func TestAddActionChoice(t *testing.T) {
	env := newTestEnv(t)

	err := env.catalog.AddActionChoice(&models.ActionChoice{ID: 0})
	assert.ErrorIs(t, err, ErrInvalidActionChoiceID)

	choice := models.ActionChoice{ID: 5, ActionID: 1, Skill: models.SkillCooking, Rate: 100}
	require.NoError(t, env.catalog.AddActionChoice(&choice))
	assert.Equal(t, 100, choice.SuccessPercent)

	loaded, err := env.catalog.GetActionChoice(env.db, 5)
	require.NoError(t, err)
	assert.Equal(t, models.SkillCooking, loaded.Skill)

	_, err = env.catalog.GetActionChoice(env.db, 6)
	assert.ErrorIs(t, err, ErrActionChoiceNotFound)
}

func TestXPThresholdLadder(t *testing.T) {
	env := newTestEnv(t)

	err := env.catalog.AddXPThresholdRewards([]XPThresholdInput{
		{Threshold: 777, Rewards: []models.Equipment{{ItemID: 1, Amount: 1}}},
	})
	assert.ErrorIs(t, err, ErrXPThresholdNotFound)

	require.NoError(t, env.catalog.AddXPThresholdRewards([]XPThresholdInput{
		{Threshold: 1000, Rewards: []models.Equipment{{ItemID: 2, Amount: 5}}},
		{Threshold: 500, Rewards: []models.Equipment{{ItemID: 1, Amount: 1}}},
	}))

	rows, err := env.catalog.XPThresholds(env.db)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(500), rows[0].Threshold)
	assert.Equal(t, int64(1000), rows[1].Threshold)

	rewards, err := rows[1].Rewards()
	require.NoError(t, err)
	assert.Equal(t, []models.Equipment{{ItemID: 2, Amount: 5}}, rewards)
}
