// services/settlement.go
package services

import (
	"math"

	"action-quest-system/models"
)

// Settlement math. Everything here is pure: the same functions feed the
// read-only pending projection and the committing process path so the
// two can never disagree.

const (
	secondsPerHour = 3600

	// Guaranteed/choice rates are stored in tenths of a unit per hour.
	rateScale = 10

	// Random reward chance scale: 65535 = 100%.
	chanceScale = 65535

	// Derived health XP is a third of the combat XP, floored separately.
	healthXPDivisor = 3

	// Queue bounds.
	MaxQueuedActions = 3
	MaxQueueTime     = int64(86400)
)

type SkillXPGain struct {
	Skill models.Skill `json:"skill"`
	XP    int64        `json:"xp"`
}

// SliceResult is the outcome of settling one elapsed slice of one
// queued action.
type SliceResult struct {
	XPGains    []SkillXPGain      `json:"xp_gains"`
	Produced   []models.Equipment `json:"produced"`
	NumTickets int                `json:"num_tickets"`
}

// guaranteedAmount floors elapsed * rate over an hour, with the rate in
// tenths per hour. No intermediate rounding.
func guaranteedAmount(elapsed, rate int64) int64 {
	return elapsed * rate / (secondsPerHour * rateScale)
}

// gatheringBonus is the extra production from a gathering boost overlap.
func gatheringBonus(overlap int64, value int, rate int64) int64 {
	return overlap * int64(value) * rate / (100 * rateScale * secondsPerHour)
}

func baseXP(elapsed, xpPerHour int64) int64 {
	return elapsed * xpPerHour / secondsPerHour
}

// boostXPBonus is the flat XP added for the boosted overlap.
func boostXPBonus(overlap int64, value int) int64 {
	return overlap * int64(value) / 100
}

func applySuccessPercent(amount int64, pct int) int64 {
	return amount * int64(pct) / 100
}

// ticketCount converts a settled sub-interval [fromSec, toSec) of an
// action into chance tickets. Spawning actions earn numSpawned tickets
// per whole hour; non-spawning actions earn one per whole hour, with a
// single ticket for sub-hour actions granted at completion so that the
// count does not depend on how the interval was chopped up across
// process calls.
func ticketCount(numSpawned int, fromSec, toSec, timespan int64) int {
	hours := int(toSec/secondsPerHour - fromSec/secondsPerHour)
	perHour := numSpawned
	if perHour == 0 {
		perHour = 1
	}
	n := hours * perHour
	if numSpawned == 0 && timespan < secondsPerHour && toSec == timespan {
		n = 1
	}
	return n
}

// settleSlice computes XP, guaranteed production and the ticket count
// for the sub-interval [fromSec, toSec) of a queued action that started
// at actionStart. boost may be nil or inactive.
func settleSlice(action *models.Action, choice *models.ActionChoice, boost *models.ActiveBoost,
	actionStart, fromSec, toSec, timespan int64) SliceResult {

	var res SliceResult
	elapsed := toSec - fromSec
	if elapsed <= 0 {
		return res
	}

	skill := action.Skill
	xpPerHour := action.XPPerHour
	successPercent := action.SuccessPercent
	if choice != nil {
		if choice.Skill != models.SkillNone && choice.Skill != "" {
			skill = choice.Skill
		}
		xpPerHour += choice.XPPerHour
		successPercent = choice.SuccessPercent
	}
	isCombat := action.Skill.IsCombat() || skill.IsCombat()

	var overlap int64
	if boost.Active() {
		overlap = overlapSeconds(boost.StartTime, boost.EndTime(),
			actionStart+fromSec, actionStart+toSec)
	}

	xp := baseXP(elapsed, xpPerHour)
	if overlap > 0 && boostXPApplies(boost.Type, skill, isCombat) {
		xp += boostXPBonus(overlap, boost.Value)
	}
	if xp > 0 {
		res.XPGains = append(res.XPGains, SkillXPGain{Skill: skill, XP: xp})
		if isCombat && skill != models.SkillHealth {
			if healthXP := xp / healthXPDivisor; healthXP > 0 {
				res.XPGains = append(res.XPGains, SkillXPGain{Skill: models.SkillHealth, XP: healthXP})
			}
		}
	}

	gatherBoost := overlap > 0 && boost.Type == models.BoostGathering && !isCombat

	for _, gr := range action.GuaranteedRewards {
		amount := guaranteedAmount(elapsed, gr.Rate)
		if gatherBoost {
			amount += gatheringBonus(overlap, boost.Value, gr.Rate)
		}
		if action.ActionChoiceRequired && successPercent < 100 {
			amount = applySuccessPercent(amount, successPercent)
		}
		if amount > 0 {
			res.Produced = append(res.Produced, models.Equipment{ItemID: gr.ItemID, Amount: amount})
		}
	}

	if choice != nil && choice.OutputItemID != models.ItemNone && choice.Rate > 0 {
		amount := guaranteedAmount(elapsed, choice.Rate) * int64(choice.OutputNum)
		if gatherBoost {
			amount += gatheringBonus(overlap, boost.Value, choice.Rate) * int64(choice.OutputNum)
		}
		if successPercent < 100 {
			amount = applySuccessPercent(amount, successPercent)
		}
		if amount > 0 {
			res.Produced = append(res.Produced, models.Equipment{ItemID: choice.OutputItemID, Amount: amount})
		}
	}

	if len(action.RandomRewards) > 0 {
		res.NumTickets = ticketCount(action.NumSpawned, fromSec, toSec, timespan)
	}

	return res
}

// crossedThresholds returns the reward lists of every threshold in
// (before, after], in ascending order. The bracket makes the grant
// idempotent without a persisted watermark; one large slice can cross
// several thresholds at once.
func crossedThresholds(table []models.XPThresholdReward, before, after int64) ([]models.Equipment, error) {
	var out []models.Equipment
	for _, row := range table {
		if row.Threshold > before && row.Threshold <= after {
			rewards, err := row.Rewards()
			if err != nil {
				return nil, err
			}
			out = append(out, rewards...)
		}
	}
	return out, nil
}

// saturatingAdd clamps at MaxInt64 instead of wrapping.
func saturatingAdd(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// mergeEquipment folds duplicate item ids, preserving first-seen order.
func mergeEquipment(items []models.Equipment) []models.Equipment {
	var out []models.Equipment
	index := make(map[int64]int)
	for _, eq := range items {
		if i, ok := index[eq.ItemID]; ok {
			out[i].Amount += eq.Amount
			continue
		}
		index[eq.ItemID] = len(out)
		out = append(out, eq)
	}
	return out
}
