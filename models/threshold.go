package models

import "encoding/json"

// XPThresholdReward grants a reward list exactly once, the first time a
// player's total XP crosses Threshold. Thresholds come from a fixed
// schedule; granting is idempotent via the before/after bracket at
// settlement, not a stored watermark.
type XPThresholdReward struct {
	Threshold int64 `gorm:"primaryKey;autoIncrement:false" json:"threshold"`

	// JSON-encoded []Equipment
	RewardsJSON string `gorm:"type:text;not null" json:"-"`

	Timestamps
}

func (x *XPThresholdReward) Rewards() ([]Equipment, error) {
	var out []Equipment
	if err := json.Unmarshal([]byte(x.RewardsJSON), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (x *XPThresholdReward) SetRewards(rewards []Equipment) error {
	raw, err := json.Marshal(rewards)
	if err != nil {
		return err
	}
	x.RewardsJSON = string(raw)
	return nil
}
