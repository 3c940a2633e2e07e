package models

import "encoding/json"

// PendingRandomRewardTicket defers chance-based rewards for a settled
// slice until the checkpoint covering the slice's end has randomness.
// The random-reward table is snapshotted so later catalog edits cannot
// change an already-earned roll. Resolved tickets are deleted.
type PendingRandomRewardTicket struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID       int64  `gorm:"index;not null" json:"player_id"`
	QueuedActionID string `gorm:"index" json:"queued_action_id"`
	ActionID       int64  `gorm:"not null" json:"action_id"`

	NumTickets   int   `gorm:"not null" json:"num_tickets"`
	CheckpointTS int64 `gorm:"index;not null" json:"checkpoint_ts"`

	// JSON-encoded []RandomRewardSnapshot
	RewardsJSON string `gorm:"type:text;not null" json:"-"`

	Timestamps
}

func (t *PendingRandomRewardTicket) Rewards() ([]RandomRewardSnapshot, error) {
	var out []RandomRewardSnapshot
	if err := json.Unmarshal([]byte(t.RewardsJSON), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *PendingRandomRewardTicket) SetRewards(rewards []RandomRewardSnapshot) error {
	raw, err := json.Marshal(rewards)
	if err != nil {
		return err
	}
	t.RewardsJSON = string(raw)
	return nil
}
