package models

// CheckpointInterval is the randomness bucket width: one draw per
// UTC day.
const CheckpointInterval int64 = 86400

// Checkpoint is one day-aligned randomness bucket. Word 0 means the
// oracle has not fulfilled the request yet; the oracle never returns 0
// as a valid word, so resolution is write-once.
type Checkpoint struct {
	Timestamp int64  `gorm:"primaryKey;autoIncrement:false" json:"timestamp"`
	RequestID string `gorm:"uniqueIndex;type:uuid;not null" json:"request_id"`
	Word      uint64 `gorm:"not null;default:0" json:"word"`

	RequestedAt int64 `json:"requested_at"`
	ResolvedAt  int64 `json:"resolved_at"`
}

func (c *Checkpoint) Resolved() bool {
	return c.Word != 0
}

// CheckpointOf buckets a timestamp to its day boundary.
func CheckpointOf(ts int64) int64 {
	return ts / CheckpointInterval * CheckpointInterval
}
