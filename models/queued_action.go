package models

// QueueStatus selects what happens to the existing queue when new
// actions are started.
type QueueStatus string

const (
	// QueueStatusClear discards any unprocessed tail (elapsed time is
	// settled first).
	QueueStatusClear QueueStatus = "clear"
	// QueueStatusKeepLastInProgress keeps the running head's remaining
	// time and appends after it.
	QueueStatusKeepLastInProgress QueueStatus = "keep_last_in_progress"
	// QueueStatusAppend keeps everything queued and appends at the end.
	QueueStatusAppend QueueStatus = "append"
)

func (q QueueStatus) IsValid() bool {
	switch q {
	case QueueStatusClear, QueueStatusKeepLastInProgress, QueueStatusAppend:
		return true
	}
	return false
}

// QueuedAction is a player's scheduled instance of an Action. Within a
// player's queue the intervals [StartTime, StartTime+Timespan) are
// contiguous and non-overlapping; Slot gives FIFO order.
// ProcessedSeconds is the settled prefix of the interval, which is what
// makes repeated processing credit nothing twice.
type QueuedAction struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	PlayerID int64  `gorm:"index;not null" json:"player_id"`
	Slot     int    `gorm:"not null" json:"slot"`

	ActionID int64 `gorm:"not null" json:"action_id"`

	ChoiceID  int64 `json:"choice_id"`
	ChoiceID1 int64 `json:"choice_id_1"`
	ChoiceID2 int64 `json:"choice_id_2"`

	RegenerateItemID int64 `json:"regenerate_item_id"`
	RightHandItemID  int64 `json:"right_hand_item_id"`
	LeftHandItemID   int64 `json:"left_hand_item_id"`

	Timespan         int64 `gorm:"not null" json:"timespan"` // seconds
	StartTime        int64 `gorm:"not null" json:"start_time"`
	ProcessedSeconds int64 `gorm:"not null;default:0" json:"processed_seconds"`

	Timestamps
}

// EndTime is the exclusive end of the queued interval.
func (q *QueuedAction) EndTime() int64 {
	return q.StartTime + q.Timespan
}

// ElapsedAt returns how many seconds of the interval have passed at now,
// clamped to [0, Timespan].
func (q *QueuedAction) ElapsedAt(now int64) int64 {
	if now <= q.StartTime {
		return 0
	}
	elapsed := now - q.StartTime
	if elapsed > q.Timespan {
		return q.Timespan
	}
	return elapsed
}
