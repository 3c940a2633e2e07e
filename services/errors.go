package services

import "errors"

// Validation errors: rejected before any mutation.
var (
	ErrActionNotFound        = errors.New("action not found")
	ErrActionNotAvailable    = errors.New("action not available")
	ErrMinimumXPNotReached   = errors.New("minimum xp not reached")
	ErrInvalidHandItem       = errors.New("equipment outside hand item range")
	ErrActionChoiceRequired  = errors.New("action choice required")
	ErrActionChoiceNotFound  = errors.New("action choice not found")
	ErrInvalidActionChoiceID = errors.New("action choice id cannot be zero")
	ErrZeroTimespan          = errors.New("queued action timespan cannot be zero")
	ErrQueueFull             = errors.New("action queue is full")
	ErrQueueTimeExceeded     = errors.New("total queued timespan exceeds the maximum")
	ErrInvalidQueueStatus    = errors.New("invalid queue status")
	ErrPlayerNotFound        = errors.New("player not found")

	ErrGuaranteedRewardDuplicate = errors.New("guaranteed rewards must have unique item ids")
	ErrRandomRewardsOutOfOrder   = errors.New("random rewards must be strictly ascending by chance")
	ErrRandomRewardDuplicate     = errors.New("random rewards must have unique item ids")
	ErrInvalidRewardChance       = errors.New("random reward chance must be within 1..65535")
	ErrInvalidRewardAmount       = errors.New("reward amount must be positive")
	ErrInvalidSuccessPercent     = errors.New("success percent must be within 0..100")
	ErrInvalidHandItemRange      = errors.New("hand item range min cannot exceed max")
	ErrInvalidSkill              = errors.New("unknown skill")
	ErrXPThresholdNotFound       = errors.New("xp threshold is not on the threshold schedule")
	ErrDynamicActionAvailability = errors.New("availability of dynamic actions cannot be set")
	ErrBoostItemNotFound         = errors.New("boost item not found")
)

// Resource errors.
var (
	ErrInsufficientBalance = errors.New("insufficient item balance")
	ErrRandomnessTooSoon   = errors.New("randomness already requested for the current checkpoint")
	ErrAlreadyFulfilled    = errors.New("randomness request already fulfilled")
	ErrInvalidRandomWord   = errors.New("random word cannot be zero")
	ErrRequestNotFound     = errors.New("randomness request not found")
)

// Temporal-consistency errors.
var (
	ErrCheckpointTooOld   = errors.New("checkpoint is outside the retained window")
	ErrCheckpointInFuture = errors.New("checkpoint is in the future")
	ErrNoRandomWord       = errors.New("no random word for checkpoint")
)
