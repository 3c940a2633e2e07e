// handlers/errors.go
package handlers

import (
	"errors"

	"action-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

// statusOf maps service errors onto HTTP statuses. Anything unmapped is
// an internal error.
func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrActionNotFound),
		errors.Is(err, services.ErrActionChoiceNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrBoostItemNotFound),
		errors.Is(err, services.ErrRequestNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrInsufficientBalance):
		return fiber.StatusPaymentRequired
	case errors.Is(err, services.ErrAlreadyFulfilled),
		errors.Is(err, services.ErrRandomnessTooSoon):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrActionNotAvailable),
		errors.Is(err, services.ErrMinimumXPNotReached),
		errors.Is(err, services.ErrInvalidHandItem),
		errors.Is(err, services.ErrActionChoiceRequired),
		errors.Is(err, services.ErrInvalidActionChoiceID),
		errors.Is(err, services.ErrZeroTimespan),
		errors.Is(err, services.ErrQueueFull),
		errors.Is(err, services.ErrQueueTimeExceeded),
		errors.Is(err, services.ErrInvalidQueueStatus),
		errors.Is(err, services.ErrGuaranteedRewardDuplicate),
		errors.Is(err, services.ErrRandomRewardsOutOfOrder),
		errors.Is(err, services.ErrRandomRewardDuplicate),
		errors.Is(err, services.ErrInvalidRewardChance),
		errors.Is(err, services.ErrInvalidRewardAmount),
		errors.Is(err, services.ErrInvalidSuccessPercent),
		errors.Is(err, services.ErrInvalidHandItemRange),
		errors.Is(err, services.ErrInvalidSkill),
		errors.Is(err, services.ErrXPThresholdNotFound),
		errors.Is(err, services.ErrDynamicActionAvailability),
		errors.Is(err, services.ErrInvalidRandomWord):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func serviceError(c *fiber.Ctx, msg string, err error) error {
	return c.Status(statusOf(err)).JSON(fiber.Map{
		"error": msg,
		"cause": err.Error(),
	})
}
