// handlers/queue_routes.go
package handlers

import (
	"strconv"

	"action-quest-system/middleware"
	"action-quest-system/models"
	"action-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupQueueRoutes(app *fiber.App, queueService *services.QueueService, calendarService *services.CalendarService) {
	// 🔐 Secured routes — require owner context from the gateway.
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Post("/players/:id/actions", func(c *fiber.Ctx) error {
		playerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid player id",
			})
		}
		ownerID := c.Locals("owner_id").(string)

		type Req struct {
			Actions     []services.QueuedActionInput `json:"actions"`
			BoostItemID int64                        `json:"boost_item_id"`
			QueueStatus models.QueueStatus           `json:"queue_status"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		state, err := queueService.StartActions(playerID, ownerID, req.Actions, req.BoostItemID, req.QueueStatus)
		if err != nil {
			return serviceError(c, "failed to start actions", err)
		}
		return c.JSON(state)
	})

	securedGroup.Get("/players/:id/pending", func(c *fiber.Ctx) error {
		playerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid player id",
			})
		}
		state, err := queueService.PendingStateOf(playerID)
		if err != nil {
			return serviceError(c, "failed to compute pending state", err)
		}
		return c.JSON(state)
	})

	securedGroup.Post("/players/:id/process", func(c *fiber.Ctx) error {
		playerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid player id",
			})
		}
		state, err := queueService.ProcessActions(playerID)
		if err != nil {
			return serviceError(c, "failed to process actions", err)
		}
		return c.JSON(state)
	})

	securedGroup.Get("/players/:id/queue", func(c *fiber.Ctx) error {
		playerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid player id",
			})
		}
		queue, err := queueService.GetActionQueue(playerID)
		if err != nil {
			return serviceError(c, "failed to load queue", err)
		}
		return c.JSON(fiber.Map{"queue": queue})
	})

	securedGroup.Get("/players/:id/xp", func(c *fiber.Ctx) error {
		playerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid player id",
			})
		}
		rows, err := queueService.GetSkillXP(playerID)
		if err != nil {
			return serviceError(c, "failed to load skill xp", err)
		}
		return c.JSON(fiber.Map{"skills": rows})
	})

	securedGroup.Get("/players/:id/tickets", func(c *fiber.Ctx) error {
		playerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid player id",
			})
		}
		tickets, err := queueService.GetPendingTickets(playerID)
		if err != nil {
			return serviceError(c, "failed to load tickets", err)
		}
		return c.JSON(fiber.Map{"tickets": tickets})
	})

	securedGroup.Get("/players/:id/calendar", func(c *fiber.Ctx) error {
		playerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid player id",
			})
		}
		state, err := calendarService.State(calendarService.DB, playerID)
		if err != nil {
			return serviceError(c, "failed to load calendar", err)
		}
		return c.JSON(fiber.Map{
			"calendar":     state,
			"enabled":      calendarService.Enabled(calendarService.DB),
			"claimed_days": state.ClaimedDays(),
		})
	})
}
