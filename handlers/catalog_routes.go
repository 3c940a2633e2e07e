// handlers/catalog_routes.go
package handlers

import (
	"strconv"

	"action-quest-system/middleware"
	"action-quest-system/models"
	"action-quest-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, catalogService *services.CatalogService, calendarService *services.CalendarService, checkpointService *services.CheckpointService) {
	// Read-only catalog lookups for any authenticated caller.
	securedGroup := app.Group("/s", middleware.UserContextMiddleware())

	securedGroup.Get("/actions/:id", func(c *fiber.Ctx) error {
		actionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid action id",
			})
		}
		action, err := catalogService.GetAction(catalogService.DB, actionID)
		if err != nil {
			return serviceError(c, "failed to load action", err)
		}
		return c.JSON(action)
	})

	securedGroup.Get("/xp-thresholds", func(c *fiber.Ctx) error {
		thresholds, err := catalogService.XPThresholds(catalogService.DB)
		if err != nil {
			return serviceError(c, "failed to load thresholds", err)
		}
		return c.JSON(fiber.Map{"thresholds": thresholds})
	})

	// Admin endpoints
	adminGroup := app.Group("/s/admin", middleware.UserContextMiddleware(), middleware.RequireAdmin())

	adminGroup.Post("/actions", func(c *fiber.Ctx) error {
		var in services.ActionInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		action, err := catalogService.AddAction(&in)
		if err != nil {
			return serviceError(c, "failed to add action", err)
		}
		return c.Status(fiber.StatusCreated).JSON(action)
	})

	adminGroup.Put("/actions/:id", func(c *fiber.Ctx) error {
		actionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid action id",
			})
		}
		var in services.ActionInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		in.ActionID = actionID
		action, err := catalogService.EditAction(&in)
		if err != nil {
			return serviceError(c, "failed to edit action", err)
		}
		return c.JSON(action)
	})

	adminGroup.Post("/actions/:id/availability", func(c *fiber.Ctx) error {
		actionID, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid action id",
			})
		}
		type Req struct {
			Available bool `json:"available"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := catalogService.SetAvailable(actionID, req.Available); err != nil {
			return serviceError(c, "failed to set availability", err)
		}
		return c.JSON(fiber.Map{
			"action_id": actionID,
			"available": req.Available,
		})
	})

	adminGroup.Post("/action-choices", func(c *fiber.Ctx) error {
		var choice models.ActionChoice
		if err := c.BodyParser(&choice); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := catalogService.AddActionChoice(&choice); err != nil {
			return serviceError(c, "failed to add action choice", err)
		}
		return c.Status(fiber.StatusCreated).JSON(choice)
	})

	adminGroup.Post("/boost-items", func(c *fiber.Ctx) error {
		var item models.BoostItem
		if err := c.BodyParser(&item); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := catalogService.UpsertBoostItem(&item); err != nil {
			return serviceError(c, "failed to save boost item", err)
		}
		return c.JSON(item)
	})

	adminGroup.Post("/xp-thresholds", func(c *fiber.Ctx) error {
		var inputs []services.XPThresholdInput
		if err := c.BodyParser(&inputs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := catalogService.AddXPThresholdRewards(inputs); err != nil {
			return serviceError(c, "failed to add threshold rewards", err)
		}
		return c.JSON(fiber.Map{"message": "thresholds saved", "count": len(inputs)})
	})

	adminGroup.Post("/daily-rewards/enabled", func(c *fiber.Ctx) error {
		type Req struct {
			Enabled bool `json:"enabled"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := calendarService.SetEnabled(req.Enabled); err != nil {
			return serviceError(c, "failed to update setting", err)
		}
		return c.JSON(fiber.Map{"enabled": req.Enabled})
	})

	adminGroup.Post("/checkpoints/request", func(c *fiber.Ctx) error {
		cp, err := checkpointService.RequestRandomness()
		if err != nil {
			return serviceError(c, "failed to request randomness", err)
		}
		return c.JSON(cp)
	})

	adminGroup.Post("/checkpoints/fulfill", func(c *fiber.Ctx) error {
		type Req struct {
			RequestID string `json:"request_id"`
			Word      uint64 `json:"word"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}
		if err := checkpointService.Fulfill(req.RequestID, req.Word); err != nil {
			return serviceError(c, "failed to fulfill request", err)
		}
		return c.JSON(fiber.Map{"request_id": req.RequestID})
	})
}
