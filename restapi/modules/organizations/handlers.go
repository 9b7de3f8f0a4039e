// Package organizations implements the REST API handlers for organization data and status updates.
package organizations

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/model"
)

// GetCounties returns the unique county names
func GetCounties(svc *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.Counties())
	}
}

// GetOrganizations returns the organizations with a valid location
func GetOrganizations(svc *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.WithLocation())
	}
}

// GetOrganizationsWithoutLocation returns the organizations lacking a valid location
func GetOrganizationsWithoutLocation(svc *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.WithoutLocation())
	}
}

// GetOrganizationsFull returns every organization including note history
func GetOrganizationsFull(svc *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.All())
	}
}

// GetState returns the persisted overlay document
func GetState(svc *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(svc.State())
	}
}

// UpdateStatus handles PUT /api/organizations/:id/status.
// The same endpoint serves status changes and note-only updates.
func UpdateStatus(svc *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid organization id",
			})
		}

		var req model.StatusUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		org, err := svc.UpdateStatus(c.UserContext(), id, req)
		if errors.Is(err, services.ErrOrganizationNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"message": "Organization not found",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update organization: " + err.Error(),
			})
		}

		return c.JSON(model.StatusUpdateResponse{Success: true, Organization: &org})
	}
}
