// Package maps serves the rendered map document.
package maps

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/orgmap-backend/internal/dashboard"
	"github.com/ortelius/orgmap-backend/internal/mapview"
	"github.com/ortelius/orgmap-backend/internal/services"
)

// GetMap handles GET /api/map?counties=&status=&search=&gen=
func GetMap(svc *services.OrganizationService, renderer *mapview.Renderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid query: " + err.Error(),
			})
		}
		query := dashboard.ParseMapQuery(values)

		doc, err := renderer.RenderBytes(svc.MapOrganizations(query), query.Generation)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to render map: " + err.Error(),
			})
		}
		c.Type("html", "utf-8")
		return c.Send(doc)
	}
}
