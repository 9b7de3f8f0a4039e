// Package export serves the CSV snapshot of the organizations.
package export

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"github.com/ortelius/orgmap-backend/internal/services"
)

// GetExportCSV handles GET /api/export.csv
func GetExportCSV(svc *services.OrganizationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		if err := svc.ExportCSV(&buf); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, "attachment; filename=organizations_export.csv")
		return c.Send(buf.Bytes())
	}
}
