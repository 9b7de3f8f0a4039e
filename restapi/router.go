// Package restapi provides the main router and initialization for REST API endpoints.
package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/ortelius/orgmap-backend/internal/mapview"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/restapi/modules/dashboard"
	"github.com/ortelius/orgmap-backend/restapi/modules/export"
	"github.com/ortelius/orgmap-backend/restapi/modules/maps"
	"github.com/ortelius/orgmap-backend/restapi/modules/organizations"
	"go.uber.org/zap"
)

// SetupRoutes configures the REST API routes, the GraphQL endpoint and, when
// handlers are given, the server-rendered dashboard.
func SetupRoutes(app *fiber.App, svc *services.OrganizationService, renderer *mapview.Renderer, schema graphql.Schema, dash *dashboard.Handlers, logger *zap.Logger) {
	api := app.Group("/api")

	api.Post("/graphql", GraphQLHandler(schema))

	// Organization data
	api.Get("/counties", organizations.GetCounties(svc))
	api.Get("/organizations", organizations.GetOrganizations(svc))
	api.Get("/organizations_with_location", organizations.GetOrganizations(svc))
	api.Get("/organizations_without_location", organizations.GetOrganizationsWithoutLocation(svc))
	api.Get("/organizations_full", organizations.GetOrganizationsFull(svc))
	api.Put("/organizations/:id/status", organizations.UpdateStatus(svc))

	// Read-only admin and export
	api.Get("/state", organizations.GetState(svc))
	api.Get("/export.csv", export.GetExportCSV(svc))

	api.Get("/map", maps.GetMap(svc, renderer))

	if dash != nil {
		dash.Register(app)
	}

	logger.Info("API routes initialized successfully")
}
