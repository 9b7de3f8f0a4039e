// Package api builds the Fiber application with its middleware and routes.
package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/ortelius/orgmap-backend/graphql"
	"github.com/ortelius/orgmap-backend/internal/mapview"
	"github.com/ortelius/orgmap-backend/internal/metrics"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/restapi"
	"github.com/ortelius/orgmap-backend/restapi/modules/dashboard"
	"go.uber.org/zap"
)

// Deps are the components served by the app
type Deps struct {
	Service     *services.OrganizationService
	Renderer    *mapview.Renderer
	Dashboard   *dashboard.Handlers
	CORSOrigins string
	Logger      *zap.Logger
}

// NewFiberApp creates and configures a Fiber app with REST, GraphQL and dashboard routes
func NewFiberApp(deps Deps) (*fiber.App, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	graphql.InitService(deps.Service)
	schema, err := graphql.CreateSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to create GraphQL schema: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:     "orgmap-backend API v1.0",
		BodyLimit:   4 * 1024 * 1024,
		ReadTimeout: 60 * time.Second,
	})

	// Middleware
	app.Use(fiberrecover.New())
	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))

	origins := deps.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Requested-With",
		AllowCredentials: origins != "*",
		AllowMethods:     "GET, POST, HEAD, PUT, OPTIONS",
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("graphql_op", "-")
		return c.Next()
	})
	app.Use(logger.New())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	restapi.SetupRoutes(app, deps.Service, deps.Renderer, schema, deps.Dashboard, deps.Logger)

	return app, nil
}
