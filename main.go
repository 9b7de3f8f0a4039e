// package main provides the entry point of the orgmap-backend service: it loads the
// organization dataset and the operator overlay, then serves the REST API, the map
// documents, GraphQL and the server-rendered verification dashboard.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"
	"github.com/ortelius/orgmap-backend/database"
	organization "github.com/ortelius/orgmap-backend/events/modules/organizations"
	"github.com/ortelius/orgmap-backend/internal/api"
	"github.com/ortelius/orgmap-backend/internal/config"
	"github.com/ortelius/orgmap-backend/internal/dashboard"
	"github.com/ortelius/orgmap-backend/internal/dataset"
	"github.com/ortelius/orgmap-backend/internal/kafka"
	"github.com/ortelius/orgmap-backend/internal/mapview"
	"github.com/ortelius/orgmap-backend/internal/metrics"
	"github.com/ortelius/orgmap-backend/internal/services"
	"github.com/ortelius/orgmap-backend/model"
	dashhttp "github.com/ortelius/orgmap-backend/restapi/modules/dashboard"
	"github.com/ortelius/orgmap-backend/util"
	"go.uber.org/zap"
)

func main() {
	logger := database.InitLogger()
	defer logger.Sync()

	cfg, err := config.Load(util.GetEnvDefault("CONFIG_FILE", ""))
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orgs, err := dataset.LoadFile(cfg.DatasetPath)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.String("path", cfg.DatasetPath), zap.Error(err))
	}

	store, err := database.OpenOverlayStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open overlay store", zap.String("backend", cfg.Overlay.Backend), zap.Error(err))
	}
	defer store.Close()

	state, err := store.Load(ctx)
	if err != nil {
		logger.Warn("Starting without overlay", zap.Error(err))
		state = model.NewOverlayState()
	}
	svc := services.NewOrganizationService(orgs, state, store, logger)

	if len(cfg.Kafka.Brokers) > 0 {
		replica := util.GetEnvDefault("REPLICA_ID", uuid.New().String())
		producer := organization.NewOrganizationProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, replica)
		defer producer.Close()
		svc.SetPublisher(producer, replica)

		if err := kafka.RunEventProcessor(ctx, cfg.Kafka, replica, svc, logger); err != nil {
			logger.Error("Replica sync disabled", zap.Error(err))
		}
	}

	renderer := mapview.NewRenderer(mapview.Options{
		Center:      cfg.Map.Center,
		EmptyCenter: cfg.Map.EmptyCenter,
		Zoom:        cfg.Map.Zoom,
	})

	var backend dashboard.Backend = &services.LocalBackend{Service: svc, Renderer: renderer}
	if cfg.Dashboard.BackendURL != "" {
		backend = dashboard.NewHTTPBackend(cfg.Dashboard.BackendURL)
		logger.Info("Dashboard uses remote backend", zap.String("url", cfg.Dashboard.BackendURL))
	}

	sessions, err := dashhttp.NewSessions(cfg.Dashboard.Sessions, backend, logger,
		dashboard.WithLogger(logger),
		dashboard.WithNoteTakers(cfg.NoteTakers),
		dashboard.WithStaleMapHook(metrics.StaleMaps.Inc),
	)
	if err != nil {
		logger.Fatal("Failed to create dashboard sessions", zap.Error(err))
	}

	app, err := api.NewFiberApp(api.Deps{
		Service:  svc,
		Renderer: renderer,
		Dashboard: &dashhttp.Handlers{
			Sessions: sessions,
			Store:    session.New(session.Config{CookieHTTPOnly: true, CookieSameSite: "Lax"}),
			Logger:   logger,
		},
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("Failed to create app", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			logger.Error("Shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("Starting server", zap.String("port", cfg.Port), zap.String("dataset", cfg.DatasetPath))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
