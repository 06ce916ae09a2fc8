// Package main provides the workflow builder API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/Izguerra/workflow-builder/pkg/auth"
	"github.com/Izguerra/workflow-builder/pkg/eventbus"
	"github.com/Izguerra/workflow-builder/pkg/persistence"
	"github.com/Izguerra/workflow-builder/pkg/services"
	"github.com/Izguerra/workflow-builder/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
}

func NewAPI(logger *slog.Logger, persistence persistence.Persistence, eventBus eventbus.EventBus) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.persistence, a.validate)
	if a.eventBus != nil {
		workflowService.AttachPublisher(a.logger, a.eventBus)
	}
	versionService := services.NewVersion(a.persistence)
	shareService := services.NewShare(a.persistence)
	registry := auth.NewRegistry(a.persistence.UserRepository())

	handlers := web.NewAPIHandlers(workflowService, versionService, shareService, registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Workflow Builder API")
	})

	app.Post("/signup", handlers.Signup)
	app.Get("/node-types", handlers.GetNodeTypes)
	app.Get("/node-types/:type/fields", handlers.GetNodeTypeFields)
	app.Get("/health", handlers.HealthCheck)

	authed := app.Group("", web.NewAuthMiddleware(registry))
	authed.Get("/shared-workflows", handlers.GetSharedWorkflows)

	w := authed.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/versions", handlers.CreateWorkflowVersion)
	w.Get("/:id/versions", handlers.GetWorkflowVersions)
	w.Post("/:id/shares", handlers.ShareWorkflow)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
