package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// NewApp builds the fiber application with the engine's routes mounted.
func NewApp(handlers *APIHandlers) *fiber.App {
	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowgraph API")
	})
	app.Get("/health", handlers.HealthCheck)

	workflows := app.Group("/workflows")
	workflows.Post("/:id/execute", handlers.ExecuteWorkflow)
	workflows.Get("/:id/executions", handlers.ListExecutions)

	executions := app.Group("/executions")
	executions.Get("/stats", handlers.ExecutionStats)
	executions.Get("/:id", handlers.GetExecution)
	executions.Post("/:id/stop", handlers.StopExecution)

	app.All("/webhooks/:workflowId/*", handlers.Webhook)

	return app
}
