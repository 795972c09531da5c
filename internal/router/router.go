package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rubricai-api/internal/config"
	"github.com/noah-isme/rubricai-api/internal/handler"
	"github.com/noah-isme/rubricai-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *handler.EvaluationHandler
	HistoryHandler    *handler.HistoryHandler
	// AdminGuard protects POST /clear_history.
	AdminGuard fiber.Handler
	// EvaluateLimiter throttles POST /evaluate.
	EvaluateLimiter fiber.Handler
	EvaluatorReady  bool
	// ExposeMetrics mounts the Prometheus scrape endpoint at /metrics.
	ExposeMetrics bool
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	app.Get("/", handler.Index())
	app.Get("/healthz", handler.HealthCheck(cfg, deps.EvaluatorReady))
	if deps.ExposeMetrics {
		app.Get("/metrics", observability.MetricsHandler())
	}

	if deps.EvaluationHandler != nil {
		limiter := deps.EvaluateLimiter
		if limiter == nil {
			limiter = passThrough
		}
		deps.EvaluationHandler.Register(app.Group("/evaluate", limiter))
	}

	if deps.HistoryHandler != nil {
		deps.HistoryHandler.Register(app, deps.AdminGuard)
	}
}

func passThrough(c *fiber.Ctx) error {
	return c.Next()
}

