package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/rubricai-api/internal/config"
	"github.com/noah-isme/rubricai-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Service        string    `json:"service"`
	Environment    string    `json:"environment"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	EvaluatorReady bool      `json:"evaluator_ready"`
}

// HealthCheck returns a handler that reports application health information.
// evaluatorReady tells whether a model credential was accepted at startup.
func HealthCheck(cfg config.Config, evaluatorReady bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:         "ok",
			Timestamp:      time.Now().UTC(),
			Service:        cfg.AppName,
			Environment:    cfg.AppEnv,
			Provider:       cfg.AIProvider,
			Model:          cfg.Model(),
			EvaluatorReady: evaluatorReady,
		}

		return utils.SendJSON(c, fiber.StatusOK, payload)
	}
}
