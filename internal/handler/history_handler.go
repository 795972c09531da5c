package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rubricai-api/internal/models"
	"github.com/noah-isme/rubricai-api/internal/service"
	"github.com/noah-isme/rubricai-api/internal/utils"
)

// HistoryHandler exposes the evaluation history endpoints.
type HistoryHandler struct {
	service service.EvaluationService
	logger  zerolog.Logger
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(service service.EvaluationService, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service: service,
		logger:  logger.With().Str("component", "history_handler").Logger(),
	}
}

// Register wires GET /history and POST /clear_history; adminGuard runs before the clear.
func (h *HistoryHandler) Register(router fiber.Router, adminGuard fiber.Handler) {
	router.Get("/history", h.list)
	if adminGuard != nil {
		router.Post("/clear_history", adminGuard, h.clear)
		return
	}
	router.Post("/clear_history", h.clear)
}

func (h *HistoryHandler) list(c *fiber.Ctx) error {
	records, err := h.service.History(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("error reading history")
		return utils.SendError(c, fiber.StatusInternalServerError, "Could not read history")
	}
	if records == nil {
		records = []models.EvaluationRecord{}
	}

	return utils.SendJSON(c, fiber.StatusOK, records)
}

func (h *HistoryHandler) clear(c *fiber.Ctx) error {
	cleared, err := h.service.ClearHistory(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("error clearing history")
		return utils.SendError(c, fiber.StatusInternalServerError, "Could not clear history")
	}

	if cleared {
		return utils.SendMessage(c, "History cleared")
	}
	return utils.SendMessage(c, "History already clear")
}
