package handler

import (
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rubricai-api/internal/dto"
	"github.com/noah-isme/rubricai-api/internal/rubric"
	"github.com/noah-isme/rubricai-api/internal/service"
	"github.com/noah-isme/rubricai-api/internal/utils"
)

const (
	msgRequestNotJSON    = "Request must be JSON"
	msgInvalidPseudocode = "Missing or invalid 'pseudocode' field"
	msgMalformedAI       = "AI response was not valid JSON"
	msgRubricMismatch    = "AI response did not match the rubric schema"
	msgInternal          = "An internal server error occurred"
)

// EvaluationHandler exposes the pseudocode grading endpoint.
type EvaluationHandler struct {
	service   service.EvaluationService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEvaluationHandler constructs the handler.
func NewEvaluationHandler(service service.EvaluationService, validator *validator.Validate, logger zerolog.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "evaluation_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *EvaluationHandler) Register(router fiber.Router) {
	router.Post("", h.evaluate)
}

func (h *EvaluationHandler) evaluate(c *fiber.Ctx) error {
	if !c.Is("json") || !json.Valid(c.Body()) {
		return utils.SendError(c, fiber.StatusBadRequest, msgRequestNotJSON)
	}

	var payload dto.EvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPseudocode)
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPseudocode)
	}

	evaluation, err := h.service.Evaluate(c.UserContext(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendRawJSON(c, fiber.StatusOK, evaluation)
}

func (h *EvaluationHandler) handleError(c *fiber.Ctx, err error) error {
	logger := requestLogger(h.logger, c)

	var (
		malformed *rubric.MalformedResponseError
		violation *rubric.SchemaViolationError
	)
	switch {
	case errors.Is(err, service.ErrInvalidPseudocode):
		return utils.SendError(c, fiber.StatusBadRequest, msgInvalidPseudocode)
	case errors.As(err, &malformed):
		logger.Error().Int("raw_response_length", len(malformed.Raw)).Msg("AI response was not valid JSON")
		return utils.SendUpstreamError(c, fiber.StatusBadGateway, msgMalformedAI, malformed.Raw, "")
	case errors.As(err, &violation):
		logger.Error().Int("raw_response_length", len(violation.Raw)).Str("reason", violation.Reason).Msg("AI response did not match rubric")
		return utils.SendUpstreamError(c, fiber.StatusBadGateway, msgRubricMismatch, violation.Raw, violation.Reason)
	case errors.Is(err, service.ErrEvaluatorUnavailable):
		logger.Error().Msg("evaluation requested but no AI evaluator is configured")
		return utils.SendError(c, fiber.StatusInternalServerError, msgInternal)
	default:
		logger.Error().Err(err).Msg("an unexpected error occurred while evaluating pseudocode")
		return utils.SendError(c, fiber.StatusInternalServerError, msgInternal)
	}
}
