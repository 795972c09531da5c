package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rubricai-api/internal/dto"
	"github.com/noah-isme/rubricai-api/internal/models"
	"github.com/noah-isme/rubricai-api/internal/repository"
	"github.com/noah-isme/rubricai-api/internal/rubric"
	"github.com/noah-isme/rubricai-api/pkg/ai"
)

// EvaluationService grades pseudocode and manages the evaluation history.
type EvaluationService interface {
	Evaluate(ctx context.Context, payload dto.EvaluationRequest) (models.Evaluation, error)
	History(ctx context.Context) ([]models.EvaluationRecord, error)
	ClearHistory(ctx context.Context) (bool, error)
}

// ErrInvalidPseudocode indicates the submission has no usable pseudocode.
var ErrInvalidPseudocode = errors.New("missing or invalid pseudocode")

// ErrEvaluatorUnavailable indicates the AI evaluator is not configured.
var ErrEvaluatorUnavailable = errors.New("evaluator unavailable")

// EvaluationServiceConfig holds the optional collaborators of the evaluation flow.
type EvaluationServiceConfig struct {
	// Timeout bounds a single model call. Zero leaves it to the caller's context.
	Timeout   time.Duration
	Schema    *rubric.Validator
	Cache     EvaluationCache
	Publisher EvaluationPublisher
}

type evaluationService struct {
	history   repository.HistoryRepository
	evaluator ai.Evaluator
	validator *validator.Validate
	logger    zerolog.Logger
	config    EvaluationServiceConfig
	now       func() time.Time
}

// NewEvaluationService constructs the evaluation service. A nil evaluator is
// allowed; every evaluation then fails with ErrEvaluatorUnavailable.
func NewEvaluationService(history repository.HistoryRepository, evaluator ai.Evaluator, validate *validator.Validate, logger zerolog.Logger, cfg EvaluationServiceConfig) EvaluationService {
	return &evaluationService{
		history:   history,
		evaluator: evaluator,
		validator: validate,
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		config:    cfg,
		now:       time.Now,
	}
}

func (s *evaluationService) Evaluate(ctx context.Context, payload dto.EvaluationRequest) (models.Evaluation, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPseudocode, err)
	}

	s.logger.Info().Int("pseudocode_length", len(payload.Pseudocode)).Msg("received pseudocode")

	if s.evaluator == nil {
		return nil, ErrEvaluatorUnavailable
	}

	model := s.evaluator.Model()

	if s.config.Cache != nil {
		cached, ok, err := s.config.Cache.Get(ctx, model, payload.Pseudocode)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Msg("failed to read evaluation cache")
		case ok:
			s.logger.Debug().Str("model", model).Msg("evaluation cache hit")
			s.record(ctx, model, payload.Pseudocode, cached)
			return cached, nil
		}
	}

	callCtx := ctx
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	output, err := s.evaluator.Evaluate(callCtx, ai.EvaluationInput{Prompt: rubric.BuildPrompt(payload.Pseudocode)})
	if err != nil {
		return nil, fmt.Errorf("generate evaluation: %w", err)
	}
	if output.Model != "" {
		model = output.Model
	}

	evaluation, err := rubric.Parse(output.Text)
	if err != nil {
		s.logger.Error().Int("raw_response_length", len(output.Text)).Msg("failed to parse AI JSON response")
		return nil, err
	}

	if s.config.Schema != nil {
		if err := s.config.Schema.Validate(evaluation); err != nil {
			var violation *rubric.SchemaViolationError
			if errors.As(err, &violation) {
				violation.Raw = output.Text
			}
			s.logger.Error().Err(err).Int("raw_response_length", len(output.Text)).Msg("AI response does not follow the rubric")
			return nil, err
		}
	}

	if s.config.Cache != nil {
		if err := s.config.Cache.Set(ctx, model, payload.Pseudocode, evaluation); err != nil {
			s.logger.Warn().Err(err).Msg("failed to store evaluation cache")
		}
	}

	s.record(ctx, model, payload.Pseudocode, evaluation)

	return evaluation, nil
}

// record appends the evaluation to the history and announces it. Both steps
// are best effort; failures are logged and never reach the caller.
func (s *evaluationService) record(ctx context.Context, model, pseudocode string, evaluation models.Evaluation) {
	ctx = context.WithoutCancel(ctx)
	record := models.EvaluationRecord{
		Timestamp:  s.now(),
		Model:      model,
		Pseudocode: pseudocode,
		Evaluation: evaluation,
	}

	if err := s.history.Append(ctx, record); err != nil {
		s.logger.Error().Err(err).Msg("failed to save evaluation")
		return
	}
	s.logger.Info().Msg("successfully saved evaluation")

	if s.config.Publisher != nil {
		if err := s.config.Publisher.Publish(ctx, record); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish evaluation event")
		}
	}
}

func (s *evaluationService) History(ctx context.Context) ([]models.EvaluationRecord, error) {
	records, err := s.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return records, nil
}

func (s *evaluationService) ClearHistory(ctx context.Context) (bool, error) {
	cleared, err := s.history.Clear(ctx)
	if err != nil {
		return false, fmt.Errorf("clear history: %w", err)
	}
	if cleared {
		s.logger.Info().Msg("history cleared")
	} else {
		s.logger.Info().Msg("history already clear")
	}
	return cleared, nil
}
