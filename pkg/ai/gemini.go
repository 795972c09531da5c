package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const providerGemini = "gemini"

// GeminiConfig defines configuration options for the Gemini evaluator.
type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// GeminiEvaluator implements Evaluator against the Gemini generateContent API.
type GeminiEvaluator struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiEvaluator builds a new evaluator using the provided configuration.
func NewGeminiEvaluator(ctx context.Context, cfg GeminiConfig) (*GeminiEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}

	if cfg.Model == "" {
		cfg.Model = "models/gemini-flash-latest"
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiEvaluator{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/rubricai-api/pkg/ai/gemini"),
		logger: logger,
	}, nil
}

// Model returns the configured model identifier.
func (e *GeminiEvaluator) Model() string {
	return e.cfg.Model
}

// Evaluate sends the prompt to Gemini with JSON output enforced and returns the raw text.
func (e *GeminiEvaluator) Evaluate(parent context.Context, input EvaluationInput) (EvaluationOutput, error) {
	ctx, span := e.tracer.Start(parent, "gemini.generate", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
		attribute.Int("prompt_length", len(input.Prompt)),
	))
	defer span.End()

	start := time.Now()
	resp, err := e.client.Models.GenerateContent(ctx, e.cfg.Model, genai.Text(input.Prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	observe(providerGemini, e.cfg.Model, start)
	if err != nil {
		recordFailure(span, providerGemini, e.cfg.Model, err)
		return EvaluationOutput{}, fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 {
		err := errors.New("no candidates returned from gemini")
		recordFailure(span, providerGemini, e.cfg.Model, err)
		return EvaluationOutput{}, err
	}

	text := resp.Text()
	e.logger.Debug().Str("model", e.cfg.Model).Int("response_length", len(text)).Msg("gemini response received")

	return EvaluationOutput{
		Text:     text,
		Model:    e.cfg.Model,
		Provider: providerGemini,
	}, nil
}

// ListModels returns the names and supported actions of every model visible to the key.
func (e *GeminiEvaluator) ListModels(ctx context.Context) ([]ModelInfo, error) {
	var models []ModelInfo
	for model, err := range e.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list gemini models: %w", err)
		}
		models = append(models, ModelInfo{
			Name:             model.Name,
			DisplayName:      model.DisplayName,
			SupportedActions: model.SupportedActions,
		})
	}
	return models, nil
}

// ModelInfo summarises a model advertised by the provider.
type ModelInfo struct {
	Name             string
	DisplayName      string
	SupportedActions []string
}
