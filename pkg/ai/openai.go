package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const providerOpenAI = "openai"

// OpenAIConfig defines configuration options for the OpenAI evaluator.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIEvaluator implements Evaluator against the OpenAI chat completion API.
type OpenAIEvaluator struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIEvaluator builds a new evaluator using the provided configuration.
func NewOpenAIEvaluator(cfg OpenAIConfig) (*OpenAIEvaluator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingAPIKey)
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIEvaluator{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/rubricai-api/pkg/ai/openai"),
		logger: logger,
	}, nil
}

// Model returns the configured model identifier.
func (e *OpenAIEvaluator) Model() string {
	return e.cfg.Model
}

// Evaluate sends the prompt as a single user message and returns the raw JSON text.
func (e *OpenAIEvaluator) Evaluate(parent context.Context, input EvaluationInput) (EvaluationOutput, error) {
	ctx, span := e.tracer.Start(parent, "openai.generate", trace.WithAttributes(
		attribute.String("model", e.cfg.Model),
		attribute.Int("prompt_length", len(input.Prompt)),
	))
	defer span.End()

	start := time.Now()
	request := openai.ChatCompletionRequest{
		Model:       e.cfg.Model,
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: input.Prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	}

	resp, err := e.client.CreateChatCompletion(ctx, request)
	observe(providerOpenAI, e.cfg.Model, start)
	if err != nil {
		recordFailure(span, providerOpenAI, e.cfg.Model, err)
		return EvaluationOutput{}, fmt.Errorf("openai generate: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := errors.New("no choices returned from openai")
		recordFailure(span, providerOpenAI, e.cfg.Model, err)
		return EvaluationOutput{}, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	e.logger.Debug().
		Str("model", e.cfg.Model).
		Int("response_length", len(content)).
		Int("total_tokens", resp.Usage.TotalTokens).
		Msg("openai response received")

	return EvaluationOutput{
		Text:     content,
		Model:    e.cfg.Model,
		Provider: providerOpenAI,
	}, nil
}
