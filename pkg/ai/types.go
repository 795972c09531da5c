package ai

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when a provider is constructed without a credential.
var ErrMissingAPIKey = errors.New("api key is required")

// EvaluationInput contains the fully rendered grading prompt.
type EvaluationInput struct {
	Prompt string
}

// EvaluationOutput is the unparsed reply returned by the model.
type EvaluationOutput struct {
	Text     string
	Model    string
	Provider string
}

// Evaluator describes a generative model asked to answer in JSON.
type Evaluator interface {
	Evaluate(ctx context.Context, input EvaluationInput) (EvaluationOutput, error)
	Model() string
}
