// Command listmodels prints the Gemini models available to GOOGLE_API_KEY so a
// valid GENAI_MODEL can be chosen.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/rubricai-api/internal/config"
	"github.com/noah-isme/rubricai-api/pkg/ai"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.GoogleAPIKey == "" {
		logger.Fatal().Msg("GOOGLE_API_KEY not set in environment")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	evaluator, err := ai.NewGeminiEvaluator(ctx, ai.GeminiConfig{APIKey: cfg.GoogleAPIKey, Model: cfg.GenAIModel})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure gemini client")
	}

	models, err := evaluator.ListModels(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("error listing models")
	}

	fmt.Println("--- Available Models and Supported Methods ---")
	for _, model := range models {
		fmt.Printf("Model: %s\n", model.Name)
		if model.DisplayName != "" {
			fmt.Printf("  Display name: %s\n", model.DisplayName)
		}
		fmt.Printf("  Supported methods: %s\n\n", strings.Join(model.SupportedActions, ", "))
	}
}
