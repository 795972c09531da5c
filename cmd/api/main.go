package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/rubricai-api/internal/config"
	"github.com/noah-isme/rubricai-api/internal/database"
	"github.com/noah-isme/rubricai-api/internal/handler"
	"github.com/noah-isme/rubricai-api/internal/middleware"
	"github.com/noah-isme/rubricai-api/internal/repository"
	"github.com/noah-isme/rubricai-api/internal/router"
	"github.com/noah-isme/rubricai-api/internal/rubric"
	"github.com/noah-isme/rubricai-api/internal/service"
	"github.com/noah-isme/rubricai-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	history, closeHistory := buildHistory(cfg, logger)
	defer closeHistory()

	evaluator := buildEvaluator(cfg, logger)

	svcConfig := service.EvaluationServiceConfig{Timeout: cfg.AITimeout}

	if cfg.RubricStrict {
		schema, err := rubric.NewValidator()
		if err != nil {
			log.Fatalf("failed to compile rubric schema: %v", err)
		}
		svcConfig.Schema = schema
	}

	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("evaluation cache disabled")
		} else {
			defer redisClient.Close()
			svcConfig.Cache = service.NewRedisEvaluationCache(redisClient, cfg.EvaluationCacheTTL)
		}
	}

	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("evaluation events disabled")
		} else {
			defer natsConn.Drain()
			svcConfig.Publisher = service.NewNATSEvaluationPublisher(natsConn, cfg.NATSSubject)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	evaluationService := service.NewEvaluationService(history, evaluator, validate, logger, svcConfig)

	evaluationHandler := handler.NewEvaluationHandler(evaluationService, validate, logger)
	historyHandler := handler.NewHistoryHandler(evaluationService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AppEnv == "development"})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		HistoryHandler:    historyHandler,
		AdminGuard:        middleware.AdminToken(cfg.AdminToken, logger),
		EvaluateLimiter:   middleware.RateLimit("evaluate", cfg.EvaluateRateLimit, time.Minute),
		EvaluatorReady:    evaluator != nil,
		ExposeMetrics:     true,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("provider", cfg.AIProvider).Str("model", cfg.Model()).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildEvaluator returns nil when the provider cannot be configured; the server
// still starts and /evaluate fails per request.
func buildEvaluator(cfg config.Config, logger zerolog.Logger) ai.Evaluator {
	var (
		evaluator ai.Evaluator
		err       error
	)

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		var openaiEvaluator *ai.OpenAIEvaluator
		openaiEvaluator, err = ai.NewOpenAIEvaluator(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err == nil {
			evaluator = openaiEvaluator
		}
	default:
		var geminiEvaluator *ai.GeminiEvaluator
		geminiEvaluator, err = ai.NewGeminiEvaluator(context.Background(), ai.GeminiConfig{
			APIKey: cfg.GoogleAPIKey,
			Model:  cfg.GenAIModel,
			Logger: logger,
		})
		if err == nil {
			evaluator = geminiEvaluator
		}
	}

	if err != nil {
		if errors.Is(err, ai.ErrMissingAPIKey) {
			logger.Warn().Str("provider", cfg.AIProvider).Msg("AI credential not set; evaluation calls will fail until configured")
		} else {
			logger.Warn().Err(err).Str("provider", cfg.AIProvider).Msg("AI client unavailable; evaluation calls will fail")
		}
		return nil
	}

	return evaluator
}

func buildHistory(cfg config.Config, logger zerolog.Logger) (repository.HistoryRepository, func()) {
	if cfg.HistoryDriver == config.HistoryDriverFile {
		return repository.NewFileHistoryRepository(cfg.HistoryPath, logger), func() {}
	}

	db, err := database.OpenHistory(cfg.HistoryDriver, cfg.HistoryDSN)
	if err != nil {
		log.Fatalf("failed to open history database: %v", err)
	}

	return repository.NewDBHistoryRepository(db), func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
