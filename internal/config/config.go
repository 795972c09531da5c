package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Supported history storage drivers.
const (
	HistoryDriverFile     = "file"
	HistoryDriverSQLite   = "sqlite"
	HistoryDriverPostgres = "postgres"
)

// Supported AI providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// DefaultGenAIModel is used when GENAI_MODEL is not set.
const DefaultGenAIModel = "models/gemini-flash-latest"

// Config holds runtime configuration values for the API service. It is built
// once at startup and handed to constructors by value.
type Config struct {
	AppName            string
	AppEnv             string
	AppPort            string
	AIProvider         string
	GoogleAPIKey       string
	GenAIModel         string
	OpenAIAPIKey       string
	OpenAIModel        string
	AITimeout          time.Duration
	AdminToken         string
	HistoryDriver      string
	HistoryPath        string
	HistoryDSN         string
	RubricStrict       bool
	EvaluateRateLimit  int
	RedisURL           string
	EvaluationCacheTTL time.Duration
	NATSURL            string
	NATSSubject        string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Model returns the model identifier for the configured provider.
func (c Config) Model() string {
	if c.AIProvider == ProviderOpenAI {
		return c.OpenAIModel
	}
	return c.GenAIModel
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "RubricAI")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("ai.provider", ProviderGemini)
	v.SetDefault("genai.model", DefaultGenAIModel)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("ai.timeout", "0s")
	v.SetDefault("history.driver", HistoryDriverFile)
	v.SetDefault("history.path", "evaluations.jsonl")
	v.SetDefault("rubric.strict", false)
	v.SetDefault("evaluate.rate_limit", 0)
	v.SetDefault("evaluation.cache_ttl", "24h")
	v.SetDefault("nats.subject", "rubricai.evaluations")

	timeout, err := parseDuration(v, "ai.timeout", "0s")
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai timeout: %w", err)
	}

	cacheTTL, err := parseDuration(v, "evaluation.cache_ttl", "24h")
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluation cache ttl: %w", err)
	}

	cfg := Config{
		AppName:            v.GetString("app.name"),
		AppEnv:             v.GetString("app.env"),
		AppPort:            v.GetString("app.port"),
		AIProvider:         strings.ToLower(strings.TrimSpace(v.GetString("ai.provider"))),
		GoogleAPIKey:       strings.TrimSpace(v.GetString("google.api_key")),
		GenAIModel:         strings.TrimSpace(v.GetString("genai.model")),
		OpenAIAPIKey:       strings.TrimSpace(v.GetString("openai.api_key")),
		OpenAIModel:        strings.TrimSpace(v.GetString("openai.model")),
		AITimeout:          timeout,
		AdminToken:         v.GetString("admin.token"),
		HistoryDriver:      strings.ToLower(strings.TrimSpace(v.GetString("history.driver"))),
		HistoryPath:        v.GetString("history.path"),
		HistoryDSN:         v.GetString("history.dsn"),
		RubricStrict:       v.GetBool("rubric.strict"),
		EvaluateRateLimit:  v.GetInt("evaluate.rate_limit"),
		RedisURL:           v.GetString("redis.url"),
		EvaluationCacheTTL: cacheTTL,
		NATSURL:            v.GetString("nats.url"),
		NATSSubject:        v.GetString("nats.subject"),
	}

	if cfg.GenAIModel == "" {
		cfg.GenAIModel = DefaultGenAIModel
	}

	switch cfg.AIProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return Config{}, fmt.Errorf("unsupported ai provider %q", cfg.AIProvider)
	}

	switch cfg.HistoryDriver {
	case HistoryDriverFile:
		if strings.TrimSpace(cfg.HistoryPath) == "" {
			return Config{}, fmt.Errorf("history path must not be empty")
		}
	case HistoryDriverSQLite, HistoryDriverPostgres:
		if strings.TrimSpace(cfg.HistoryDSN) == "" {
			return Config{}, fmt.Errorf("history dsn must be provided for driver %q", cfg.HistoryDriver)
		}
	default:
		return Config{}, fmt.Errorf("unsupported history driver %q", cfg.HistoryDriver)
	}

	if cfg.EvaluateRateLimit < 0 {
		cfg.EvaluateRateLimit = 0
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		value = fallback
	}
	return time.ParseDuration(value)
}
