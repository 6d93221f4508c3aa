package infra

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv   string `env:"APP_ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL"`
	Port     string `env:"PORT" env-default:"8080"`

	SeedDemoData       bool   `env:"SEED_DEMO_DATA" env-default:"true"`
	SeedFile           string `env:"SEED_FILE"`
	CurrentDonorID     string `env:"CURRENT_DONOR_ID" env-default:"donor-1"`
	CurrentRecipientID string `env:"CURRENT_RECIPIENT_ID" env-default:"recipient-1"`

	DefaultLocale      string   `env:"DEFAULT_LOCALE" env-default:"en"`
	GeoIPDBPath        string   `env:"GEOIP_DB_PATH"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000"`

	PromptProvider      string        `env:"PROMPT_PROVIDER" env-default:"gemini"`
	GeminiAPIKey        string        `env:"GEMINI_API_KEY"`
	GeminiModel         string        `env:"GEMINI_MODEL" env-default:"gemini-2.0-flash"`
	GeminiBaseURL       string        `env:"GEMINI_BASE_URL" env-default:"https://generativelanguage.googleapis.com/v1beta"`
	OpenAIAPIKey        string        `env:"OPENAI_API_KEY"`
	OpenAIModel         string        `env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	OpenAIBaseURL       string        `env:"OPENAI_BASE_URL" env-default:"https://api.openai.com/v1"`
	OpenAIOrg           string        `env:"OPENAI_ORG"`
	SuggestionMinLength int           `env:"SUGGESTION_MIN_LENGTH" env-default:"10"`
	ProviderTimeout     time.Duration `env:"PROVIDER_TIMEOUT" env-default:"15s"`

	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin     int           `env:"RATE_LIMIT_PER_MINUTE" env-default:"30"`
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.PromptProvider = strings.ToLower(strings.TrimSpace(cfg.PromptProvider))
	cfg.CORSAllowedOrigins = normalizeList(cfg.CORSAllowedOrigins)

	if strings.TrimSpace(cfg.Port) == "" {
		return nil, fmt.Errorf("PORT must not be empty")
	}
	if cfg.SuggestionMinLength < 1 {
		return nil, fmt.Errorf("SUGGESTION_MIN_LENGTH must be positive, got %d", cfg.SuggestionMinLength)
	}
	if cfg.HTTPShutdownTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive, got %s", cfg.HTTPShutdownTimeout)
	}
	if cfg.RateLimitPerMin < 1 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimitPerMin)
	}

	return &cfg, nil
}

func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
