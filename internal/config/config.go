package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is the full environment-driven configuration surface.
type Config struct {
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8000"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	DataDir     string   `env:"DATA_DIR" envDefault:"data/orders"`
	MenuPath    string   `env:"MENU_PATH" envDefault:"data/menu.md"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://127.0.0.1:3000"`

	// LLM settings
	OpenAIAPIKey   string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string  `env:"OPENAI_BASE_URL"`
	OpenAIModel    string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	LLMTemperature float32 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMMaxTokens   int     `env:"LLM_MAX_TOKENS"`

	// Rate limits, requests per minute per dependency
	ModelRequestsPerMinute int `env:"MODEL_REQUESTS_PER_MINUTE" envDefault:"30"`
	MaxConcurrentTurns     int `env:"MAX_CONCURRENT_TURNS" envDefault:"8"`

	// Pricing constants for usage estimation
	ExternalRatePerMinuteUSD float64 `env:"EXTERNAL_RATE_PER_MINUTE_USD" envDefault:"0.0043"`
	TokenRatePerThousandUSD  float64 `env:"TOKEN_RATE_PER_THOUSAND_USD" envDefault:"0.000125"`
	USDToINR                 float64 `env:"USD_TO_INR" envDefault:"83"`

	// Admin and shop info
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"kai2026"`
	UPIID         string `env:"UPI_ID" envDefault:"hackdomland-4@okhdfcbank"`
	ShopName      string `env:"SHOP_NAME" envDefault:"Jodhpur Namkeen"`

	// Optional Telegram ordering channel
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
}

// Load reads .env (if present) and parses the environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
