package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings. Provider credentials are intentionally not
// required: a missing key surfaces as a 500 on the endpoint that needs it.
type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	Environment string `envconfig:"ENV" default:"production"`
	LogLevel    string `envconfig:"LOG_LEVEL"`

	// Public URL used for Stripe redirect targets. Derived from the request host when empty.
	PublicBaseURL      string   `envconfig:"PUBLIC_BASE_URL"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// LLM settings
	LLMProvider     string `envconfig:"LLM_PROVIDER" default:"anthropic"`
	LLMTimeoutSec   int    `envconfig:"LLM_TIMEOUT_SEC" default:"60"`
	LLMMaxTokens    int64  `envconfig:"LLM_MAX_TOKENS" default:"2000"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `envconfig:"ANTHROPIC_MODEL" default:"claude-sonnet-4-20250514"`
	OpenAIAPIKey    string `envconfig:"OPENAI_API_KEY"`
	OpenAIModel     string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// Stripe settings
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`
	StripePriceID   string `envconfig:"STRIPE_PRICE_ID"`

	// Usage settings
	FreeDailyLimit     int    `envconfig:"FREE_DAILY_LIMIT" default:"3"`
	UsageStore         string `envconfig:"USAGE_STORE" default:"memory"`
	RedisURL           string `envconfig:"REDIS_URL"`
	DBConnectionString string `envconfig:"DB_CONNECTION_STRING"`
	SQLitePath         string `envconfig:"SQLITE_PATH" default:"data/usage.db"`

	// Article fetch settings
	Extractor         string `envconfig:"EXTRACTOR" default:"regex"`
	FetchTimeoutSec   int    `envconfig:"FETCH_TIMEOUT_SEC" default:"15"`
	FetchMaxBytes     int64  `envconfig:"FETCH_MAX_BYTES" default:"5242880"`
	FetchBlockPrivate bool   `envconfig:"FETCH_BLOCK_PRIVATE" default:"true"`

	// GCP settings. Secret Manager and Pub/Sub are only used when a project is set.
	GCPProjectID          string `envconfig:"GCP_PROJECT_ID"`
	PubSubGenerationTopic string `envconfig:"PUBSUB_GENERATION_TOPIC"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDevelopment reports whether the service runs locally.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSec) * time.Second
}
