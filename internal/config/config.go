// Package config provides environment configuration for the API server.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	ServerPort         string        `env:"PORT" envDefault:"8080"`
	ServerReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	ServerWriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"150s"`
	MaxImageBytes      int64         `env:"MAX_IMAGE_BYTES" envDefault:"10485760"`
	CORSOrigins        []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Storage. An empty DatabaseURL keeps sessions in memory.
	DatabaseURL string `env:"DATABASE_URL"`

	// NATS settings. An empty URL disables the JetStream turn log.
	NATSURL      string `env:"NATS_URL"`
	NATSCAFile   string `env:"NATS_CA_FILE"`
	NATSCertFile string `env:"NATS_CERT_FILE"`
	NATSKeyFile  string `env:"NATS_KEY_FILE"`
	NATSToken    string `env:"NATS_TOKEN"`

	// JWT settings
	JWTSecret string `env:"JWT_SECRET" envDefault:"development-secret-change-in-production"`

	// LLM settings
	LLMProvider     string `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	Model           string `env:"LLM_MODEL" envDefault:"amazon/nova-2-lite-v1:free"`
	AppURL          string `env:"APP_URL"`
	AppTitle        string `env:"APP_TITLE" envDefault:"Gia Fashion AI"`

	// Completion resilience
	CompletionTimeout   time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`
	CompletionRetries   uint64        `env:"COMPLETION_RETRIES" envDefault:"1"`
	CompletionRetryWait time.Duration `env:"COMPLETION_RETRY_WAIT" envDefault:"500ms"`

	// Per-session turn guard
	InFlightTTL time.Duration `env:"INFLIGHT_TTL" envDefault:"2m"`

	// Rate limiting
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"60"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	// Shopping links
	AmazonTag string `env:"AMAZON_TAG" envDefault:"demo-hackathon-20"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Tracing
	TracingEndpoint string `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingEnabled  bool   `env:"TRACING_ENABLED" envDefault:"false"`
}

// Load reads a .env file when present, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse reads configuration from the environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.CompletionTimeout <= 0 {
		return errors.New("COMPLETION_TIMEOUT must be positive")
	}
	if c.RateLimitRequests <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS must be positive")
	}
	return nil
}

// LLMAPIKey returns the key for the configured provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}
