// Package config loads application configuration from environment
// variables, with secrets read from files (Docker secrets style).
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the full server configuration.
type Config struct {
	Port     string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogEnc   string `envconfig:"LOG_ENCODING" default:"json"`

	// PostgreSQL
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`
	DBSSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	DBMaxConns int    `envconfig:"DB_MAX_CONNECTIONS" default:"10"`
	// Secret field, loaded from file, no envconfig tag.
	DBPassword string

	// Redis (leaderboard mirror)
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// RabbitMQ. Empty URL disables event publishing.
	RabbitMQURL           string `envconfig:"RABBITMQ_URL" default:""`
	ProgressionEventQueue string `envconfig:"PROGRESSION_EVENT_QUEUE" default:"progression_events"`

	// AI backend
	AIClientType string        `envconfig:"AI_CLIENT_TYPE" default:"openai"`
	AIBaseURL    string        `envconfig:"AI_BASE_URL" default:""`
	AIModel      string        `envconfig:"AI_MODEL" default:"gpt-4o-mini"`
	AITimeout    time.Duration `envconfig:"AI_TIMEOUT" default:"120s"`
	AIMaxRetries int           `envconfig:"AI_MAX_RETRIES" default:"3"`
	// Secret field, loaded from file. May be absent: the server still
	// starts, AI endpoints report the backend as not configured.
	AIAPIKey string

	// CORS
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// JWT (verification only, tokens are issued elsewhere)
	// Secret field, loaded from file.
	JWTSecret string
}

// GetDSN returns the PostgreSQL connection string.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=%d",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode, c.DBMaxConns)
}

// LoadConfig loads configuration from the environment and secret files.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var err error
	cfg.DBPassword, err = ReadSecret("db_password")
	if err != nil {
		return nil, err
	}
	cfg.JWTSecret, err = ReadSecret("jwt_secret")
	if err != nil {
		return nil, err
	}

	// Optional: missing key means the AI client runs disabled.
	cfg.AIAPIKey, _ = ReadSecret("ai_api_key")

	return &cfg, nil
}
