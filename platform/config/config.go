// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// JWTConfig provides JWT settings for agent authentication.
type JWTConfig interface {
	GetJWTSecret() string
	GetAccessTokenTTL() time.Duration
}

// AIConfig provides settings for the advisory text generation capability.
// Exactly one provider is selected; keys for the others may be empty.
type AIConfig interface {
	GetAIProvider() string
	GetAnthropicAPIKey() string
	GetOpenAIAPIKey() string
	GetGeminiAPIKey() string
	GetAITimeout() time.Duration
}

// SchedulerConfig provides settings for the asynq background job system.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
}

// CacheConfig provides settings for the redis snapshot cache.
type CacheConfig interface {
	GetRedisURL() string
	GetSnapshotTTL() time.Duration
}

// EmailConfig provides settings for agent handoff notification email.
type EmailConfig interface {
	GetEmailEnabled() bool
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetHandoffInboxAddress() string
}

// PolicyConfig provides the location of the lead-scoring policy document.
type PolicyConfig interface {
	GetPolicyPath() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	JWTSecret      string
	AccessTokenTTL time.Duration

	CORSAllowAll bool
	CORSOrigins  []string

	AIProvider      string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AITimeout       time.Duration

	RedisURL       string
	AsynqQueueName string
	SnapshotTTL    time.Duration

	EmailEnabled        bool
	SMTPHost            string
	SMTPPort            int
	SMTPUsername        string
	SMTPPassword        string
	EmailFromName       string
	EmailFromAddress    string
	HandoffInboxAddress string

	PolicyPath string
}

// Load reads configuration from the environment, with .env support for
// local development. Missing required values return an error.
func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("APP_ENV", "development"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret:      os.Getenv("JWT_SECRET"),
		AccessTokenTTL: getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),

		CORSAllowAll: getBool("CORS_ALLOW_ALL", false),
		CORSOrigins:  getList("CORS_ORIGINS"),

		AIProvider:      getEnv("AI_PROVIDER", "anthropic"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:    firstNonEmpty(os.Getenv("GEMINI_API_KEY"), os.Getenv("GOOGLE_API_KEY")),
		AITimeout:       getDuration("AI_TIMEOUT", 30*time.Second),

		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		AsynqQueueName: getEnv("ASYNQ_QUEUE", "default"),
		SnapshotTTL:    getDuration("SNAPSHOT_TTL", 30*time.Second),

		EmailEnabled:        getBool("EMAIL_ENABLED", false),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPPort:            getInt("SMTP_PORT", 587),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
		EmailFromName:       getEnv("EMAIL_FROM_NAME", "Yuvna Realty"),
		EmailFromAddress:    getEnv("EMAIL_FROM_ADDRESS", "advisory@yuvna.example"),
		HandoffInboxAddress: getEnv("HANDOFF_INBOX_ADDRESS", "agents@yuvna.example"),

		PolicyPath: os.Getenv("POLICY_PATH"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// =============================================================================
// Interface Implementations
// =============================================================================

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

func (c *Config) GetJWTSecret() string             { return c.JWTSecret }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

func (c *Config) GetAIProvider() string        { return c.AIProvider }
func (c *Config) GetAnthropicAPIKey() string   { return c.AnthropicAPIKey }
func (c *Config) GetOpenAIAPIKey() string      { return c.OpenAIAPIKey }
func (c *Config) GetGeminiAPIKey() string      { return c.GeminiAPIKey }
func (c *Config) GetAITimeout() time.Duration  { return c.AITimeout }

func (c *Config) GetRedisURL() string           { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string     { return c.AsynqQueueName }
func (c *Config) GetSnapshotTTL() time.Duration { return c.SnapshotTTL }

func (c *Config) GetEmailEnabled() bool           { return c.EmailEnabled }
func (c *Config) GetSMTPHost() string             { return c.SMTPHost }
func (c *Config) GetSMTPPort() int                { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string         { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string         { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string        { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string     { return c.EmailFromAddress }
func (c *Config) GetHandoffInboxAddress() string  { return c.HandoffInboxAddress }

func (c *Config) GetPolicyPath() string { return c.PolicyPath }

// =============================================================================
// Env Helpers
// =============================================================================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
