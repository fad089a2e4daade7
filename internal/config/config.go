package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration. Values come from an optional
// YAML file (BOT_CONFIG) overridden by environment variables.
type Config struct {
	// BotToken is the Telegram credential. Required; startup aborts without
	// it.
	BotToken string `yaml:"bot_token"`
	// TeamChatID is the optional secondary broadcast target for reminders.
	TeamChatID int64 `yaml:"team_chat_id"`
	// DatabaseURL selects the store backend: a postgres:// URL or a sqlite
	// file path.
	DatabaseURL string `yaml:"database_url"`

	// Daily sweep trigger, host-local 24h clock.
	ReminderHour   int `yaml:"reminder_hour"`
	ReminderMinute int `yaml:"reminder_minute"`

	// SessionTTL evicts abandoned dialogues after this much inactivity.
	SessionTTL time.Duration `yaml:"session_ttl"`

	// Admin HTTP surface.
	HTTPAddr      string `yaml:"http_addr"`
	EnableMetrics bool   `yaml:"enable_metrics"`

	JWTSecret   string        `yaml:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer"`
	JWTAudience string        `yaml:"jwt_audience"`
	JWTExpiry   time.Duration `yaml:"jwt_expiry"`
}

// Load builds the configuration from the optional YAML file and the
// environment. It never fails; use Validate (or LoadAndValidate) to reject
// unusable values.
func Load() *Config {
	config := &Config{
		DatabaseURL:    "leases.db",
		ReminderHour:   9,
		ReminderMinute: 0,
		SessionTTL:     30 * time.Minute,
		HTTPAddr:       ":8080",
		JWTSecret:      "your-secret-key-change-in-production",
		JWTIssuer:      "lease-recert-bot",
		JWTAudience:    "lease-recert-bot",
		JWTExpiry:      24 * time.Hour,
	}

	if path := os.Getenv("BOT_CONFIG"); path != "" {
		if data, err := os.ReadFile(path); err != nil {
			log.Printf("config: read %s: %v", path, err)
		} else if err := yaml.Unmarshal(data, config); err != nil {
			// Not fatal; env values and defaults still apply.
			log.Printf("config: parse %s: %v", path, err)
		}
	}

	config.BotToken = getEnv("TELEGRAM_BOT_TOKEN", config.BotToken)
	config.DatabaseURL = getEnv("DATABASE_URL", config.DatabaseURL)
	config.HTTPAddr = getEnv("HTTP_ADDR", config.HTTPAddr)
	config.JWTSecret = getEnv("JWT_SECRET", config.JWTSecret)
	config.JWTIssuer = getEnv("JWT_ISS", config.JWTIssuer)
	config.JWTAudience = getEnv("JWT_AUD", config.JWTAudience)

	if v := os.Getenv("TEAM_CHAT_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.TeamChatID = id
		}
	}
	if v := os.Getenv("REMINDER_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil {
			config.ReminderHour = h
		}
	}
	if v := os.Getenv("REMINDER_MINUTE"); v != "" {
		if m, err := strconv.Atoi(v); err == nil {
			config.ReminderMinute = m
		}
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SessionTTL = d
		}
	}
	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.JWTExpiry = d
		}
	}
	config.EnableMetrics = os.Getenv("ENABLE_METRICS") == "true"

	return config
}

// Validate rejects configurations the process cannot start with.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("reminder hour %d out of range 0-23", c.ReminderHour)
	}
	if c.ReminderMinute < 0 || c.ReminderMinute > 59 {
		return fmt.Errorf("reminder minute %d out of range 0-59", c.ReminderMinute)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if os.Getenv("ENVIRONMENT") == "production" && c.JWTSecret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be changed in production")
	}
	return nil
}

// LoadAndValidate loads the configuration and fails on unusable values.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
