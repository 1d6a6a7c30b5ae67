// Package config loads the server configuration from the environment.
// A .env file is read first when present, then envconfig maps variables onto Config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Chat admission policies.
const (
	AdmissionMutual = "mutual"
	AdmissionAny    = "any"
)

// Config holds every runtime setting of the backend.
type Config struct {
	// --- HTTP ---
	HTTPAddr           string        `envconfig:"HTTP_ADDR" default:":8080"`
	CORSAllowedOrigins string        `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ReadTimeout        time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout       time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`

	// --- Storage ---
	DatabaseDSN   string `envconfig:"DATABASE_DSN" default:"host=localhost user=user password=password dbname=aurachat port=5432 sslmode=disable"`
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Auth ---
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"72h"`

	// --- Product rules ---
	RequireVerificationForConnection bool          `envconfig:"REQUIRE_VERIFICATION_FOR_CONNECTION" default:"false"`
	ChatAdmissionPolicy              string        `envconfig:"CHAT_ADMISSION_POLICY" default:"mutual"`
	BanCacheTTL                      time.Duration `envconfig:"BAN_CACHE_TTL" default:"10m"`

	// --- Jobs ---
	AuraRecalcSchedule string `envconfig:"AURA_RECALC_SCHEDULE" default:"0 3 * * *"`

	// --- Notifications ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`

	// --- Logging ---
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads .env (if any) and the process environment into a validated Config.
func Load() (*Config, error) {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express with tags.
func (c *Config) Validate() error {
	switch c.ChatAdmissionPolicy {
	case AdmissionMutual, AdmissionAny:
	default:
		return fmt.Errorf("CHAT_ADMISSION_POLICY must be %q or %q, got %q", AdmissionMutual, AdmissionAny, c.ChatAdmissionPolicy)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if len(c.AllowedOrigins()) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS must list at least one origin")
	}
	return nil
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
