package config

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment   string
	Addr          string
	DatabaseURL   string
	MigrationsDir string

	BcryptCost int

	SessionTTL        time.Duration
	SessionCookieName string
	SessionRedisAddr  string
	SessionRedisPass  string
	SessionRedisDB    int

	RecaptchaSecret string
	RecaptchaURL    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleIssuer       string

	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:        GetString("APP_ENV", "development"),
		Addr:               GetString("API_ADDR", ":3001"),
		DatabaseURL:        GetString("DATABASE_URL", "postgres://todo:todo@db:5432/todo?sslmode=disable"),
		MigrationsDir:      GetString("DB_MIGRATIONS_DIR", "./db/migrations"),
		BcryptCost:         GetInt("SALT_ROUNDS", bcrypt.DefaultCost),
		SessionTTL:         time.Duration(GetInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		SessionCookieName:  GetString("SESSION_COOKIE_NAME", "todo_session"),
		SessionRedisAddr:   GetString("SESSION_REDIS_ADDR", "redis:6379"),
		SessionRedisPass:   GetString("SESSION_REDIS_PASSWORD", ""),
		SessionRedisDB:     GetInt("SESSION_REDIS_DB", 0),
		RecaptchaSecret:    GetString("RECAPTCHA_SECRET_KEY", ""),
		RecaptchaURL:       GetString("RECAPTCHA_VERIFY_URL", ""),
		GoogleClientID:     GetString("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: GetString("GOOGLE_CLIENT_SECRET", ""),
		GoogleIssuer:       GetString("GOOGLE_ISSUER", "https://accounts.google.com"),
		RateLimitRedisAddr: GetString("RATE_LIMIT_REDIS_ADDR", ""),
		RateLimitRedisPass: GetString("RATE_LIMIT_REDIS_PASSWORD", ""),
		RateLimitRedisDB:   GetInt("RATE_LIMIT_REDIS_DB", 1),
	}
}
