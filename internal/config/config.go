package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string
	LogLevel    slog.Level

	RateLimitRedisAddr string
	RateLimitRedisPass string
	RateLimitRedisDB   int
	AuthRateLimit      int

	MeName          string
	MeStudentNumber string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "3000"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:   fallback(os.Getenv("JWT_SECRET"), strings.TrimSpace(os.Getenv("SECRET_KEY"))),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:    parseLevel(os.Getenv("LOG_LEVEL")),

		RateLimitRedisAddr: strings.TrimSpace(os.Getenv("RATE_LIMIT_REDIS_ADDR")),
		RateLimitRedisPass: os.Getenv("RATE_LIMIT_REDIS_PASSWORD"),
		RateLimitRedisDB:   positiveInt(os.Getenv("RATE_LIMIT_REDIS_DB"), 0),
		AuthRateLimit:      positiveInt(os.Getenv("AUTH_RATE_LIMIT_PER_MINUTE"), 20),

		MeName:          fallback(os.Getenv("ME_NAME"), "Oliver Pinel"),
		MeStudentNumber: fallback(os.Getenv("ME_STUDENT_NUMBER"), "n11028891"),
	}

	cfg.JWTTTL = time.Duration(positiveInt(os.Getenv("JWT_TTL_MINUTES"), 24*60)) * time.Minute

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

// positiveInt parses value, falling back to def when it is empty, invalid or negative.
func positiveInt(value string, def int) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed < 0 {
		return def
	}
	if parsed == 0 && def > 0 {
		return def
	}
	return parsed
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
