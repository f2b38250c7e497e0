package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	// Embedded database file, created on first start.
	DBPath string

	JWTSecret        string
	JWTAccessTTLSecs int

	AdminEmail    string
	AdminPassword string

	AllowedOrigins []string

	// Tracing is off unless an OTLP endpoint is configured.
	OTLPEndpoint string
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first, without overriding real env vars.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		Port:             getEnvInt("PORT", 8080),
		DBPath:           getEnv("DB_PATH", filepath.Join("data", "portfolio.db")),
		JWTSecret:        os.Getenv("JWT_SECRET"),
		JWTAccessTTLSecs: getEnvInt("JWT_ACCESS_TTL_SECONDS", 3600),
		AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		AdminPassword:    os.Getenv("ADMIN_PASSWORD"),
		AllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	// the server must refuse to start without a signing secret
	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if cfg.JWTAccessTTLSecs <= 0 {
		cfg.JWTAccessTTLSecs = 3600
	}

	return cfg, nil
}

func (c Config) AccessTTL() time.Duration {
	return time.Duration(c.JWTAccessTTLSecs) * time.Second
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}
