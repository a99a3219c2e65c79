package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// insecureDevSecret keeps local development friction-free. Load refuses
// to fall back to it outside dev/test.
const insecureDevSecret = "your_secret_key"

type Config struct {
	Env   string
	Port  int
	DBURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	JWTTTLMinutes int

	AdminEmail    string
	AdminPassword string
	AdminName     string

	CORSAllowedOrigins []string
	OTLPEndpoint       string
}

func Load() (Config, error) {
	env := getEnv("APP_ENV", "dev")

	cfg := Config{
		Env:                env,
		Port:               getEnvInt("PORT", 8080),
		DBURL:              buildDBURL(),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTTTLMinutes:      getEnvInt("JWT_TTL_MINUTES", 60),
		AdminEmail:         getEnv("ADMIN_EMAIL", ""),
		AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
		AdminName:          getEnv("ADMIN_NAME", "Canteen Admin"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "")),
		OTLPEndpoint:       getEnv("OTLP_ENDPOINT", ""),
	}

	if cfg.JWTSecret == "" {
		if env == "prod" {
			return Config{}, errors.New("JWT_SECRET is required when APP_ENV=prod")
		}

		cfg.JWTSecret = insecureDevSecret
	}

	return cfg, nil
}

func buildDBURL() string {
	if url := getEnv("DATABASE_URL", ""); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "canteenhub")
	pass := getEnv("DB_PASSWORD", "canteenhub")
	name := getEnv("DB_NAME", "canteenhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
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
