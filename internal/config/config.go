package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the CRM service.
type Config struct {
	Port        string
	Environment string // development|production
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	// Auth settings
	JWTSecret         string
	CookieDomain      string
	TokenLifetime     int // hours
	BcryptCost        int
	AdminSeedEmail    string
	AdminSeedPassword string

	// Event bus: in-process by default, Kafka when brokers are set
	KafkaBrokers []string

	// Telegram notification settings (optional)
	Telegram TelegramConfig
}

type TelegramConfig struct {
	BotToken string
	ChatID   int64
}

// LoadConfig reads configuration from environment variables, loading a .env
// file first if one is present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		LogLevel:          parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		CookieDomain:      getEnv("COOKIE_DOMAIN", ""),
		TokenLifetime:     24,
		BcryptCost:        12,
		AdminSeedEmail:    os.Getenv("ADMIN_SEED_EMAIL"),
		AdminSeedPassword: os.Getenv("ADMIN_SEED_PASSWORD"),
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
			ChatID:   parseInt64(os.Getenv("TELEGRAM_CHAT_ID")),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
