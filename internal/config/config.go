package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config keeps runtime settings for the calendar bot.
type Config struct {
	TelegramToken  string
	OwnerID        int64
	DatabaseURL    string
	TodayRefreshAt string
	LogDevelopment bool
}

// Load reads configuration from environment variables, after loading a .env
// file from the working directory when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken:  strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:    getEnv("DATABASE_URL", defaultDatabasePath()),
		TodayRefreshAt: getEnv("TODAY_REFRESH_AT", "00:00"),
		LogDevelopment: getEnvAsBool("LOG_DEVELOPMENT", false),
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	owner := strings.TrimSpace(os.Getenv("TELEGRAM_OWNER_ID"))
	if owner == "" {
		return cfg, fmt.Errorf("TELEGRAM_OWNER_ID is required")
	}
	id, err := strconv.ParseInt(owner, 10, 64)
	if err != nil || id <= 0 {
		return cfg, fmt.Errorf("TELEGRAM_OWNER_ID must be a positive integer, got %q", owner)
	}
	cfg.OwnerID = id

	return cfg, nil
}

// defaultDatabasePath falls back to tasks.db in the working directory when
// the user config directory is unknown.
func defaultDatabasePath() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "tasks.db"
	}
	return filepath.Join(base, "taskcalendar", "tasks.db")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}
