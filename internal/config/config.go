package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL   string
	Timezone      string // IANA name; empty means the host's local zone
	BatchTime     string // HH:MM local time for the daily batch
	RetentionDays int    // notification retention window
	TelegramToken string // empty disables push delivery
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Timezone:      strings.TrimSpace(os.Getenv("TIMEZONE")),
		BatchTime:     strings.TrimSpace(os.Getenv("BATCH_TIME")),
		RetentionDays: parseDays(strings.TrimSpace(os.Getenv("NOTIFICATION_RETENTION_DAYS"))),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskplanner.db"
	}
	if cfg.BatchTime == "" {
		cfg.BatchTime = "03:00"
	}
	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 30
	}

	if parts := strings.Split(cfg.BatchTime, ":"); len(parts) != 2 {
		return cfg, fmt.Errorf("BATCH_TIME %q must be HH:MM", cfg.BatchTime)
	}

	return cfg, nil
}

func parseDays(raw string) int {
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 0 {
		return 0
	}
	return days
}
