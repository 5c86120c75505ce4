package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config keeps runtime settings.
type Config struct {
	DatabaseURL     string
	TelegramToken   string
	ProcessInterval time.Duration
	ReportTime      string // HH:MM, local to Timezone
	Timezone        *time.Location
}

// Load reads configuration from environment variables with sane defaults.
// The Telegram token is only required by the bot-facing commands, which
// check it themselves.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ProcessInterval: parseInterval(strings.TrimSpace(os.Getenv("PROCESS_INTERVAL_HOURS"))),
		ReportTime:      strings.TrimSpace(os.Getenv("REPORT_TIME")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "habit_planner.db"
	}
	if cfg.ProcessInterval == 0 {
		cfg.ProcessInterval = 6 * time.Hour
	}
	if cfg.ReportTime == "" {
		cfg.ReportTime = "08:00"
	}

	tz := strings.TrimSpace(os.Getenv("TIMEZONE"))
	if tz == "" {
		cfg.Timezone = time.Local
	} else {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
		}
		cfg.Timezone = loc
	}

	return cfg, nil
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
