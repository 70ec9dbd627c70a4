package config

import (
	"eventdesk/internal/davclient"
	"eventdesk/internal/kv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the settings read from the environment (and .env).
type Config struct {
	LogLevel string
	Timezone *time.Location

	Storage kv.Options

	CalDAV CalDAVConfig
	Google GoogleConfig
}

// CalDAVConfig configures the publish target.
type CalDAVConfig struct {
	Endpoint     string
	Username     string
	Password     string
	CalendarName string
}

// GoogleConfig configures the Google Calendar import.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CalendarIDs  []string
	TokenDir     string
}

// Load reads .env if present, then the environment. Unset values fall back
// to defaults; only malformed values are errors.
func Load() (*Config, error) {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel: getenv("LOG_LEVEL", "info"),
		Storage: kv.Options{
			Backend:       getenv("EVENTDESK_BACKEND", kv.BackendFile),
			Path:          os.Getenv("EVENTDESK_PATH"),
			DatabaseURL:   os.Getenv("DATABASE_URL"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
		},
		CalDAV: CalDAVConfig{
			Endpoint:     getenv("CALDAV_ENDPOINT", davclient.DefaultEndpoint),
			Username:     os.Getenv("CALDAV_USERNAME"),
			Password:     os.Getenv("CALDAV_PASSWORD"),
			CalendarName: os.Getenv("CALDAV_CALENDAR_NAME"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			CalendarIDs:  splitList(os.Getenv("GOOGLE_CALENDAR_IDS")),
			TokenDir:     getenv("GOOGLE_TOKEN_DIR", "."),
		},
	}

	if raw := os.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB '%s': %w", raw, err)
		}
		cfg.Storage.RedisDB = db
	}

	tzStr := getenv("PRIMARY_TIMEZONE", "Local")
	loc, err := time.LoadLocation(tzStr)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", tzStr, err)
	}
	cfg.Timezone = loc

	return cfg, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
