// Package config loads server settings from the environment, with .env support.
package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is unset
var ErrMissingDatabaseURL = errors.New("DATABASE_URL environment variable is required")

type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string // empty disables the live position cache
	ZonesFile   string // empty seeds the built-in zones

	Firebase struct {
		CredentialsBase64 string
		CredentialsFile   string
	}

	AttendanceSweep time.Duration
	AllowedOrigins  []string
}

// Load reads .env if present, then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded successfully")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only
func FromEnv() (Config, error) {
	var cfg Config
	cfg.Port = envOrDefault("PORT", "8080")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.ZonesFile = os.Getenv("ZONES_FILE")
	cfg.Firebase.CredentialsBase64 = os.Getenv("FIREBASE_CREDENTIALS_BASE64")
	cfg.Firebase.CredentialsFile = os.Getenv("FIREBASE_CREDENTIALS_FILE")
	cfg.AttendanceSweep = time.Duration(envOrDefaultInt("ATTENDANCE_SWEEP_SECONDS", 60)) * time.Second
	cfg.AllowedOrigins = splitList(envOrDefault("CORS_ALLOWED_ORIGINS", "*"))

	if cfg.DatabaseURL == "" {
		return cfg, ErrMissingDatabaseURL
	}
	if cfg.AttendanceSweep <= 0 {
		cfg.AttendanceSweep = 60 * time.Second
	}
	return cfg, nil
}

// FirebaseEnabled reports whether any FCM credentials were supplied
func (c Config) FirebaseEnabled() bool {
	return c.Firebase.CredentialsBase64 != "" || c.Firebase.CredentialsFile != ""
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
