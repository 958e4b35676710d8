// Package config loads runtime settings from the environment, after applying
// an optional .env file.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Addr           string
	DBPath         string
	Env            string
	CSRFKey        []byte // 32 bytes
	SessionKey     []byte // signs the flash cookie
	UploadDir      string // menu photos
	AssetDir       string // images page
	StaticDir      string
	ResendKey      string
	MailFrom       string
	ReplyTo        string
	Currency       string // prefix for prices in emails and pages
	AdminEmail     string
	AdminPassword  string
	OutboxInterval time.Duration
	SlowRequest    time.Duration
	SlowQuery      time.Duration
	LogLevel       slog.Level
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env files (missing files are ignored) and then the environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment.
func FromEnv() (Config, error) {
	cfg := Config{
		Addr:           envOr("BACKOFFICE_ADDR", ":8080"),
		DBPath:         envOr("BACKOFFICE_DB_PATH", "backoffice.db"),
		Env:            envOr("BACKOFFICE_ENV", "development"),
		UploadDir:      envOr("BACKOFFICE_UPLOAD_DIR", "uploads/menu"),
		AssetDir:       envOr("BACKOFFICE_ASSET_DIR", "static/images"),
		StaticDir:      envOr("BACKOFFICE_STATIC_DIR", "static"),
		ResendKey:      envOr("BACKOFFICE_RESEND_KEY", ""),
		MailFrom:       envOr("BACKOFFICE_MAIL_FROM", "Kitchen Admin <orders@example.com>"),
		ReplyTo:        envOr("BACKOFFICE_REPLY_TO", ""),
		Currency:       envOr("BACKOFFICE_CURRENCY", "₦"),
		AdminEmail:     envOr("BACKOFFICE_ADMIN_EMAIL", "admin@example.com"),
		AdminPassword:  envOr("BACKOFFICE_ADMIN_PASSWORD", ""),
		OutboxInterval: envOrDuration("BACKOFFICE_OUTBOX_INTERVAL", 30*time.Second),
		SlowRequest:    time.Duration(envOrInt("BACKOFFICE_SLOW_REQUEST_MS", 500)) * time.Millisecond,
		SlowQuery:      time.Duration(envOrInt("BACKOFFICE_SLOW_QUERY_MS", 50)) * time.Millisecond,
		LogLevel:       parseLevel(envOr("LOG_LEVEL", "info")),
	}

	var err error
	if cfg.CSRFKey, err = keyOrRandom("BACKOFFICE_CSRF_KEY", cfg.IsProduction()); err != nil {
		return Config{}, err
	}
	if cfg.SessionKey, err = keyOrRandom("BACKOFFICE_SESSION_KEY", cfg.IsProduction()); err != nil {
		return Config{}, err
	}
	if cfg.AdminPassword == "" {
		if cfg.IsProduction() {
			return Config{}, fmt.Errorf("BACKOFFICE_ADMIN_PASSWORD is required in production")
		}
		cfg.AdminPassword = "change-me-now"
	}
	return cfg, nil
}

// keyOrRandom decodes a hex-encoded 32-byte key. Outside production a missing
// key is replaced by a random one, which invalidates cookies on restart.
func keyOrRandom(name string, required bool) ([]byte, error) {
	raw := envOr(name, "")
	if raw == "" {
		if required {
			return nil, fmt.Errorf("%s is required in production", name)
		}
		slog.Warn("config_event", "event", "random_key", "key", name)
		return randomKey()
	}
	key, err := hex.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: not valid hex: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("%s: want 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
