// Package config loads process configuration from the environment and
// command type definitions from YAML.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds process configuration.
type Config struct {
	LogLevel  string
	LogFormat string // "text" or "json"

	OTelEnabled  bool
	OTelEndpoint string
	OTelInsecure bool

	RedisAddr          string // empty disables the relay
	RedisChannelPrefix string

	JournalDSN    string // empty disables the journal
	JournalDriver string

	ThrottleRPS float64 // zero disables throttling
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:           getenv("LOG_LEVEL", "INFO"),
		LogFormat:          strings.ToLower(getenv("LOG_FORMAT", "text")),
		OTelEndpoint:       getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisChannelPrefix: getenv("REDIS_CHANNEL_PREFIX", "interaction"),
		JournalDSN:         os.Getenv("JOURNAL_DSN"),
		JournalDriver:      getenv("JOURNAL_DRIVER", "sqlite"),
		OTelEnabled:        os.Getenv("OTEL_ENABLED") == "true",
		OTelInsecure:       os.Getenv("OTEL_INSECURE") == "true",
	}

	if rps := os.Getenv("THROTTLE_RPS"); rps != "" {
		v, err := strconv.ParseFloat(rps, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("config: THROTTLE_RPS must be a non-negative number, got %q", rps)
		}
		cfg.ThrottleRPS = v
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("config: LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return level, nil
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
