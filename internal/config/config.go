// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads and validates application configuration from
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"DOTMENT_DB_PATH" envDefault:"./data/dotment.db"`
	SessionSecret string `env:"DOTMENT_SESSION_SECRET,required"`
	ServerHost    string `env:"DOTMENT_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"DOTMENT_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"DOTMENT_ENV" envDefault:"development"`
	LogLevel      string `env:"DOTMENT_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"DOTMENT_UPLOADS_DIR" envDefault:"./uploads"`

	// BaseURL is the externally visible base URL used when building public
	// share links (e.g. https://comms.example.com).
	BaseURL string `env:"DOTMENT_BASE_URL" envDefault:"http://localhost:8080"`

	// Cache configuration
	RedisURL     string `env:"DOTMENT_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string `env:"DOTMENT_CACHE_PREFIX" envDefault:"dotment:"` // Redis key prefix
	CacheTTL     int    `env:"DOTMENT_CACHE_TTL" envDefault:"300"`         // Public view cache TTL in seconds
	CacheMaxSize int    `env:"DOTMENT_CACHE_MAX_SIZE" envDefault:"10000"`  // Max memory cache entries

	// GeoIP configuration
	GeoIPDBPath string `env:"DOTMENT_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// RequestTimeout is the per-request timeout for store-touching routes, in seconds.
	RequestTimeout int `env:"DOTMENT_REQUEST_TIMEOUT" envDefault:"15"`

	// Seeding configuration
	DoSeed bool `env:"DOTMENT_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
// AES-256 requires 32 bytes minimum for secure encryption.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("DOTMENT_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("DOTMENT_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("DOTMENT_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
