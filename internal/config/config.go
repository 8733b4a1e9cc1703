// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config loads coursegate configuration from defaults, a YAML file,
// COURSEGATE_ environment variables and command-line flags, in increasing
// order of precedence.
package config

import (
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/internal/logging"
	"github.com/holomush/coursegate/internal/store"
)

// Secret is a configuration value that must not be printed.
type Secret string

// Redacted is shown in place of a set secret.
const Redacted = "[REDACTED]"

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return Redacted
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(s.String())
}

// MarshalYAML implements yaml.Marshaler.
func (s Secret) MarshalYAML() (any, error) {
	return s.String(), nil
}

// Bytes returns the raw secret.
func (s Secret) Bytes() []byte {
	return []byte(s)
}

// Config is the full service configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http" yaml:"http"`
	Metrics  MetricsConfig  `koanf:"metrics" yaml:"metrics"`
	Database DatabaseConfig `koanf:"database" yaml:"database"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
	Auth     AuthConfig     `koanf:"auth" yaml:"auth"`
	Hasher   HasherConfig   `koanf:"hasher" yaml:"hasher"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr         string        `koanf:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
}

// MetricsConfig configures the metrics and health probe listener.
// An empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// DatabaseConfig configures PostgreSQL access.
type DatabaseConfig struct {
	URL             Secret        `koanf:"url" yaml:"url"`
	AutoMigrate     bool          `koanf:"auto_migrate" yaml:"auto_migrate"`
	ConnectAttempts uint64        `koanf:"connect_attempts" yaml:"connect_attempts"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff" yaml:"connect_backoff"`
}

// LogConfig configures logging.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format"`
	Level  string `koanf:"level" yaml:"level"`
}

// AuthConfig configures token signing.
type AuthConfig struct {
	AdminSecret Secret        `koanf:"admin_secret" yaml:"admin_secret"`
	UserSecret  Secret        `koanf:"user_secret" yaml:"user_secret"`
	AdminTTL    time.Duration `koanf:"admin_ttl" yaml:"admin_ttl"`
	UserTTL     time.Duration `koanf:"user_ttl" yaml:"user_ttl"`
	Issuer      string        `koanf:"issuer" yaml:"issuer"`
}

// HasherConfig tunes Argon2id.
type HasherConfig struct {
	Time          uint32 `koanf:"time" yaml:"time"`
	MemoryKiB     uint32 `koanf:"memory_kib" yaml:"memory_kib"`
	Threads       uint8  `koanf:"threads" yaml:"threads"`
	MaxConcurrent int64  `koanf:"max_concurrent" yaml:"max_concurrent"`
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return oops.Code("CONFIG_INVALID").With("key", "http.addr").Errorf("http.addr is required")
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		return oops.Code("CONFIG_INVALID").With("key", "http").Errorf("http timeouts must not be negative")
	}
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").With("key", "database.url").Errorf("database.url is required")
	}
	if c.Database.ConnectAttempts == 0 {
		return oops.Code("CONFIG_INVALID").With("key", "database.connect_attempts").
			Errorf("database.connect_attempts must be at least 1")
	}
	if !logging.ValidFormat(c.Log.Format) {
		return oops.Code("CONFIG_INVALID").With("key", "log.format").
			Errorf("log.format must be %q or %q, got %q", logging.FormatJSON, logging.FormatText, c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "log.level").Errorf("log.level %q is not a level", c.Log.Level)
	}
	if err := c.Secrets().Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "auth").Wrap(err)
	}
	if c.Auth.AdminTTL <= 0 || c.Auth.UserTTL <= 0 {
		return oops.Code("CONFIG_INVALID").With("key", "auth").Errorf("auth.admin_ttl and auth.user_ttl must be positive")
	}
	if err := c.HasherParams().Validate(); err != nil {
		return oops.Code("CONFIG_INVALID").With("key", "hasher").Wrap(err)
	}
	return nil
}

// Secrets returns the per-role signing secrets.
func (c *Config) Secrets() auth.Secrets {
	return auth.Secrets{Admin: c.Auth.AdminSecret.Bytes(), User: c.Auth.UserSecret.Bytes()}
}

// TokenConfig builds the token service configuration.
func (c *Config) TokenConfig() auth.TokenConfig {
	return auth.TokenConfig{
		Secrets:  c.Secrets(),
		AdminTTL: c.Auth.AdminTTL,
		UserTTL:  c.Auth.UserTTL,
		Issuer:   c.Auth.Issuer,
	}
}

// HasherParams builds Argon2id parameters, keeping the default salt and key
// lengths.
func (c *Config) HasherParams() auth.Argon2Params {
	p := auth.DefaultArgon2Params()
	p.Time = c.Hasher.Time
	p.MemoryKiB = c.Hasher.MemoryKiB
	p.Threads = c.Hasher.Threads
	p.MaxConcurrent = c.Hasher.MaxConcurrent
	return p
}

// ConnectOptions returns the database connection retry policy.
func (c *Config) ConnectOptions() store.ConnectOptions {
	return store.ConnectOptions{Attempts: c.Database.ConnectAttempts, Backoff: c.Database.ConnectBackoff}
}

// LogValue implements slog.LogValuer. Secrets are redacted.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("http.addr", c.HTTP.Addr),
		slog.Duration("http.read_timeout", c.HTTP.ReadTimeout),
		slog.Duration("http.write_timeout", c.HTTP.WriteTimeout),
		slog.String("metrics.addr", c.Metrics.Addr),
		slog.Any("database.url", c.Database.URL),
		slog.Bool("database.auto_migrate", c.Database.AutoMigrate),
		slog.String("log.format", c.Log.Format),
		slog.String("log.level", c.Log.Level),
		slog.Any("auth.admin_secret", c.Auth.AdminSecret),
		slog.Any("auth.user_secret", c.Auth.UserSecret),
		slog.Duration("auth.admin_ttl", c.Auth.AdminTTL),
		slog.Duration("auth.user_ttl", c.Auth.UserTTL),
		slog.String("auth.issuer", c.Auth.Issuer),
		slog.Any("hasher.time", c.Hasher.Time),
		slog.Any("hasher.memory_kib", c.Hasher.MemoryKiB),
		slog.Any("hasher.threads", c.Hasher.Threads),
		slog.Int64("hasher.max_concurrent", c.Hasher.MaxConcurrent),
	)
}
