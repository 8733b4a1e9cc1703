// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package config

import (
	"errors"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/holomush/coursegate/internal/auth"
	"github.com/holomush/coursegate/internal/logging"
	"github.com/holomush/coursegate/internal/store"
)

// DefaultEnvPrefix is the prefix of configuration environment variables.
// COURSEGATE_AUTH__ADMIN_SECRET sets auth.admin_secret.
const DefaultEnvPrefix = "COURSEGATE_"

// Defaults returns the built-in configuration values keyed by koanf path.
func Defaults() map[string]any {
	hasher := auth.DefaultArgon2Params()
	conn := store.DefaultConnectOptions()
	return map[string]any{
		"http.addr":                 ":8080",
		"http.read_timeout":         "15s",
		"http.write_timeout":        "30s",
		"metrics.addr":              "127.0.0.1:9100",
		"database.url":              "",
		"database.auto_migrate":     true,
		"database.connect_attempts": conn.Attempts,
		"database.connect_backoff":  conn.Backoff.String(),
		"log.format":                logging.FormatJSON,
		"log.level":                 "info",
		"auth.admin_ttl":            auth.DefaultAdminTokenTTL.String(),
		"auth.user_ttl":             auth.DefaultUserTokenTTL.String(),
		"auth.issuer":               "coursegate",
		"hasher.time":               hasher.Time,
		"hasher.memory_kib":         hasher.MemoryKiB,
		"hasher.threads":            hasher.Threads,
		"hasher.max_concurrent":     hasher.MaxConcurrent,
	}
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"http-addr":     "http.addr",
	"metrics-addr":  "metrics.addr",
	"database-url":  "database.url",
	"auto-migrate":  "database.auto_migrate",
	"log-format":    "log.format",
	"log-level":     "log.level",
	"admin-ttl":     "auth.admin_ttl",
	"user-ttl":      "auth.user_ttl",
	"token-issuer":  "auth.issuer",
	"hash-parallel": "hasher.max_concurrent",
}

// RegisterFlags adds the configuration flags to fs. Their defaults are
// display-only; unset flags never override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("http-addr", ":8080", "API listen address")
	fs.String("metrics-addr", "127.0.0.1:9100", "metrics and health listen address (empty to disable)")
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.Bool("auto-migrate", true, "apply pending migrations at startup")
	fs.String("log-format", logging.FormatJSON, "log format (json or text)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Duration("admin-ttl", auth.DefaultAdminTokenTTL, "admin token lifetime")
	fs.Duration("user-ttl", auth.DefaultUserTokenTTL, "user token lifetime")
	fs.String("token-issuer", "coursegate", "token issuer claim")
	fs.Int64("hash-parallel", 0, "maximum concurrent password hashes")
}

// Loader assembles a Config from its sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	flags     *pflag.FlagSet
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfigFile sets the YAML file to read. An empty path skips the file.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvPrefix overrides DefaultEnvPrefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithFlags reads flags registered by RegisterFlags from fs.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(l *Loader) {
		l.flags = fs
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads every source and returns the resulting configuration. It does
// not validate; call Config.Validate.
func (l *Loader) Load() (*Config, error) {
	if err := l.k.Load(mapProvider(Defaults()), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "defaults").Wrap(err)
	}

	if l.filePath != "" {
		if err := l.k.Load(file.Provider(l.filePath), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "file").With("path", l.filePath).Wrap(err)
		}
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", l.envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	if l.flags != nil {
		if err := l.k.Load(posflag.ProviderWithFlag(l.flags, ".", l.k, l.flagKey), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "unmarshal").Wrap(err)
	}
	return &cfg, nil
}

// envKey turns COURSEGATE_AUTH__ADMIN_SECRET into auth.admin_secret.
func (l *Loader) envKey(s string) string {
	s = strings.TrimPrefix(s, l.envPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// flagKey maps an explicitly set flag to its key. Unset and unknown flags
// are skipped.
func (l *Loader) flagKey(f *pflag.Flag) (string, any) {
	key, ok := flagKeys[f.Name]
	if !ok || !f.Changed {
		return "", nil
	}
	return key, posflag.FlagVal(l.flags, f)
}

// ErrReadBytesNotSupported is returned by the defaults provider's ReadBytes.
var ErrReadBytesNotSupported = errors.New("config: map provider does not support ReadBytes")

// mapProvider loads configuration from a flat map of koanf keys.
type mapProvider map[string]any

// ReadBytes is not supported; koanf uses Read.
func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

// Read returns the map unflattened into nested sections.
func (m mapProvider) Read() (map[string]any, error) {
	return maps.Unflatten(m, "."), nil
}
