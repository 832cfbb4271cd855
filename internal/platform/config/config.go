// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultQOTDPort is the IANA-assigned Quote of the Day port.
	DefaultQOTDPort = 17

	// DefaultOpsPort is the default port for the operational HTTP server.
	DefaultOpsPort = 8080

	// DefaultMaxQuoteLength matches the protocol's historical 512-byte
	// datagram constraint.
	DefaultMaxQuoteLength = 512

	// DefaultRateLimitBurst is the per-IP request budget per decay window.
	DefaultRateLimitBurst = 10

	// DefaultLogFileMaxSizeMB is the default max log file size in megabytes.
	DefaultLogFileMaxSizeMB = 100

	// DefaultLogFileMaxBackups is the default number of old log files to retain.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAgeDays is the default max days to retain old log files.
	DefaultLogFileMaxAgeDays = 28
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	QOTD      QOTDConfig      `koanf:"qotd"      validate:"required"`
	Quotes    QuotesConfig    `koanf:"quotes"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Ops       OpsConfig       `koanf:"ops"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// QOTDConfig contains settings for the quote-of-the-day listeners.
type QOTDConfig struct {
	Host            string        `koanf:"host"             validate:"required"`
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	UDPEnabled      bool          `koanf:"udp_enabled"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=100ms"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxQuoteLength  int           `koanf:"max_quote_length" validate:"required,min=1,max=512"`
}

// Addr returns the listen address in host:port form.
func (c *QOTDConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// QuotesConfig contains settings for the quote source and selection policy.
type QuotesConfig struct {
	// Path is the quote source file. Empty means the embedded default
	// collection.
	Path string `koanf:"path"`

	// Policy is the selection policy, rotation or random.
	Policy string `koanf:"policy" validate:"required,oneof=random rotation"`
}

// RateLimitConfig contains per-IP rate limiting settings.
type RateLimitConfig struct {
	Enabled       bool          `koanf:"enabled"`
	Burst         int           `koanf:"burst"          validate:"omitempty,min=1"`
	DecayInterval time.Duration `koanf:"decay_interval" validate:"omitempty,min=1s"`
}

// OpsConfig contains settings for the operational HTTP server.
type OpsConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host"             validate:"required_if=Enabled true"`
	Port            int           `koanf:"port"             validate:"required_if=Enabled true,omitempty,min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required_if=Enabled true,omitempty,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required_if=Enabled true,omitempty,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required_if=Enabled true,omitempty,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required_if=Enabled true,omitempty,min=1s"`
}

// Addr returns the ops listen address in host:port form.
func (c *OpsConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "qotdd",
		"app.version":     "dev",
		"app.environment": "local",

		"qotd.host":             "0.0.0.0",
		"qotd.port":             DefaultQOTDPort,
		"qotd.udp_enabled":      true,
		"qotd.write_timeout":    "10s",
		"qotd.shutdown_timeout": "5s",
		"qotd.max_quote_length": DefaultMaxQuoteLength,

		"quotes.path":   "",
		"quotes.policy": "random",

		"ratelimit.enabled":        true,
		"ratelimit.burst":          DefaultRateLimitBurst,
		"ratelimit.decay_interval": "60s",

		"ops.enabled":          true,
		"ops.host":             "0.0.0.0",
		"ops.port":             DefaultOpsPort,
		"ops.read_timeout":     "30s",
		"ops.write_timeout":    "30s",
		"ops.idle_timeout":     "120s",
		"ops.shutdown_timeout": "10s",

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/qotdd.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "qotdd",
		"telemetry.sampling_rate": 1.0,
	}
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. Environment variables (APP_ prefix)
//  2. Profile config file (configs/{profile}.yaml)
//  3. Base config file (configs/base.yaml)
//  4. Default values
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	err := k.Load(confmap.Provider(defaults(), "."), nil)
	if err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// 2. Load base config file if it exists
	err = loadFileIfExists(k, "configs/base.yaml")
	if err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	// 3. Load profile config file if it exists
	if profile != "" {
		profilePath := fmt.Sprintf("configs/%s.yaml", profile)

		err := loadFileIfExists(k, profilePath)
		if err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	// 4. Load environment variables with APP_ prefix
	err = k.Load(env.Provider("APP_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "APP_")),
			"_",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config

	err = k.Unmarshal("", &cfg)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil // File doesn't exist, that's fine
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
