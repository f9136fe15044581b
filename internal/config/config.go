// Package config loads katalog's settings from flags, KATALOG_* environment
// variables and an optional env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/erazemk/katalog/internal/validate"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "KATALOG"

// Keys.
const (
	KeyAPIURL          = "API_URL"
	KeyAddr            = "ADDR"
	KeyDB              = "DB"
	KeyLog             = "LOG"
	KeyLogLevel        = "LOG_LEVEL"
	KeyCookieSecure    = "COOKIE_SECURE"
	KeySessionTTL      = "SESSION_TTL"
	KeyRequestTimeout  = "REQUEST_TIMEOUT"
	KeyBootstrapSecret = "BOOTSTRAP_SECRET"
	KeyMockAddr        = "MOCK_ADDR"
	KeyMockDB          = "MOCK_DB"
)

// Config is the resolved configuration.
type Config struct {
	APIURL         string        `mapstructure:"API_URL" validate:"required,http_url"`
	Addr           string        `mapstructure:"ADDR" validate:"required"`
	DB             string        `mapstructure:"DB" validate:"required"`
	Log            string        `mapstructure:"LOG"`
	LogLevel       string        `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	CookieSecure   bool          `mapstructure:"COOKIE_SECURE"`
	SessionTTL     time.Duration `mapstructure:"SESSION_TTL" validate:"gte=1s"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gte=0"`

	// Mock backend only.
	BootstrapSecret string `mapstructure:"BOOTSTRAP_SECRET"`
	MockAddr        string `mapstructure:"MOCK_ADDR" validate:"required"`
	MockDB          string `mapstructure:"MOCK_DB" validate:"required"`
}

// SetDefaults registers the default of every key and enables environment
// lookup. It must run before flags are bound.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, "http://localhost:3000")
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyDB, "katalog.sqlite3")
	v.SetDefault(KeyLog, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCookieSecure, false)
	v.SetDefault(KeySessionTTL, 24*time.Hour)
	v.SetDefault(KeyRequestTimeout, time.Duration(0))
	v.SetDefault(KeyBootstrapSecret, "")
	v.SetDefault(KeyMockAddr, ":3000")
	v.SetDefault(KeyMockDB, ":memory:")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load reads the env file and returns the validated configuration. An
// explicit path must exist; otherwise katalog.env and .env in the working
// directory are tried and may be missing.
func Load(v *viper.Viper, path string) (*Config, error) {
	if err := readFile(v, path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")

	if err := validate.Error(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, path string) error {
	v.SetConfigType("env")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}

	for _, name := range []string{"katalog", ""} {
		v.SetConfigName(name + ".env")
		v.AddConfigPath(".")
		err := v.ReadInConfig()
		if err == nil {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
