// Package config provides Viper-based configuration for hypo-search.
//
// Values come from, in increasing priority: built-in defaults, an optional
// .hypo-search.yaml, a .env file, HYPO_SEARCH_* environment variables, and
// command-line flags bound by the CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pfrederiksen/hypo-search/internal/fetch"
	"github.com/pfrederiksen/hypo-search/internal/logger"
	"github.com/pfrederiksen/hypo-search/internal/query"
)

// EnvPrefix prefixes every environment variable, e.g. HYPO_SEARCH_BASE_URL
const EnvPrefix = "HYPO_SEARCH"

// Config represents the complete hypo-search configuration
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	CacheSize int           `mapstructure:"cache_size"`
	DataDir   string        `mapstructure:"data_dir"`
	Log       LogConfig     `mapstructure:"log"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// SetDefaults registers the default value of every key on v
func SetDefaults(v *viper.Viper) {
	lc := logger.DefaultConfig()

	v.SetDefault("base_url", query.DefaultBaseURL)
	v.SetDefault("timeout", fetch.DefaultTimeout)
	v.SetDefault("user_agent", fetch.UserAgent)
	v.SetDefault("cache_size", fetch.DefaultCacheSize)
	v.SetDefault("data_dir", "~/.local/share/hypo-search")
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.file", lc.FilePath)
	v.SetDefault("log.max_size_mb", lc.MaxSizeMB)
	v.SetDefault("log.max_backups", lc.MaxBackups)
	v.SetDefault("log.max_age_days", lc.MaxAgeDays)
	v.SetDefault("log.compress", lc.Compress)
}

// New returns a viper instance with defaults, env binding and config file
// search paths set. cfgFile overrides the search paths when non-empty.
func New(cfgFile string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".hypo-search")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/hypo-search")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are named. A missing default file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Debug("no .env file loaded", logger.Fields{"reason": err.Error()})
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("loading env files: %w", err)
	}
	return nil
}

// Load reads the config file, if any, and decodes v into a Config
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url must not be empty")
	}
	return &cfg, nil
}

// FetchOptions converts the config into fetch client options
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:   c.Timeout,
		UserAgent: c.UserAgent,
		CacheSize: c.CacheSize,
	}
}

// LoggerConfig converts the config into logger settings
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		FilePath:   c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
		Compress:   c.Log.Compress,
	}
}
