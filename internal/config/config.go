package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// Config holds runtime configuration for cs.
// Values come from .cleansteps.toml, CLEANSTEPS_* env vars (a .env file in
// the working directory is loaded first) and CLI flags.
type Config struct {
	DBPath    string `mapstructure:"db_path" toml:"db_path"`
	Env       string `mapstructure:"env" toml:"env"`
	LogLevel  string `mapstructure:"log_level" toml:"log_level"`
	LogFormat string `mapstructure:"log_format" toml:"log_format"`
	SentryDSN string `mapstructure:"sentry_dsn" toml:"sentry_dsn"`
	MoneyUnit string `mapstructure:"money_unit" toml:"money_unit"`
	Locale    string `mapstructure:"locale" toml:"locale"`
}

// Setup points viper at the config file and environment. cfgFile overrides
// the default search for .cleansteps.toml in the working and home
// directories. A missing config file is not an error.
func Setup(cfgFile string) error {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".cleansteps")
		viper.SetConfigType("toml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("CLEANSTEPS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() (Config, error) {
	viper.SetDefault("db_path", "")
	viper.SetDefault("env", "production")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("log_format", "")
	viper.SetDefault("sentry_dsn", "")
	viper.SetDefault("money_unit", "$")
	viper.SetDefault("locale", "en-US")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Env = strings.ToLower(strings.TrimSpace(cfg.Env))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log_level must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log_format must be text or json (got %q)", c.LogFormat)
	}
	return nil
}

func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "development"
}

// Render encodes the effective configuration as TOML. The Sentry DSN is
// masked.
func (c Config) Render() ([]byte, error) {
	if c.SentryDSN != "" {
		c.SentryDSN = "********"
	}
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
