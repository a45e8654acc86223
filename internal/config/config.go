// Package config loads settings for the stockings commands from an optional
// config file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Server configures the quote HTTP server.
type Server struct {
	Port              string `mapstructure:"port"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

// Yahoo configures how the upstream quote service is reached. Empty URLs
// mean the library's built-in endpoints.
type Yahoo struct {
	YQLBaseURL     string `mapstructure:"yql_base_url"`
	CSVBaseURL     string `mapstructure:"csv_base_url"`
	ChartBaseURL   string `mapstructure:"chart_base_url"`
	SuggestBaseURL string `mapstructure:"suggest_base_url"`
	TimeoutSec     int    `mapstructure:"timeout_sec"`
	MinIntervalMS  int    `mapstructure:"min_interval_ms"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
}

// Logging selects log verbosity and encoding.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Build constructs a zap logger from the section. Format "console" is for
// humans at a terminal; anything else means JSON.
func (l Logging) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", l.Level, err)
	}
	cfg := zap.NewProductionConfig()
	if l.Format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

type Config struct {
	Server  Server  `mapstructure:"server"`
	Yahoo   Yahoo   `mapstructure:"yahoo"`
	Logging Logging `mapstructure:"logging"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout_sec", 10)
	v.SetDefault("yahoo.yql_base_url", "")
	v.SetDefault("yahoo.csv_base_url", "")
	v.SetDefault("yahoo.chart_base_url", "")
	v.SetDefault("yahoo.suggest_base_url", "")
	v.SetDefault("yahoo.timeout_sec", 10)
	v.SetDefault("yahoo.min_interval_ms", 0)
	v.SetDefault("yahoo.max_concurrency", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Default returns the built-in configuration, ignoring files and the
// environment.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("config: defaults do not unmarshal: %v", err))
	}
	return cfg
}

// Load reads configuration from path, falling back to a stockings.yaml in
// the working directory or $HOME/.config/stockings when path is empty. A
// missing file is fine; defaults then apply. Environment variables override
// both, prefixed STOCKINGS (STOCKINGS_SERVER_PORT and so on); bare PORT is
// honored too since deploy platforms set it.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("stockings")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/stockings")
	}

	v.SetEnvPrefix("STOCKINGS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "STOCKINGS_SERVER_PORT", "PORT"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
