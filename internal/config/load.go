package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load,
// e.g. TODO_SERVER_PORT overrides server.port.
const EnvPrefix = "TODO"

// Default values applied before the config file and environment are read.
var defaults = map[string]any{
	"server.host":             "0.0.0.0",
	"server.port":             3001,
	"server.log_level":        "info",
	"server.shutdown_timeout": 10 * time.Second,
	"cors.allowed_origins":    []string{"http://localhost:3000"},
	"database.url":            "",
	"docs.title":              "Todo API",
	"docs.version":            "v1",
	"docs.swagger_ui_url":     "https://cdn.jsdelivr.net/npm/swagger-ui-dist/",
}

// Load configuration from defaults, an optional config.yaml in the working
// directory, and environment variables, in increasing order of precedence.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
