package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	CORS     CORSConfig     `mapstructure:"cors"     validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Docs     DocsConfig     `mapstructure:"docs"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host"             validate:"omitempty,hostname|ip"`
	Port            int           `mapstructure:"port"             validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level"        validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"required,min=1,dive,required"`
}

// DatabaseConfig selects the task store backend.
// An empty URL keeps tasks in process memory.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// DocsConfig controls the generated OpenAPI document and the Swagger UI page.
type DocsConfig struct {
	Title        string `mapstructure:"title"          validate:"required"`
	Version      string `mapstructure:"version"        validate:"required"`
	SwaggerUIURL string `mapstructure:"swagger_ui_url" validate:"required,url"`
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// UsesDatabase reports whether a PostgreSQL task store is configured.
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}
