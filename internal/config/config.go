// Package config reads the service configuration from environment variables.
//
// Every variable carries the prefix CONTACTS_. The first underscore after the prefix separates
// the section from the key, so CONTACTS_DATABASE_HOST sets database.host and
// CONTACTS_SERVER_READ_TIMEOUT sets server.read_timeout. A .env file in the working directory
// is loaded first if it exists.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the common prefix of all configuration variables.
const EnvPrefix = "CONTACTS_"

// Config is the root configuration object of the service.
type Config struct {
	Primary   Primary         `koanf:"primary"   validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Database  DatabaseConfig  `koanf:"database"  validate:"required"`
	Birthdays BirthdaysConfig `koanf:"birthdays" validate:"required"`
}

// Primary holds information about the runtime environment.
type Primary struct {
	Env      string `koanf:"env"       validate:"required,oneof=local development production"`
	LogLevel string `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
}

// ServerConfig groups settings of the HTTP server. Timeouts are in seconds.
type ServerConfig struct {
	Port            int  `koanf:"port"             validate:"min=1,max=65535"`
	ReadTimeout     int  `koanf:"read_timeout"     validate:"min=0"`
	WriteTimeout    int  `koanf:"write_timeout"    validate:"min=0"`
	IdleTimeout     int  `koanf:"idle_timeout"     validate:"min=0"`
	ShutdownTimeout int  `koanf:"shutdown_timeout" validate:"min=0"`
	RequestLogging  bool `koanf:"request_logging"`
}

// DatabaseConfig contains the connection parameters and pool tuning. ConnMaxLifetime is in
// seconds.
type DatabaseConfig struct {
	Driver          string `koanf:"driver"            validate:"required,oneof=mysql pgx"`
	Host            string `koanf:"host"              validate:"required"`
	Port            int    `koanf:"port"              validate:"min=1,max=65535"`
	User            string `koanf:"user"              validate:"required"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"              validate:"required"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"    validate:"min=0"`
	MaxIdleConns    int    `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
}

// BirthdaysConfig controls the upcoming birthdays lookahead.
type BirthdaysConfig struct {
	WindowDays int    `koanf:"window_days" validate:"min=0,max=366"`
	Timezone   string `koanf:"timezone"    validate:"required,timezone"`
}

// Defaults returns the configuration used for every value that is not set in the environment.
func Defaults() *Config {
	return &Config{
		Primary: Primary{
			Env:      "local",
			LogLevel: "info",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30,
			WriteTimeout:    30,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
			RequestLogging:  true,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			Host:            "localhost",
			Port:            3306,
			User:            "contacts",
			Name:            "contacts",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 300,
		},
		Birthdays: BirthdaysConfig{
			WindowDays: 7,
			Timezone:   "UTC",
		},
	}
}

// envKey maps CONTACTS_SERVER_READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Load reads the environment on top of the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
