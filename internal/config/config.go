// Package config loads creatived configuration from YAML and environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/secrets"
	"github.com/fyrsmithlabs/creatived/internal/telemetry"
)

// Config is the complete creatived configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Classifier ClassifierConfig `koanf:"classifier"`
	Scrubber   secrets.Config   `koanf:"scrubber"`
	Events     EventsConfig     `koanf:"events"`
	Telemetry  telemetry.Config `koanf:"telemetry"`
	Logging    logging.Config   `koanf:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	BodyLimit       string        `koanf:"body_limit"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig selects and tunes the SQL backend.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	DSN             Secret        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

// Classifier providers.
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

// ClassifierConfig configures the language-model endpoint.
type ClassifierConfig struct {
	Provider   string        `koanf:"provider"`
	Endpoint   string        `koanf:"endpoint"`
	APIKey     Secret        `koanf:"api_key"`
	Deployment string        `koanf:"deployment"`
	APIVersion string        `koanf:"api_version"`
	Timeout    time.Duration `koanf:"timeout"`
	RateLimit  float64       `koanf:"rate_limit"` // requests per second
	Burst      int           `koanf:"burst"`
}

// Configured reports whether enough is set to build a client. Without a
// key the analyzer runs on defaults only.
func (c ClassifierConfig) Configured() bool {
	if !c.APIKey.IsSet() || c.Deployment == "" {
		return false
	}
	return c.Provider != ProviderAzure || c.Endpoint != ""
}

// EventsConfig configures the NATS publisher. An empty URL disables it.
type EventsConfig struct {
	NATSURL        string        `koanf:"nats_url"`
	Subject        string        `koanf:"subject"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// Enabled reports whether events are published.
func (e EventsConfig) Enabled() bool {
	return e.NATSURL != ""
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            9090,
			ShutdownTimeout: 10 * time.Second,
			BodyLimit:       "8M",
		},
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Classifier: ClassifierConfig{
			Provider:   ProviderAzure,
			Deployment: "gpt-4",
			APIVersion: "2024-02-01",
			Timeout:    60 * time.Second,
			RateLimit:  1,
			Burst:      5,
		},
		Scrubber: *secrets.DefaultConfig(),
		Events: EventsConfig{
			Subject:        "creatived.analysis.completed",
			ConnectTimeout: 5 * time.Second,
		},
		Telemetry: *telemetry.NewDefaultConfig(),
		Logging:   *logging.NewDefaultConfig(),
	}
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("server.shutdown_timeout must be positive"))
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver))
	}
	if c.Database.Driver == DriverPostgres && !c.Database.DSN.IsSet() {
		errs = append(errs, errors.New("database.dsn is required for postgres"))
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 {
		errs = append(errs, errors.New("database connection limits must not be negative"))
	}

	switch c.Classifier.Provider {
	case ProviderAzure, ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("classifier.provider must be %q or %q, got %q", ProviderAzure, ProviderOpenAI, c.Classifier.Provider))
	}
	if c.Classifier.Provider == ProviderAzure && c.Classifier.APIKey.IsSet() && c.Classifier.Endpoint == "" {
		errs = append(errs, errors.New("classifier.endpoint is required for azure"))
	}
	if c.Classifier.Timeout <= 0 {
		errs = append(errs, errors.New("classifier.timeout must be positive"))
	}
	if c.Classifier.RateLimit <= 0 || c.Classifier.Burst <= 0 {
		errs = append(errs, errors.New("classifier.rate_limit and classifier.burst must be positive"))
	}

	if c.Events.Enabled() && c.Events.Subject == "" {
		errs = append(errs, errors.New("events.subject is required when events.nats_url is set"))
	}

	if err := c.Scrubber.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("scrubber: %w", err))
	}
	if err := c.Telemetry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("telemetry: %w", err))
	}
	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	return errors.Join(errs...)
}
