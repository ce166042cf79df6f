package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/ananyateklu/second-brain-sub004/devmode"
	"github.com/ananyateklu/second-brain-sub004/internal/localstate"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// ServicePrefix is the environment prefix for Service.
const ServicePrefix = "SECONDBRAIN_SERVICE"

// Service holds the configuration for the reference item service.
type Service struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	HTTPPort int `envconfig:"HTTP_PORT" default:"11545"`

	// DBDriver is "sqlite" or "postgres".
	DBDriver    string `envconfig:"DB_DRIVER" default:"sqlite"`
	SQLitePath  string `envconfig:"SQLITE_PATH"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	APIKey string `envconfig:"API_KEY"`

	TrashRetentionDays int           `envconfig:"TRASH_RETENTION_DAYS" default:"30"`
	PurgeInterval      time.Duration `envconfig:"PURGE_INTERVAL" default:"1h"`

	HealthInterval     time.Duration `envconfig:"HEALTH_INTERVAL" default:"5s"`
	HealthProbeTimeout time.Duration `envconfig:"HEALTH_PROBE_TIMEOUT" default:"2s"`
	// StartupTimeout bounds the wait for dependencies to report healthy.
	StartupTimeout time.Duration `envconfig:"STARTUP_TIMEOUT" default:"60s"`
}

// NewService parses the environment (prefix SECONDBRAIN_SERVICE_).
func NewService() (*Service, error) {
	var cfg Service
	if err := envconfig.Process(ServicePrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Str("db_driver", cfg.DBDriver).
		Int("port", cfg.HTTPPort).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Int("trash_retention_days", cfg.TrashRetentionDays).
		Dur("purge_interval", cfg.PurgeInterval).
		Msg("Configuration loaded")

	return &cfg, nil
}

// ResolveDefaults validates the driver selection and derives the SQLite path.
func (c *Service) ResolveDefaults() error {
	switch c.DBDriver {
	case "sqlite":
		if c.SQLitePath == "" {
			p, err := localstate.ItemsDBPath()
			if err != nil {
				return fmt.Errorf("resolve sqlite path: %w", err)
			}
			c.SQLitePath = p
		}
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for DB_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.APIKey == "" {
		if c.Environment == EnvProduction {
			return fmt.Errorf("API_KEY is required in production")
		}
		c.APIKey = devmode.APIKey
	}
	if c.TrashRetentionDays <= 0 {
		return fmt.Errorf("TRASH_RETENTION_DAYS must be > 0")
	}
	if c.PurgeInterval <= 0 {
		c.PurgeInterval = time.Hour
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = 5 * time.Second
	}
	if c.StartupTimeout <= 0 {
		c.StartupTimeout = 60 * time.Second
	}
	return nil
}

// NewServiceForTesting returns an in-process config backed by the given SQLite file.
func NewServiceForTesting(sqlitePath string) *Service {
	return &Service{
		Environment:        EnvTesting,
		HTTPPort:           0,
		DBDriver:           "sqlite",
		SQLitePath:         sqlitePath,
		APIKey:             devmode.APIKey,
		TrashRetentionDays: 30,
		PurgeInterval:      time.Hour,
		HealthInterval:     100 * time.Millisecond,
		HealthProbeTimeout: time.Second,
		StartupTimeout:     10 * time.Second,
	}
}

// HTTPAddr returns the listen address.
func (c *Service) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// TrashRetention is the retention window as a duration.
func (c *Service) TrashRetention() time.Duration {
	return time.Duration(c.TrashRetentionDays) * 24 * time.Hour
}
