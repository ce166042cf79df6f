// Package config loads settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/ananyateklu/second-brain-sub004/devmode"
	"github.com/ananyateklu/second-brain-sub004/internal/localstate"
	"github.com/ananyateklu/second-brain-sub004/internal/shardqueue"
)

// ClientPrefix is the environment prefix for Client, e.g. SECONDBRAIN_SERVICE_URL.
const ClientPrefix = "SECONDBRAIN"

// Client configures a workspace that talks to the item service.
type Client struct {
	ServiceURL         string        `envconfig:"SERVICE_URL" default:"http://localhost:11545"`
	APIKey             string        `envconfig:"API_KEY"`
	HTTPTimeout        time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	TrashRetentionDays int           `envconfig:"TRASH_RETENTION_DAYS" default:"30"`
	PrefsPath          string        `envconfig:"PREFS_PATH"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	Breaker            bool          `envconfig:"BREAKER" default:"false"`

	// Activity tunes the background executor that ships audit entries.
	Activity shardqueue.Config `envconfig:"ACTIVITY"`
}

// LoadClient reads Client from the environment and fills derived defaults.
func LoadClient() (*Client, error) {
	var cfg Client
	if err := envconfig.Process(ClientPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("service_url", cfg.ServiceURL).
		Bool("api_key_present", cfg.APIKey != "").
		Dur("http_timeout", cfg.HTTPTimeout).
		Int("trash_retention_days", cfg.TrashRetentionDays).
		Str("prefs_path", cfg.PrefsPath).
		Bool("breaker", cfg.Breaker).
		Msg("Client configuration loaded")

	return &cfg, nil
}

// ResolveDefaults validates the config and derives empty fields.
func (c *Client) ResolveDefaults() error {
	if c.ServiceURL == "" {
		return fmt.Errorf("SERVICE_URL must not be empty")
	}
	if c.APIKey == "" {
		c.APIKey = devmode.APIKey
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be > 0")
	}
	if c.TrashRetentionDays <= 0 {
		return fmt.Errorf("TRASH_RETENTION_DAYS must be > 0")
	}
	if c.PrefsPath == "" {
		p, err := localstate.PrefsPath()
		if err != nil {
			return fmt.Errorf("resolve prefs path: %w", err)
		}
		c.PrefsPath = p
	}
	return nil
}

// TrashRetention is the retention window as a duration.
func (c *Client) TrashRetention() time.Duration {
	return time.Duration(c.TrashRetentionDays) * 24 * time.Hour
}
