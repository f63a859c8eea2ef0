package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type SessionConfig struct {
	TokenURL           string        `koanf:"token_url" mapstructure:"token_url"`
	ClientID           string        `koanf:"client_id" mapstructure:"client_id"`
	ClientSecret       string        `koanf:"client_secret" mapstructure:"client_secret"`
	RefreshLeadWindow  time.Duration `koanf:"refresh_lead_window" mapstructure:"refresh_lead_window"`
	ExpiringSoonWindow time.Duration `koanf:"expiring_soon_window" mapstructure:"expiring_soon_window"`
}

type CacheConfig struct {
	// TTL of zero pins entries until a mutation invalidates them.
	TTL time.Duration `koanf:"ttl" mapstructure:"ttl"`
}

type Config struct {
	ServiceName    string        `koanf:"service_name" mapstructure:"service_name"`
	BaseURL        string        `koanf:"base_url" mapstructure:"base_url"`
	RequestTimeout time.Duration `koanf:"request_timeout" mapstructure:"request_timeout"`
	RetryBackoff   time.Duration `koanf:"retry_backoff" mapstructure:"retry_backoff"`
	Session        SessionConfig `koanf:"session" mapstructure:"session"`
	Cache          CacheConfig   `koanf:"cache" mapstructure:"cache"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "memberapi",
		RequestTimeout: 30 * time.Second,
		RetryBackoff:   2 * time.Second,
		Session: SessionConfig{
			RefreshLeadWindow:  DefaultSessionRefreshLeadWindow,
			ExpiringSoonWindow: DefaultSessionExpiringSoonWindow,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if trimmed := strings.TrimSpace(c.BaseURL); trimmed != "" {
		if _, err := url.Parse(trimmed); err != nil {
			return fmt.Errorf("core: base_url is invalid: %w", err)
		}
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("core: request_timeout must be >= 0")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("core: retry_backoff must be >= 0")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("core: cache ttl must be >= 0")
	}
	return nil
}
