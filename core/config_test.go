package core

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ServiceName != "memberapi" {
		t.Fatalf("expected memberapi service name, got %q", cfg.ServiceName)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("expected 30s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.RetryBackoff != 2*time.Second {
		t.Fatalf("expected 2s retry backoff, got %s", cfg.RetryBackoff)
	}
	if cfg.Session.RefreshLeadWindow != DefaultSessionRefreshLeadWindow {
		t.Fatalf("expected default refresh lead window, got %s", cfg.Session.RefreshLeadWindow)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected default config to validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults ok", mutate: func(*Config) {}},
		{
			name:   "base url optional",
			mutate: func(c *Config) { c.BaseURL = "" },
		},
		{
			name:    "service name required",
			mutate:  func(c *Config) { c.ServiceName = "  " },
			wantErr: true,
		},
		{
			name:    "negative timeout rejected",
			mutate:  func(c *Config) { c.RequestTimeout = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative backoff rejected",
			mutate:  func(c *Config) { c.RetryBackoff = -time.Second },
			wantErr: true,
		},
		{
			name:    "negative cache ttl rejected",
			mutate:  func(c *Config) { c.Cache.TTL = -time.Minute },
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
