package core

import (
	"context"
	"testing"
	"time"
)

func TestCfgxConfigProvider_LoadMergesDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{
		Values: map[string]any{
			"base_url": "https://api.example.com",
			"session": map[string]any{
				"token_url": "https://auth.example.com/oauth/token",
				"client_id": "client_1",
			},
		},
	})

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.BaseURL != "https://api.example.com" {
		t.Fatalf("expected loaded base url, got %q", cfg.BaseURL)
	}
	if cfg.ServiceName != "memberapi" {
		t.Fatalf("expected default service name to survive, got %q", cfg.ServiceName)
	}
	if cfg.Session.TokenURL != "https://auth.example.com/oauth/token" {
		t.Fatalf("expected loaded token url, got %q", cfg.Session.TokenURL)
	}
	if cfg.Session.RefreshLeadWindow != DefaultSessionRefreshLeadWindow {
		t.Fatalf("expected default refresh lead window, got %s", cfg.Session.RefreshLeadWindow)
	}
}

func TestCfgxConfigProvider_NilLoaderReturnsDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(nil)

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "memberapi" || cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestGoOptionsResolver_RuntimeWinsOverLoaded(t *testing.T) {
	defaults := DefaultConfig()
	loaded := Config{
		BaseURL:      "https://config.example.com",
		RetryBackoff: 5 * time.Second,
	}
	runtime := Config{
		BaseURL: "https://runtime.example.com",
	}

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.BaseURL != "https://runtime.example.com" {
		t.Fatalf("expected runtime base url to win, got %q", resolved.BaseURL)
	}
	if resolved.RetryBackoff != 5*time.Second {
		t.Fatalf("expected loaded backoff to win over defaults, got %s", resolved.RetryBackoff)
	}
	if resolved.ServiceName != "memberapi" {
		t.Fatalf("expected default service name, got %q", resolved.ServiceName)
	}
	if resolved.RequestTimeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %s", resolved.RequestTimeout)
	}
}

func TestGoOptionsResolver_CarriesSessionLayer(t *testing.T) {
	defaults := DefaultConfig()
	loaded := Config{
		Session: SessionConfig{
			TokenURL: "https://auth.example.com/oauth/token",
			ClientID: "client_1",
		},
	}
	runtime := Config{
		BaseURL: "https://runtime.example.com",
	}

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Session.TokenURL != "https://auth.example.com/oauth/token" {
		t.Fatalf("expected loaded token url, got %q", resolved.Session.TokenURL)
	}
	if resolved.Session.ClientID != "client_1" {
		t.Fatalf("expected loaded client id, got %q", resolved.Session.ClientID)
	}
	if resolved.BaseURL != "https://runtime.example.com" {
		t.Fatalf("expected runtime base url, got %q", resolved.BaseURL)
	}
}
