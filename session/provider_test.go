package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goliatone/go-memberapi/core"
)

func TestRefreshProvider_SessionServesStoredToken(t *testing.T) {
	store := NewMemoryStore()
	expiresAt := time.Now().UTC().Add(time.Hour)
	if _, err := store.Save(context.Background(), core.SaveSessionInput{
		Subject:      "agent_1",
		AccessToken:  "tok_live",
		RefreshToken: "ref_1",
		ExpiresAt:    &expiresAt,
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	client := stubGrantClient{
		refreshFn: func(_ context.Context, _ string) (TokenGrant, error) {
			t.Fatalf("unexpected refresh for fresh token")
			return TokenGrant{}, nil
		},
	}

	provider := newTestProvider(t, store, client)
	token, err := provider.Session(context.Background())
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if token != "tok_live" {
		t.Fatalf("expected stored token, got %q", token)
	}
}

func TestRefreshProvider_SessionAnonymousWhenNoSession(t *testing.T) {
	provider := newTestProvider(t, NewMemoryStore(), stubGrantClient{})
	token, err := provider.Session(context.Background())
	if err != nil {
		t.Fatalf("expected anonymous resolution, got %v", err)
	}
	if token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}
}

func TestRefreshProvider_SessionRefreshesExpiredToken(t *testing.T) {
	store := NewMemoryStore()
	expiresAt := time.Now().UTC().Add(-time.Minute)
	if _, err := store.Save(context.Background(), core.SaveSessionInput{
		Subject:      "agent_1",
		AccessToken:  "tok_stale",
		RefreshToken: "ref_1",
		ExpiresAt:    &expiresAt,
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	client := stubGrantClient{
		refreshFn: func(_ context.Context, refreshToken string) (TokenGrant, error) {
			if refreshToken != "ref_1" {
				t.Fatalf("unexpected refresh token %q", refreshToken)
			}
			return TokenGrant{AccessToken: "tok_fresh", RefreshToken: "ref_2", ExpiresIn: 3600}, nil
		},
	}

	provider := newTestProvider(t, store, client)
	token, err := provider.Session(context.Background())
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if token != "tok_fresh" {
		t.Fatalf("expected refreshed token, got %q", token)
	}

	saved, err := store.GetCurrent(context.Background(), "agent_1")
	if err != nil {
		t.Fatalf("load rotated session: %v", err)
	}
	if saved.RefreshToken != "ref_2" || saved.Version != 2 {
		t.Fatalf("expected rotated session, got %#v", saved)
	}
}

func TestRefreshProvider_RefreshForcesNewToken(t *testing.T) {
	store := NewMemoryStore()
	expiresAt := time.Now().UTC().Add(time.Hour)
	if _, err := store.Save(context.Background(), core.SaveSessionInput{
		Subject:      "agent_1",
		AccessToken:  "tok_live",
		RefreshToken: "ref_1",
		ExpiresAt:    &expiresAt,
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	var calls atomic.Int64
	client := stubGrantClient{
		refreshFn: func(_ context.Context, _ string) (TokenGrant, error) {
			calls.Add(1)
			return TokenGrant{AccessToken: "tok_forced", ExpiresIn: 3600}, nil
		},
	}

	provider := newTestProvider(t, store, client)
	token, err := provider.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if token != "tok_forced" || calls.Load() != 1 {
		t.Fatalf("expected forced refresh, got %q after %d calls", token, calls.Load())
	}

	saved, err := store.GetCurrent(context.Background(), "agent_1")
	if err != nil {
		t.Fatalf("load rotated session: %v", err)
	}
	// Endpoint did not rotate the refresh token, so the old one survives.
	if saved.RefreshToken != "ref_1" || saved.AccessToken != "tok_forced" {
		t.Fatalf("unexpected rotated session: %#v", saved)
	}
}

func TestRefreshProvider_RevokedRefreshClearsSession(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Save(context.Background(), core.SaveSessionInput{
		Subject:      "agent_1",
		AccessToken:  "tok_live",
		RefreshToken: "ref_dead",
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	client := stubGrantClient{
		refreshFn: func(_ context.Context, _ string) (TokenGrant, error) {
			return TokenGrant{}, &RefreshError{Revoked: true, Err: fmt.Errorf("refresh failed with status 401")}
		},
	}

	provider := newTestProvider(t, store, client)
	if _, err := provider.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}

	if _, err := store.GetCurrent(context.Background(), "agent_1"); err == nil {
		t.Fatalf("expected revoked session to be removed")
	}
}

func TestRefreshProvider_ConcurrentRefreshSerialized(t *testing.T) {
	store := NewMemoryStore()
	expiresAt := time.Now().UTC().Add(-time.Minute)
	if _, err := store.Save(context.Background(), core.SaveSessionInput{
		Subject:      "agent_1",
		AccessToken:  "tok_stale",
		RefreshToken: "ref_1",
		ExpiresAt:    &expiresAt,
	}); err != nil {
		t.Fatalf("seed session: %v", err)
	}

	var inFlight atomic.Int64
	var maxInFlight atomic.Int64
	client := stubGrantClient{
		refreshFn: func(_ context.Context, _ string) (TokenGrant, error) {
			current := inFlight.Add(1)
			if current > maxInFlight.Load() {
				maxInFlight.Store(current)
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return TokenGrant{AccessToken: "tok_fresh", RefreshToken: "ref_2", ExpiresIn: 3600}, nil
		},
	}

	provider := newTestProvider(t, store, client)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := provider.Session(context.Background()); err != nil {
				t.Errorf("concurrent session: %v", err)
			}
		}()
	}
	wg.Wait()

	if maxInFlight.Load() > 1 {
		t.Fatalf("expected serialized refreshes, saw %d in flight", maxInFlight.Load())
	}
}

func TestStaticProvider_ServesFixedToken(t *testing.T) {
	provider := NewStaticProvider("  tok_static  ")

	token, err := provider.Session(context.Background())
	if err != nil || token != "tok_static" {
		t.Fatalf("unexpected session result: %q %v", token, err)
	}
	refreshed, err := provider.Refresh(context.Background())
	if err != nil || refreshed != "tok_static" {
		t.Fatalf("unexpected refresh result: %q %v", refreshed, err)
	}
}

func newTestProvider(t *testing.T, store core.SessionStore, client GrantClient) *RefreshProvider {
	t.Helper()
	provider, err := NewRefreshProvider(store, client, "agent_1")
	if err != nil {
		t.Fatalf("new refresh provider: %v", err)
	}
	return provider
}

type stubGrantClient struct {
	refreshFn func(ctx context.Context, refreshToken string) (TokenGrant, error)
}

func (s stubGrantClient) Refresh(ctx context.Context, refreshToken string) (TokenGrant, error) {
	if s.refreshFn == nil {
		return TokenGrant{}, fmt.Errorf("refresh not configured")
	}
	return s.refreshFn(ctx, refreshToken)
}

var _ GrantClient = stubGrantClient{}
