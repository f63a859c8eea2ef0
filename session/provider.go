package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-memberapi/core"
)

// GrantClient exchanges a refresh token for a fresh credential.
type GrantClient interface {
	Refresh(ctx context.Context, refreshToken string) (TokenGrant, error)
}

// RefreshProvider resolves bearer tokens from a session store and refreshes
// them against the token endpoint when they expire or are about to. All
// refreshes are serialized: concurrent callers that hit an expired token
// share one refresh instead of racing the endpoint.
type RefreshProvider struct {
	store   core.SessionStore
	client  GrantClient
	subject string
	logger  core.Logger

	refreshLeadWindow  time.Duration
	expiringSoonWindow time.Duration

	now func() time.Time

	mu sync.Mutex
}

type ProviderOption func(*RefreshProvider)

func WithProviderLogger(logger core.Logger) ProviderOption {
	return func(p *RefreshProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithRefreshLeadWindow(window time.Duration) ProviderOption {
	return func(p *RefreshProvider) {
		if window > 0 {
			p.refreshLeadWindow = window
		}
	}
}

func WithExpiringSoonWindow(window time.Duration) ProviderOption {
	return func(p *RefreshProvider) {
		if window > 0 {
			p.expiringSoonWindow = window
		}
	}
}

func WithClock(now func() time.Time) ProviderOption {
	return func(p *RefreshProvider) {
		if now != nil {
			p.now = now
		}
	}
}

func NewRefreshProvider(
	store core.SessionStore,
	client GrantClient,
	subject string,
	options ...ProviderOption,
) (*RefreshProvider, error) {
	if store == nil {
		return nil, fmt.Errorf("session: session store is required")
	}
	if client == nil {
		return nil, fmt.Errorf("session: grant client is required")
	}
	if strings.TrimSpace(subject) == "" {
		return nil, fmt.Errorf("session: subject is required")
	}
	provider := &RefreshProvider{
		store:              store,
		client:             client,
		subject:            strings.TrimSpace(subject),
		logger:             glog.Ensure(nil),
		refreshLeadWindow:  core.DefaultSessionRefreshLeadWindow,
		expiringSoonWindow: core.DefaultSessionExpiringSoonWindow,
		now:                func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		if option != nil {
			option(provider)
		}
	}
	return provider, nil
}

// Session returns the current access token, refreshing first when the stored
// session is expired or inside the refresh lead window. No stored session
// resolves to an anonymous empty token.
func (p *RefreshProvider) Session(ctx context.Context) (string, error) {
	if p == nil {
		return "", fmt.Errorf("session: provider is not configured")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.store.GetCurrent(ctx, p.subject)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("session: load current session: %w", err)
	}

	now := p.now()
	state := core.ResolveSessionTokenState(now, current, p.expiringSoonWindow)
	if core.ShouldRefreshSession(now, state, p.refreshLeadWindow) {
		refreshed, refreshErr := p.refreshLocked(ctx, current)
		if refreshErr == nil {
			return refreshed.AccessToken, nil
		}
		if state.IsExpired || !state.HasAccessToken {
			return "", refreshErr
		}
		// Token is still usable; keep serving it and let the executor's
		// 401 path force the next refresh.
		p.logger.Error("proactive session refresh failed, serving current token", "error", refreshErr)
	}
	return current.AccessToken, nil
}

// Refresh forces a new credential for the subject and returns its access
// token.
func (p *RefreshProvider) Refresh(ctx context.Context) (string, error) {
	if p == nil {
		return "", fmt.Errorf("session: provider is not configured")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	current, err := p.store.GetCurrent(ctx, p.subject)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return "", fmt.Errorf("session: no session to refresh for subject %q", p.subject)
		}
		return "", fmt.Errorf("session: load current session: %w", err)
	}

	refreshed, err := p.refreshLocked(ctx, current)
	if err != nil {
		return "", err
	}
	return refreshed.AccessToken, nil
}

func (p *RefreshProvider) refreshLocked(ctx context.Context, current core.Session) (core.Session, error) {
	if strings.TrimSpace(current.RefreshToken) == "" {
		return core.Session{}, fmt.Errorf("session: session for subject %q has no refresh token", p.subject)
	}

	grant, err := p.client.Refresh(ctx, current.RefreshToken)
	if err != nil {
		var refreshErr *RefreshError
		if errors.As(err, &refreshErr) && refreshErr.Revoked {
			if revokeErr := p.store.Revoke(ctx, p.subject, "refresh token revoked"); revokeErr != nil {
				p.logger.Error("revoke session after rejected refresh", "subject", p.subject, "error", revokeErr)
			}
		}
		return core.Session{}, err
	}

	refreshToken := grant.RefreshToken
	if strings.TrimSpace(refreshToken) == "" {
		refreshToken = current.RefreshToken
	}
	var expiresAt *time.Time
	if grant.ExpiresIn > 0 {
		expiry := p.now().Add(time.Duration(grant.ExpiresIn) * time.Second)
		expiresAt = &expiry
	}

	saved, err := p.store.Save(ctx, core.SaveSessionInput{
		Subject:      p.subject,
		TokenType:    grant.TokenType,
		AccessToken:  grant.AccessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return core.Session{}, fmt.Errorf("session: persist refreshed session: %w", err)
	}
	p.logger.Info("session refreshed", "subject", p.subject, "version", saved.Version)
	return saved, nil
}

var _ core.SessionProvider = (*RefreshProvider)(nil)
