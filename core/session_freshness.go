package core

import (
	"strings"
	"time"
)

const (
	DefaultSessionExpiringSoonWindow = 5 * time.Minute
	DefaultSessionRefreshLeadWindow  = 5 * time.Minute
)

// SessionTokenState captures access/refresh lifecycle state derived from a
// stored session.
type SessionTokenState struct {
	ExpiresAt       *time.Time
	HasAccessToken  bool
	HasRefreshToken bool
	CanAutoRefresh  bool
	IsExpired       bool
	IsExpiringSoon  bool
}

// ResolveSessionTokenState evaluates expiry and refreshability flags for a
// session.
func ResolveSessionTokenState(now time.Time, session Session, expiringSoonWindow time.Duration) SessionTokenState {
	if now.IsZero() {
		now = time.Now().UTC()
	} else {
		now = now.UTC()
	}
	if expiringSoonWindow <= 0 {
		expiringSoonWindow = DefaultSessionExpiringSoonWindow
	}

	state := SessionTokenState{
		HasAccessToken:  strings.TrimSpace(session.AccessToken) != "",
		HasRefreshToken: strings.TrimSpace(session.RefreshToken) != "",
	}
	state.CanAutoRefresh = state.HasRefreshToken
	if session.ExpiresAt == nil {
		return state
	}
	expiresAt := session.ExpiresAt.UTC()
	state.ExpiresAt = &expiresAt
	if !expiresAt.After(now) {
		state.IsExpired = true
		return state
	}
	state.IsExpiringSoon = !expiresAt.After(now.Add(expiringSoonWindow))
	return state
}

// ShouldRefreshSession returns true when a refresh should be attempted
// before the session token is handed to the executor.
func ShouldRefreshSession(now time.Time, state SessionTokenState, refreshLeadWindow time.Duration) bool {
	if !state.CanAutoRefresh {
		return false
	}
	if !state.HasAccessToken {
		return true
	}
	if state.ExpiresAt == nil {
		return false
	}
	if refreshLeadWindow <= 0 {
		refreshLeadWindow = DefaultSessionRefreshLeadWindow
	}
	if now.IsZero() {
		now = time.Now().UTC()
	} else {
		now = now.UTC()
	}
	return !state.ExpiresAt.UTC().After(now.Add(refreshLeadWindow))
}
