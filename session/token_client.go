package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTokenClientTimeout = 10 * time.Second

// RefreshError wraps a failed refresh grant. Revoked marks responses that
// mean the refresh token itself is no longer usable, so callers should
// revoke the stored session instead of retrying.
type RefreshError struct {
	Revoked bool
	Err     error
}

func (e *RefreshError) Error() string {
	if e.Revoked {
		return fmt.Sprintf("session: refresh token revoked: %v", e.Err)
	}
	return fmt.Sprintf("session: token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error { return e.Err }

// TokenGrant is the token endpoint's response to a refresh grant. A missing
// RefreshToken means the endpoint did not rotate it and the old one stays
// valid.
type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TokenClient exchanges refresh tokens for fresh credentials using the
// OAuth2 refresh_token grant.
type TokenClient struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Client       HTTPDoer
}

func NewTokenClient(tokenURL string, clientID string, clientSecret string) *TokenClient {
	return &TokenClient{
		TokenURL:     strings.TrimSpace(tokenURL),
		ClientID:     strings.TrimSpace(clientID),
		ClientSecret: clientSecret,
		Client:       &http.Client{Timeout: defaultTokenClientTimeout},
	}
}

func (c *TokenClient) Refresh(ctx context.Context, refreshToken string) (TokenGrant, error) {
	if c == nil || strings.TrimSpace(c.TokenURL) == "" {
		return TokenGrant{}, &RefreshError{Err: fmt.Errorf("token endpoint is not configured")}
	}
	if strings.TrimSpace(refreshToken) == "" {
		return TokenGrant{}, &RefreshError{Err: fmt.Errorf("refresh token is required")}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data := url.Values{}
	data.Set("client_id", c.ClientID)
	data.Set("client_secret", c.ClientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return TokenGrant{}, &RefreshError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: defaultTokenClientTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return TokenGrant{}, &RefreshError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TokenGrant{}, &RefreshError{Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		revoked := resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized
		return TokenGrant{}, &RefreshError{
			Revoked: revoked,
			Err:     fmt.Errorf("refresh failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var grant TokenGrant
	if err := json.Unmarshal(body, &grant); err != nil {
		return TokenGrant{}, &RefreshError{Err: err}
	}
	if strings.TrimSpace(grant.AccessToken) == "" {
		return TokenGrant{}, &RefreshError{Err: fmt.Errorf("token endpoint returned no access token")}
	}
	return grant, nil
}
