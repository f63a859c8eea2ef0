package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenClient_RefreshExchangesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type: %q", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "refresh_token" {
			t.Fatalf("unexpected grant type: %q", r.PostForm.Get("grant_type"))
		}
		if r.PostForm.Get("refresh_token") != "ref_1" {
			t.Fatalf("unexpected refresh token: %q", r.PostForm.Get("refresh_token"))
		}
		if r.PostForm.Get("client_id") != "client_1" {
			t.Fatalf("unexpected client id: %q", r.PostForm.Get("client_id"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"tok_fresh","refresh_token":"ref_2","token_type":"bearer","expires_in":3600}`))
	}))
	defer server.Close()

	client := NewTokenClient(server.URL, "client_1", "secret")
	grant, err := client.Refresh(context.Background(), "ref_1")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if grant.AccessToken != "tok_fresh" || grant.RefreshToken != "ref_2" || grant.ExpiresIn != 3600 {
		t.Fatalf("unexpected grant: %#v", grant)
	}
}

func TestTokenClient_RefreshRevokedOnRejection(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte(`{"error":"invalid_grant"}`))
		}))

		client := NewTokenClient(server.URL, "client_1", "secret")
		_, err := client.Refresh(context.Background(), "ref_dead")
		server.Close()

		if err == nil {
			t.Fatalf("expected refresh error for status %d", status)
		}
		var refreshErr *RefreshError
		if !errors.As(err, &refreshErr) {
			t.Fatalf("expected RefreshError, got %T", err)
		}
		if !refreshErr.Revoked {
			t.Fatalf("expected revoked flag for status %d", status)
		}
	}
}

func TestTokenClient_RefreshServerErrorNotRevoked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewTokenClient(server.URL, "client_1", "secret")
	_, err := client.Refresh(context.Background(), "ref_1")
	if err == nil {
		t.Fatalf("expected refresh error")
	}
	var refreshErr *RefreshError
	if !errors.As(err, &refreshErr) {
		t.Fatalf("expected RefreshError, got %T", err)
	}
	if refreshErr.Revoked {
		t.Fatalf("expected transient failure, got revoked")
	}
}

func TestTokenClient_RefreshRequiresToken(t *testing.T) {
	client := NewTokenClient("https://auth.example.com/token", "client_1", "secret")
	if _, err := client.Refresh(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for missing refresh token")
	}
}
