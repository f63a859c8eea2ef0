package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-memberapi/core"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory core.SessionStore for tests and ephemeral
// deployments. Save rotates the stored session and bumps its version.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]core.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]core.Session{}}
}

func (s *MemoryStore) Save(ctx context.Context, in core.SaveSessionInput) (core.Session, error) {
	if s == nil {
		return core.Session{}, fmt.Errorf("session: memory store is not configured")
	}
	if err := in.Validate(); err != nil {
		return core.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	subject := strings.TrimSpace(in.Subject)
	now := time.Now().UTC()
	next := core.Session{
		ID:           uuid.NewString(),
		Subject:      subject,
		TokenType:    strings.TrimSpace(in.TokenType),
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.ExpiresAt != nil {
		expiresAt := in.ExpiresAt.UTC()
		next.ExpiresAt = &expiresAt
	}
	if previous, ok := s.sessions[subject]; ok {
		next.Version = previous.Version + 1
		next.CreatedAt = previous.CreatedAt
	}
	s.sessions[subject] = next
	return next, nil
}

func (s *MemoryStore) GetCurrent(ctx context.Context, subject string) (core.Session, error) {
	if s == nil {
		return core.Session{}, fmt.Errorf("session: memory store is not configured")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	current, ok := s.sessions[strings.TrimSpace(subject)]
	if !ok {
		return core.Session{}, fmt.Errorf("%w: subject %q", core.ErrSessionNotFound, subject)
	}
	return current, nil
}

func (s *MemoryStore) Revoke(ctx context.Context, subject string, reason string) error {
	if s == nil {
		return fmt.Errorf("session: memory store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, strings.TrimSpace(subject))
	return nil
}

var _ core.SessionStore = (*MemoryStore)(nil)
