package sqlstore

import (
	"time"

	"github.com/goliatone/go-memberapi/core"
	"github.com/google/uuid"
)

func newSessionRecord(in core.SaveSessionInput, version int, now time.Time) *sessionRecord {
	record := &sessionRecord{
		ID:           uuid.NewString(),
		Subject:      in.Subject,
		Version:      version,
		TokenType:    in.TokenType,
		AccessToken:  in.AccessToken,
		RefreshToken: in.RefreshToken,
		Status:       sessionStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.ExpiresAt != nil {
		expiresAt := *in.ExpiresAt
		record.ExpiresAt = &expiresAt
	}
	return record
}

func (r *sessionRecord) toDomain() core.Session {
	if r == nil {
		return core.Session{}
	}
	session := core.Session{
		ID:           r.ID,
		Subject:      r.Subject,
		TokenType:    r.TokenType,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Version:      r.Version,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.ExpiresAt != nil {
		expiresAt := *r.ExpiresAt
		session.ExpiresAt = &expiresAt
	}
	return session
}
