package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-memberapi/core"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

type SessionStore struct {
	db   *bun.DB
	repo repository.Repository[*sessionRecord]
}

func (s *SessionStore) Save(ctx context.Context, in core.SaveSessionInput) (core.Session, error) {
	if s == nil || s.repo == nil || s.db == nil {
		return core.Session{}, fmt.Errorf("sqlstore: session store is not configured")
	}
	trimmedSubject := strings.TrimSpace(in.Subject)
	if trimmedSubject == "" {
		return core.Session{}, fmt.Errorf("sqlstore: subject is required")
	}
	if strings.TrimSpace(in.AccessToken) == "" {
		return core.Session{}, fmt.Errorf("sqlstore: access token is required")
	}

	tokenType := strings.TrimSpace(in.TokenType)
	if tokenType == "" {
		tokenType = "Bearer"
	}
	in.Subject = trimmedSubject
	in.TokenType = tokenType
	now := time.Now().UTC()

	var saved core.Session
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		nextVersion, versionErr := s.nextVersion(ctx, tx, trimmedSubject)
		if versionErr != nil {
			return versionErr
		}

		revokeReason := "rotated"
		_, updateErr := tx.NewUpdate().
			Model((*sessionRecord)(nil)).
			Set("status = ?", sessionStatusRevoked).
			Set("revocation_reason = ?", revokeReason).
			Set("updated_at = ?", now).
			Where("subject = ?", trimmedSubject).
			Where("status = ?", sessionStatusActive).
			Exec(ctx)
		if updateErr != nil {
			return updateErr
		}

		record := newSessionRecord(in, nextVersion, now)
		inserted, createErr := s.repo.CreateTx(ctx, tx, record)
		if createErr != nil {
			return createErr
		}
		saved = inserted.toDomain()
		return nil
	})
	if err != nil {
		return core.Session{}, err
	}

	return saved, nil
}

func (s *SessionStore) GetCurrent(ctx context.Context, subject string) (core.Session, error) {
	if s == nil || s.repo == nil {
		return core.Session{}, fmt.Errorf("sqlstore: session store is not configured")
	}
	records, _, err := s.repo.List(ctx,
		repository.SelectBy("subject", "=", strings.TrimSpace(subject)),
		repository.SelectBy("status", "=", sessionStatusActive),
		repository.OrderBy("version DESC"),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return core.Session{}, err
	}
	if len(records) == 0 {
		return core.Session{}, fmt.Errorf("%w: subject %q", core.ErrSessionNotFound, subject)
	}
	return records[0].toDomain(), nil
}

func (s *SessionStore) Revoke(ctx context.Context, subject string, reason string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlstore: session store is not configured")
	}
	trimmedSubject := strings.TrimSpace(subject)
	if trimmedSubject == "" {
		return fmt.Errorf("sqlstore: subject is required")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "revoked"
	}

	_, err := s.db.NewUpdate().
		Model((*sessionRecord)(nil)).
		Set("status = ?", sessionStatusRevoked).
		Set("revocation_reason = ?", reason).
		Set("updated_at = ?", time.Now().UTC()).
		Where("subject = ?", trimmedSubject).
		Where("status = ?", sessionStatusActive).
		Exec(ctx)
	return err
}

func (s *SessionStore) nextVersion(ctx context.Context, tx bun.Tx, subject string) (int, error) {
	var maxVersion int
	if err := tx.NewSelect().
		Model((*sessionRecord)(nil)).
		ColumnExpr("COALESCE(MAX(version), 0)").
		Where("?TableAlias.subject = ?", subject).
		Scan(ctx, &maxVersion); err != nil {
		return 0, err
	}
	return maxVersion + 1, nil
}
