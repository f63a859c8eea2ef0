package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-memberapi/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

const sessionCacheKeyPrefix = "go-memberapi::session::v1"

// CachedSessionStore keeps the latest active session per subject in a
// read-through cache so the request path does not hit the database on
// every outbound call. Writes go to the base store first, then drop the
// cached entry so the next read sees the new version.
type CachedSessionStore struct {
	base  core.SessionStore
	cache repositorycache.CacheService
}

func NewCachedSessionStore(
	base core.SessionStore,
	cacheService repositorycache.CacheService,
) (*CachedSessionStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base session store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: session cache service is required")
	}
	return &CachedSessionStore{base: base, cache: cacheService}, nil
}

// SessionCacheKey returns the deterministic cache key contract for
// current-session reads: go-memberapi::session::v1::<subject> with the
// subject URL-path escaped after trimming.
func SessionCacheKey(subject string) (string, error) {
	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return "", fmt.Errorf("sqlstore: subject is required")
	}
	return strings.Join([]string{sessionCacheKeyPrefix, url.PathEscape(trimmed)}, "::"), nil
}

func (s *CachedSessionStore) GetCurrent(ctx context.Context, subject string) (core.Session, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.Session{}, fmt.Errorf("sqlstore: cached session store is not configured")
	}
	trimmed := strings.TrimSpace(subject)
	cacheKey, err := SessionCacheKey(trimmed)
	if err != nil {
		return core.Session{}, err
	}

	return repositorycache.GetOrFetch(ctx, s.cache, cacheKey, func(ctx context.Context) (core.Session, error) {
		return s.base.GetCurrent(ctx, trimmed)
	})
}

func (s *CachedSessionStore) Save(ctx context.Context, in core.SaveSessionInput) (core.Session, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.Session{}, fmt.Errorf("sqlstore: cached session store is not configured")
	}
	saved, err := s.base.Save(ctx, in)
	if err != nil {
		return core.Session{}, err
	}
	if err := s.invalidate(ctx, saved.Subject); err != nil {
		return core.Session{}, err
	}
	return saved, nil
}

func (s *CachedSessionStore) Revoke(ctx context.Context, subject string, reason string) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached session store is not configured")
	}
	if err := s.base.Revoke(ctx, subject, reason); err != nil {
		return err
	}
	return s.invalidate(ctx, subject)
}

func (s *CachedSessionStore) invalidate(ctx context.Context, subject string) error {
	cacheKey, err := SessionCacheKey(subject)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, cacheKey)
}

var _ core.SessionStore = (*CachedSessionStore)(nil)
