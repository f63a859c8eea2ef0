package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-memberapi/core"
	repositorycache "github.com/goliatone/go-repository-cache/cache"
)

// CachedFetcher answers key-based reads from cache, delegating misses to the
// requester. A 401 miss resolves per policy: surface the raw status error, or
// cache and return nil for anonymous-tolerant views. Results are cached by
// key, nil included, until the TTL expires or a mutation invalidates them.
// Live keys are indexed by request path so invalidating a base path also
// drops the filtered and paginated variants cached under it.
type CachedFetcher struct {
	requester core.Requester
	cache     repositorycache.CacheService
	logger    core.Logger

	mu   sync.Mutex
	live map[string]map[string]struct{}
}

func NewCachedFetcher(
	requester core.Requester,
	cacheService repositorycache.CacheService,
) (*CachedFetcher, error) {
	if requester == nil {
		return nil, fmt.Errorf("query: requester is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("query: cache service is required")
	}
	return &CachedFetcher{
		requester: requester,
		cache:     cacheService,
		logger:    glog.Ensure(nil),
	}, nil
}

// NewCacheService builds the backing cache from service config. A zero TTL
// disables expiry so entries live until a mutation invalidates them.
func NewCacheService(cfg core.CacheConfig) (repositorycache.CacheService, error) {
	config := repositorycache.DefaultConfig()
	config.TTL = cfg.TTL
	return repositorycache.NewCacheService(config)
}

func (f *CachedFetcher) SetLogger(logger core.Logger) {
	if f == nil || logger == nil {
		return
	}
	f.logger = logger
}

func (f *CachedFetcher) Fetch(
	ctx context.Context,
	key core.QueryKey,
	policy core.UnauthorizedPolicy,
) (json.RawMessage, error) {
	if f == nil || f.requester == nil || f.cache == nil {
		return nil, queryDependencyError("query: cached fetcher is not configured")
	}
	path, err := keyPath(key)
	if err != nil {
		return nil, err
	}
	cacheKey, err := CacheKey(key)
	if err != nil {
		return nil, err
	}
	f.track(path, cacheKey)

	return repositorycache.GetOrFetch(ctx, f.cache, cacheKey, func(ctx context.Context) (json.RawMessage, error) {
		return f.fetch(ctx, path, policy)
	})
}

// Invalidate drops the entry for key plus every live entry fetched for the
// same base path, so a mutation invalidating `/api/leads` also clears
// `/api/leads?status=...` listings and discriminated variants.
func (f *CachedFetcher) Invalidate(ctx context.Context, key core.QueryKey) error {
	if f == nil || f.cache == nil {
		return queryDependencyError("query: cached fetcher is not configured")
	}
	path, err := keyPath(key)
	if err != nil {
		return err
	}
	cacheKey, err := CacheKey(key)
	if err != nil {
		return err
	}

	base := basePath(path)
	f.mu.Lock()
	keys := []string{cacheKey}
	for live := range f.live[base] {
		if live != cacheKey {
			keys = append(keys, live)
		}
	}
	delete(f.live, base)
	f.mu.Unlock()

	var firstErr error
	for _, k := range keys {
		if err := f.cache.Delete(ctx, k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *CachedFetcher) track(path string, cacheKey string) {
	base := basePath(path)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.live == nil {
		f.live = map[string]map[string]struct{}{}
	}
	bucket := f.live[base]
	if bucket == nil {
		bucket = map[string]struct{}{}
		f.live[base] = bucket
	}
	bucket[cacheKey] = struct{}{}
}

func basePath(path string) string {
	if i := strings.Index(path, "?"); i >= 0 {
		return path[:i]
	}
	return path
}

func (f *CachedFetcher) fetch(
	ctx context.Context,
	path string,
	policy core.UnauthorizedPolicy,
) (json.RawMessage, error) {
	response, err := f.requester.Do(ctx, core.Request{Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}

	if response.StatusCode == http.StatusUnauthorized && policy == core.UnauthorizedNil {
		f.logger.Info("unauthorized read resolved to empty result", "path", path)
		return nil, nil
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, core.HTTPStatusError(response.StatusCode, response.Body)
	}
	return json.RawMessage(response.Body), nil
}

var _ core.QueryFetcher = (*CachedFetcher)(nil)
