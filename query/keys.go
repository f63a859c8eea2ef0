package query

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-memberapi/core"
)

const queryCacheKeyPrefix = "go-memberapi::query::v1"

// CacheKey returns the deterministic cache key contract for cached reads:
// go-memberapi::query::v1::<segment>... with each segment URL-path escaped.
// The first segment is the request path; the rest only discriminate entries.
func CacheKey(key core.QueryKey) (string, error) {
	if len(key) == 0 {
		return "", queryInvalidInputError("query: cache key requires at least a request path")
	}
	if strings.TrimSpace(fmt.Sprint(key[0])) == "" {
		return "", queryInvalidInputError("query: cache key request path is required")
	}
	segments := make([]string, 0, len(key))
	for _, part := range key {
		segments = append(segments, url.PathEscape(fmt.Sprint(part)))
	}
	return strings.Join(append([]string{queryCacheKeyPrefix}, segments...), "::"), nil
}

func keyPath(key core.QueryKey) (string, error) {
	if len(key) == 0 {
		return "", queryInvalidInputError("query: cache key requires at least a request path")
	}
	path, ok := key[0].(string)
	if !ok || strings.TrimSpace(path) == "" {
		return "", queryInvalidInputError("query: cache key request path is required")
	}
	return strings.TrimSpace(path), nil
}
