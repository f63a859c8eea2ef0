package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-memberapi/core"
	"github.com/google/uuid"
)

const defaultClientTimeout = 30 * time.Second
const defaultResponseBodyLimit int64 = 10 << 20 // 10 MiB
const defaultNetworkRetryBackoff = 2 * time.Second

const requestIDHeader = "X-Request-Id"

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BackoffScheduler yields the wait before a retried send. Attempt is
// 1-based and, with the executor's single-retry cap, only ever 1.
type BackoffScheduler interface {
	NextDelay(attempt int) time.Duration
}

type FixedBackoffScheduler struct {
	Delay time.Duration
}

func (s FixedBackoffScheduler) NextDelay(int) time.Duration {
	if s.Delay <= 0 {
		return defaultNetworkRetryBackoff
	}
	return s.Delay
}

// Executor performs authenticated calls against the membership backend. Each
// logical call gets at most one credential-refresh retry after a 401 and at
// most one delayed resend after a network failure; the two budgets are
// independent and never compound.
type Executor struct {
	BaseURL              string
	Client               HTTPDoer
	Sessions             core.SessionProvider
	Logger               core.Logger
	Backoff              BackoffScheduler
	DefaultHeaders       map[string]string
	MaxResponseBodyBytes int64

	sleep func(ctx context.Context, d time.Duration) error
}

type ExecutorOption func(*Executor)

func WithHTTPClient(client HTTPDoer) ExecutorOption {
	return func(e *Executor) {
		if client != nil {
			e.Client = client
		}
	}
}

func WithLogger(logger core.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.Logger = logger
		}
	}
}

func WithBackoff(scheduler BackoffScheduler) ExecutorOption {
	return func(e *Executor) {
		if scheduler != nil {
			e.Backoff = scheduler
		}
	}
}

func WithResponseBodyLimit(limit int64) ExecutorOption {
	return func(e *Executor) {
		if limit > 0 {
			e.MaxResponseBodyBytes = limit
		}
	}
}

func WithDefaultHeader(key string, value string) ExecutorOption {
	return func(e *Executor) {
		if strings.TrimSpace(key) == "" {
			return
		}
		e.DefaultHeaders[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
}

func NewExecutor(baseURL string, sessions core.SessionProvider, options ...ExecutorOption) *Executor {
	executor := &Executor{
		BaseURL:  strings.TrimSpace(baseURL),
		Client:   &http.Client{Timeout: defaultClientTimeout},
		Sessions: sessions,
		Logger:   glog.Ensure(nil),
		Backoff:  FixedBackoffScheduler{Delay: defaultNetworkRetryBackoff},
		DefaultHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		MaxResponseBodyBytes: defaultResponseBodyLimit,
		sleep:                sleepContext,
	}
	for _, option := range options {
		if option != nil {
			option(executor)
		}
	}
	return executor
}

// Do issues one logical request. Non-2xx statuses come back as Response
// values; an error means the request could not be built or the send failed
// even after the single network retry.
func (e *Executor) Do(ctx context.Context, req core.Request) (core.Response, error) {
	if e == nil || e.Client == nil {
		return core.Response{}, transportError(
			"transport: executor requires an http client",
			goerrors.CategoryInternal,
			http.StatusInternalServerError,
			nil,
		)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	target, err := e.resolveURL(req.Path)
	if err != nil {
		return core.Response{}, err
	}
	method := strings.TrimSpace(strings.ToUpper(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	requestID := uuid.NewString()
	authRetried := false
	netRetried := false
	token := ""
	fetchToken := !req.Anonymous && e.Sessions != nil

	for {
		if fetchToken {
			token, err = e.Sessions.Session(ctx)
			if err != nil {
				return core.Response{}, transportWrapError(
					err,
					goerrors.CategoryAuth,
					"transport: resolve session credential",
					http.StatusUnauthorized,
					map[string]any{"method": method, "url": target},
				)
			}
			fetchToken = false
		}

		response, err := e.send(ctx, method, target, req, token, requestID)
		if err != nil {
			if IsNetworkError(err) && !netRetried && ctx.Err() == nil {
				netRetried = true
				delay := e.Backoff.NextDelay(1)
				e.logInfo("retrying request after network failure",
					"method", method, "url", target, "delay_ms", delay.Milliseconds(), "request_id", requestID)
				if sleepErr := e.sleep(ctx, delay); sleepErr != nil {
					return core.Response{}, transportWrapError(
						sleepErr,
						goerrors.CategoryOperation,
						"transport: request cancelled during retry backoff",
						http.StatusBadGateway,
						map[string]any{"method": method, "url": target},
					)
				}
				// the resend starts over with a fresh credential lookup
				fetchToken = !req.Anonymous && e.Sessions != nil
				continue
			}
			return core.Response{}, err
		}

		if response.StatusCode == http.StatusUnauthorized && !req.Anonymous && !authRetried && e.Sessions != nil {
			authRetried = true
			refreshed, refreshErr := e.Sessions.Refresh(ctx)
			if refreshErr != nil {
				e.logError("credential refresh failed, returning unauthorized response",
					"method", method, "url", target, "request_id", requestID, "error", refreshErr)
				return response, nil
			}
			token = refreshed
			continue
		}

		return response, nil
	}
}

// Execute is the JSON convenience surface: it decodes a successful body into
// a generic map, treats undecodable 2xx bodies as an empty result, and turns
// non-2xx statuses into classified errors.
func (e *Executor) Execute(ctx context.Context, path string, opts core.RequestOptions) (map[string]any, error) {
	response, err := e.Do(ctx, core.Request{
		Method:    opts.Method,
		Path:      path,
		Headers:   opts.Headers,
		Body:      opts.Body,
		Anonymous: opts.Anonymous,
	})
	if err != nil {
		return nil, err
	}
	if statusErr := core.ResponseError(response.StatusCode, response.Body); statusErr != nil {
		return nil, statusErr
	}

	payload := map[string]any{}
	if len(bytes.TrimSpace(response.Body)) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(response.Body, &payload); err != nil {
		e.logInfo("response body is not a json object, returning empty payload",
			"path", path, "status_code", response.StatusCode)
		return map[string]any{}, nil
	}
	return payload, nil
}

func (e *Executor) send(
	ctx context.Context,
	method string,
	target string,
	req core.Request,
	token string,
	requestID string,
) (core.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(req.Body))
	if err != nil {
		return core.Response{}, transportWrapError(
			err,
			goerrors.CategoryBadInput,
			"transport: create http request",
			http.StatusBadRequest,
			map[string]any{"method": method, "url": target},
		)
	}

	for key, value := range e.DefaultHeaders {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	for key, value := range req.Headers {
		if strings.TrimSpace(key) == "" {
			continue
		}
		httpReq.Header.Set(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	httpReq.Header.Set(requestIDHeader, requestID)
	if !req.Anonymous && strings.TrimSpace(token) != "" {
		httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	startedAt := time.Now().UTC()
	httpRes, err := e.Client.Do(httpReq)
	if err != nil {
		return core.Response{}, networkError(
			err,
			"transport: execute http request",
			map[string]any{"method": method, "url": target},
		)
	}
	defer httpRes.Body.Close()

	maxBodyBytes := e.MaxResponseBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultResponseBodyLimit
	}
	// the server already received and answered this request, so a body read
	// failure must not trip the network retry and resend it
	body, err := io.ReadAll(io.LimitReader(httpRes.Body, maxBodyBytes+1))
	if err != nil {
		return core.Response{}, transportWrapError(
			err,
			goerrors.CategoryExternal,
			"transport: read response body",
			http.StatusBadGateway,
			map[string]any{"method": method, "url": target, "status_code": httpRes.StatusCode},
		)
	}
	if int64(len(body)) > maxBodyBytes {
		return core.Response{}, transportError(
			fmt.Sprintf("transport: response body exceeds limit of %d bytes", maxBodyBytes),
			goerrors.CategoryExternal,
			http.StatusBadGateway,
			map[string]any{
				"method":           method,
				"url":              target,
				"status_code":      httpRes.StatusCode,
				"response_limit_b": maxBodyBytes,
			},
		)
	}

	return core.Response{
		StatusCode: httpRes.StatusCode,
		Headers:    flattenHeaders(httpRes.Header),
		Body:       body,
		Metadata: map[string]any{
			"duration_ms": time.Since(startedAt).Milliseconds(),
			"request_id":  requestID,
		},
	}, nil
}

// resolveURL passes absolute URLs through and joins relative paths onto the
// configured base with exactly one slash at the seam.
func (e *Executor) resolveURL(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed, nil
	}
	base := strings.TrimSpace(e.BaseURL)
	if base == "" {
		return "", transportError(
			"transport: executor requires a base url for relative paths",
			goerrors.CategoryBadInput,
			http.StatusBadRequest,
			map[string]any{"path": trimmed},
		)
	}
	if trimmed == "" {
		return base, nil
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(trimmed, "/"), nil
}

func (e *Executor) logInfo(msg string, args ...any) {
	if e == nil || e.Logger == nil {
		return
	}
	e.Logger.Info(msg, args...)
}

func (e *Executor) logError(msg string, args ...any) {
	if e == nil || e.Logger == nil {
		return
	}
	e.Logger.Error(msg, args...)
}

func flattenHeaders(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return map[string]string{}
	}
	flat := make(map[string]string, len(headers))
	for key, values := range headers {
		if len(values) == 0 {
			flat[key] = ""
			continue
		}
		flat[key] = strings.Join(values, ",")
	}
	return flat
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var _ core.Requester = (*Executor)(nil)
