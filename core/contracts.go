package core

import (
	"context"
	"encoding/json"
	"time"

	glog "github.com/goliatone/go-logger/glog"
)

// Request describes one outbound call to the membership backend. Path may be
// an absolute URL or a root-relative path resolved against the configured
// base URL. Anonymous skips the session lookup and the Authorization header.
type Request struct {
	Method    string
	Path      string
	Headers   map[string]string
	Body      []byte
	Anonymous bool
}

type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
	Metadata   map[string]any
}

// RequestOptions mirrors Request minus the path, for the JSON convenience
// surface.
type RequestOptions struct {
	Method    string
	Headers   map[string]string
	Body      []byte
	Anonymous bool
}

// Requester performs exactly one logical HTTP call with credential
// attachment and bounded retries. Non-2xx responses come back as values;
// only transport failures (after the single network retry) are errors.
type Requester interface {
	Do(ctx context.Context, req Request) (Response, error)
}

// SessionProvider exposes the current bearer credential. Session must be
// cheap and safe to call on every request; an anonymous session is ("", nil).
// Refresh forces a new credential and must complete before any retried
// request is sent.
type SessionProvider interface {
	Session(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}

type SessionStore interface {
	Save(ctx context.Context, in SaveSessionInput) (Session, error)
	GetCurrent(ctx context.Context, subject string) (Session, error)
	Revoke(ctx context.Context, subject string, reason string) error
}

// UnauthorizedPolicy decides how the cached query surface treats a 401:
// surface the error, or resolve to nil for anonymous-tolerant views.
type UnauthorizedPolicy string

const (
	UnauthorizedError UnauthorizedPolicy = "error"
	UnauthorizedNil   UnauthorizedPolicy = "nil"
)

// QueryKey identifies one cached read. The first element is the request
// path; remaining elements only discriminate the cache entry.
type QueryKey []any

// QueryFetcher is the key-based fetch contract served to the cache layer.
// It resolves to a usable value, nil (only under UnauthorizedNil), or an
// error, never a silently swallowed failure.
type QueryFetcher interface {
	Fetch(ctx context.Context, key QueryKey, policy UnauthorizedPolicy) (json.RawMessage, error)
	Invalidate(ctx context.Context, key QueryKey) error
}

type MetricsRecorder interface {
	IncCounter(ctx context.Context, name string, value int64, tags map[string]string)
	ObserveHistogram(ctx context.Context, name string, value float64, tags map[string]string)
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger

type RepositoryStoreFactory interface {
	BuildStores(persistenceClient any) (StoreProvider, error)
}

type StoreProvider interface {
	SessionStore() SessionStore
}

type JobExecutionMessage struct {
	JobID          string
	ScriptPath     string
	Parameters     map[string]any
	IdempotencyKey string
	DedupPolicy    string
}

type JobNackOptions struct {
	Delay      time.Duration
	Requeue    bool
	DeadLetter bool
	Reason     string
}

type JobEnqueuer interface {
	Enqueue(ctx context.Context, msg *JobExecutionMessage) error
}

type JobDelivery interface {
	Message() *JobExecutionMessage
	Ack(ctx context.Context) error
	Nack(ctx context.Context, opts JobNackOptions) error
}

type JobDequeuer interface {
	Dequeue(ctx context.Context) (JobDelivery, error)
}

type JobWorkerHook interface {
	OnStart(ctx context.Context, event JobWorkerEvent)
	OnSuccess(ctx context.Context, event JobWorkerEvent)
	OnFailure(ctx context.Context, event JobWorkerEvent)
	OnRetry(ctx context.Context, event JobWorkerEvent)
}

type JobWorkerEvent struct {
	Message   *JobExecutionMessage
	Attempt   int
	Delay     time.Duration
	Err       error
	StartedAt time.Time
	Duration  time.Duration
}
