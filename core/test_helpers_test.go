package core

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
)

func newTestService(t *testing.T, options ...Option) (*Service, *stubRequester, *stubFetcher) {
	t.Helper()

	requester := &stubRequester{}
	fetcher := &stubFetcher{}
	base := []Option{
		WithRequester(requester),
		WithQueryFetcher(fetcher),
	}
	svc, err := NewService(Config{BaseURL: "https://api.example.com"}, append(base, options...)...)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, requester, fetcher
}

type stubRequester struct {
	mu       sync.Mutex
	requests []Request
	doFn     func(ctx context.Context, req Request) (Response, error)
}

func (s *stubRequester) Do(ctx context.Context, req Request) (Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.doFn == nil {
		return Response{StatusCode: 200, Body: []byte(`{}`)}, nil
	}
	return s.doFn(ctx, req)
}

func (s *stubRequester) last() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

type stubFetcher struct {
	mu          sync.Mutex
	fetched     []string
	invalidated []string
	fetchFn     func(ctx context.Context, key QueryKey, policy UnauthorizedPolicy) (json.RawMessage, error)
}

func (s *stubFetcher) Fetch(ctx context.Context, key QueryKey, policy UnauthorizedPolicy) (json.RawMessage, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, fmtKey(key))
	s.mu.Unlock()
	if s.fetchFn == nil {
		return json.RawMessage(`{}`), nil
	}
	return s.fetchFn(ctx, key, policy)
}

func (s *stubFetcher) Invalidate(_ context.Context, key QueryKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, fmtKey(key))
	return nil
}

func (s *stubFetcher) invalidatedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.invalidated...)
}

type recordingMetrics struct {
	mu         sync.Mutex
	counters   []metricSample
	histograms []metricSample
}

type metricSample struct {
	name string
	tags map[string]string
}

func (r *recordingMetrics) IncCounter(_ context.Context, name string, _ int64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters = append(r.counters, metricSample{name: name, tags: tags})
}

func (r *recordingMetrics) ObserveHistogram(_ context.Context, name string, _ float64, tags map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histograms = append(r.histograms, metricSample{name: name, tags: tags})
}

type logEntry struct {
	level   string
	message string
	args    []any
}

type capturingTestLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *capturingTestLogger) record(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, message: msg, args: append([]any(nil), args...)})
}

func (l *capturingTestLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *capturingTestLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *capturingTestLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *capturingTestLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *capturingTestLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *capturingTestLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *capturingTestLogger) WithContext(context.Context) Logger { return l }

func (l *capturingTestLogger) find(level string) []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []logEntry
	for _, entry := range l.entries {
		if entry.level == level {
			out = append(out, entry)
		}
	}
	return out
}

func containsKey(keys []string, want string) bool {
	for _, key := range keys {
		if key == want {
			return true
		}
	}
	return false
}

func mustJSON(t *testing.T, value any) []byte {
	t.Helper()
	encoded, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal %T: %v", value, err)
	}
	return encoded
}
