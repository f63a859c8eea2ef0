package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestObserveOperation_RecordsMetricsAndLogs(t *testing.T) {
	metrics := &recordingMetrics{}
	logger := &capturingTestLogger{}
	svc, _, fetcher := newTestService(t, WithMetricsRecorder(metrics), WithLogger(logger))
	fetcher.fetchFn = func(context.Context, QueryKey, UnauthorizedPolicy) (json.RawMessage, error) {
		return json.RawMessage(`{"id":"mem_1"}`), nil
	}

	if _, err := svc.GetMember(context.Background(), "mem_1"); err != nil {
		t.Fatalf("get member: %v", err)
	}

	if len(metrics.counters) != 1 {
		t.Fatalf("expected 1 counter, got %d", len(metrics.counters))
	}
	counter := metrics.counters[0]
	if counter.name != "memberapi.member.get.total" {
		t.Fatalf("unexpected counter name %q", counter.name)
	}
	if counter.tags["operation"] != "member.get" || counter.tags["status"] != "success" {
		t.Fatalf("unexpected counter tags %v", counter.tags)
	}
	if counter.tags["member_id"] != "mem_1" {
		t.Fatalf("expected member_id tag, got %v", counter.tags)
	}

	if len(metrics.histograms) != 1 {
		t.Fatalf("expected 1 histogram, got %d", len(metrics.histograms))
	}
	if metrics.histograms[0].name != "memberapi.member.get.duration_ms" {
		t.Fatalf("unexpected histogram name %q", metrics.histograms[0].name)
	}

	infos := logger.find("info")
	if len(infos) == 0 {
		t.Fatalf("expected success log entry")
	}
	if infos[len(infos)-1].message != "member.get succeeded" {
		t.Fatalf("unexpected log message %q", infos[len(infos)-1].message)
	}
}

func TestObserveOperation_FailureLogsError(t *testing.T) {
	metrics := &recordingMetrics{}
	logger := &capturingTestLogger{}
	svc, _, fetcher := newTestService(t, WithMetricsRecorder(metrics), WithLogger(logger))
	fetcher.fetchFn = func(context.Context, QueryKey, UnauthorizedPolicy) (json.RawMessage, error) {
		return nil, errors.New("upstream unavailable")
	}

	if _, err := svc.GetMember(context.Background(), "mem_1"); err == nil {
		t.Fatalf("expected fetch failure")
	}

	if len(metrics.counters) != 1 || metrics.counters[0].tags["status"] != "failure" {
		t.Fatalf("expected failure counter, got %v", metrics.counters)
	}
	if len(logger.find("error")) == 0 {
		t.Fatalf("expected failure log entry")
	}
}

func TestNormalizeOperation(t *testing.T) {
	cases := map[string]string{
		"  Member.Get ": "member.get",
		"lead export":   "lead_export",
		"goal-set":      "goal_set",
	}
	for input, want := range cases {
		if got := normalizeOperation(input); got != want {
			t.Fatalf("normalizeOperation(%q) = %q, want %q", input, got, want)
		}
	}
}
