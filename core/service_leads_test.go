package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestListLeads_AnonymousSessionYieldsEmptyBoard(t *testing.T) {
	svc, _, fetcher := newTestService(t)
	fetcher.fetchFn = func(_ context.Context, _ QueryKey, policy UnauthorizedPolicy) (json.RawMessage, error) {
		if policy != UnauthorizedNil {
			t.Fatalf("expected nil policy for lead reads, got %q", policy)
		}
		return nil, nil
	}

	leads, err := svc.ListLeads(context.Background(), LeadFilter{AgentID: "agent_1"})
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if leads != nil {
		t.Fatalf("expected nil lead list for anonymous session, got %v", leads)
	}
}

func TestListLeads_EncodesFilter(t *testing.T) {
	svc, _, fetcher := newTestService(t)
	fetcher.fetchFn = func(_ context.Context, key QueryKey, _ UnauthorizedPolicy) (json.RawMessage, error) {
		want := "/api/leads?agentId=agent_1&status=qualified"
		if fmtKey(key) != want {
			t.Fatalf("expected fetch key %q, got %q", want, fmtKey(key))
		}
		return json.RawMessage(`[{"id":"lead_1","agentId":"agent_1","status":"qualified"}]`), nil
	}

	leads, err := svc.ListLeads(context.Background(), LeadFilter{AgentID: "agent_1", Status: LeadStatusQualified})
	if err != nil {
		t.Fatalf("list leads: %v", err)
	}
	if len(leads) != 1 || leads[0].ID != "lead_1" {
		t.Fatalf("unexpected leads %v", leads)
	}
}

func TestCreateLead_RequiresContactChannel(t *testing.T) {
	svc, requester, _ := newTestService(t)

	_, err := svc.CreateLead(context.Background(), CreateLeadInput{
		AgentID: "agent_1",
		Name:    "Sam Ruiz",
	})
	if err == nil {
		t.Fatalf("expected email-or-phone validation error")
	}
	if len(requester.requests) != 0 {
		t.Fatalf("expected no request on validation failure")
	}
}

func TestCreateLead_PostsAndInvalidatesBoard(t *testing.T) {
	svc, requester, fetcher := newTestService(t)
	requester.doFn = func(_ context.Context, req Request) (Response, error) {
		if req.Method != http.MethodPost || req.Path != "/api/leads" {
			t.Fatalf("unexpected request %s %s", req.Method, req.Path)
		}
		return Response{StatusCode: 201, Body: []byte(`{"id":"lead_1","agentId":"agent_1","status":"new"}`)}, nil
	}

	lead, err := svc.CreateLead(context.Background(), CreateLeadInput{
		AgentID: "agent_1",
		Name:    "Sam Ruiz",
		Phone:   "555-0100",
	})
	if err != nil {
		t.Fatalf("create lead: %v", err)
	}
	if lead.ID != "lead_1" {
		t.Fatalf("expected lead_1, got %q", lead.ID)
	}
	if !containsKey(fetcher.invalidatedKeys(), "/api/leads") {
		t.Fatalf("expected lead board invalidation")
	}
}

func TestUpdateLeadStatus_RejectsUnknownStatus(t *testing.T) {
	svc, requester, _ := newTestService(t)

	_, err := svc.UpdateLeadStatus(context.Background(), "lead_1", LeadStatus("archived"))
	if err == nil {
		t.Fatalf("expected invalid status error")
	}
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) || richErr.Category != goerrors.CategoryBadInput {
		t.Fatalf("expected bad input envelope, got %v", err)
	}
	if len(requester.requests) != 0 {
		t.Fatalf("expected no request for invalid status")
	}
}

func TestUpdateLeadStatus_PatchesStatusEndpoint(t *testing.T) {
	svc, requester, _ := newTestService(t)
	requester.doFn = func(_ context.Context, req Request) (Response, error) {
		if req.Method != http.MethodPatch || req.Path != "/api/leads/lead_1/status" {
			t.Fatalf("unexpected request %s %s", req.Method, req.Path)
		}
		var payload map[string]string
		if err := json.Unmarshal(req.Body, &payload); err != nil {
			t.Fatalf("decode status payload: %v", err)
		}
		if payload["status"] != "contacted" {
			t.Fatalf("expected contacted status, got %q", payload["status"])
		}
		return Response{StatusCode: 200, Body: []byte(`{"id":"lead_1","status":"contacted"}`)}, nil
	}

	lead, err := svc.UpdateLeadStatus(context.Background(), "lead_1", LeadStatusContacted)
	if err != nil {
		t.Fatalf("update lead status: %v", err)
	}
	if lead.Status != LeadStatusContacted {
		t.Fatalf("expected contacted lead, got %q", lead.Status)
	}
}

func TestExportLeadsCSV_RendersFilteredBoard(t *testing.T) {
	svc, _, fetcher := newTestService(t)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fetcher.fetchFn = func(_ context.Context, _ QueryKey, _ UnauthorizedPolicy) (json.RawMessage, error) {
		return mustJSON(t, []Lead{
			{
				ID:        "lead_1",
				AgentID:   "agent_1",
				Name:      "Sam Ruiz",
				Email:     "sam@example.com",
				Status:    LeadStatusNew,
				CreatedAt: &createdAt,
			},
		}), nil
	}

	csvBytes, err := svc.ExportLeadsCSV(context.Background(), LeadFilter{AgentID: "agent_1"})
	if err != nil {
		t.Fatalf("export leads: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvBytes)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one row, got %d lines", len(lines))
	}
	if lines[0] != "id,agent_id,name,email,phone,status,notes,created_at" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "lead_1") || !strings.Contains(lines[1], "2026-03-01T10:00:00Z") {
		t.Fatalf("unexpected row %q", lines[1])
	}
}

func TestExportLeadsCSV_AnonymousSessionYieldsHeaderOnly(t *testing.T) {
	svc, _, fetcher := newTestService(t)
	fetcher.fetchFn = func(_ context.Context, _ QueryKey, _ UnauthorizedPolicy) (json.RawMessage, error) {
		return nil, nil
	}

	csvBytes, err := svc.ExportLeadsCSV(context.Background(), LeadFilter{AgentID: "agent_1"})
	if err != nil {
		t.Fatalf("export leads: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(csvBytes)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected header only, got %d lines", len(lines))
	}
}

func TestSetPerformanceGoal_InvalidatesAgentScopedListing(t *testing.T) {
	svc, requester, fetcher := newTestService(t)
	requester.doFn = func(_ context.Context, req Request) (Response, error) {
		if req.Method != http.MethodPut || req.Path != "/api/goals" {
			t.Fatalf("unexpected request %s %s", req.Method, req.Path)
		}
		return Response{StatusCode: 200, Body: []byte(`{"id":"goal_1","agentId":"agent_1"}`)}, nil
	}

	goal, err := svc.SetPerformanceGoal(context.Background(), SetPerformanceGoalInput{
		AgentID: "agent_1",
		Metric:  "enrollments",
		Target:  12,
		Period:  GoalPeriodMonthly,
	})
	if err != nil {
		t.Fatalf("set goal: %v", err)
	}
	if goal.ID != "goal_1" {
		t.Fatalf("expected goal_1, got %q", goal.ID)
	}

	invalidated := fetcher.invalidatedKeys()
	if !containsKey(invalidated, "/api/goals") {
		t.Fatalf("expected goals listing invalidation, got %v", invalidated)
	}
	if !containsKey(invalidated, "/api/goals?agentId=agent_1") {
		t.Fatalf("expected agent-scoped invalidation, got %v", invalidated)
	}
}

func TestListPerformanceGoals_RequiresAgentID(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ListPerformanceGoals(context.Background(), " ")
	if err == nil {
		t.Fatalf("expected missing agent id error")
	}

	_, err = svc.SetPerformanceGoal(context.Background(), SetPerformanceGoalInput{
		AgentID: "agent_1",
		Metric:  "enrollments",
		Target:  0,
		Period:  GoalPeriodMonthly,
	})
	if err == nil {
		t.Fatalf("expected target validation error")
	}
}
