package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	leadsPath = "/api/leads"
	goalsPath = "/api/goals"
)

// ListLeads serves the agent CRM view. Anonymous sessions resolve to an
// empty list instead of failing, so the lead board renders pre-login.
func (s *Service) ListLeads(ctx context.Context, filter LeadFilter) ([]Lead, error) {
	if s == nil {
		return nil, serviceNilError()
	}
	startedAt := time.Now().UTC()

	path := filter.QueryPath(leadsPath)
	raw, err := s.fetcher.Fetch(ctx, QueryKey{path}, UnauthorizedNil)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.list", err, map[string]any{"agent_id": filter.AgentID})
		return nil, err
	}
	if raw == nil {
		s.observeOperation(ctx, startedAt, "lead.list", nil, map[string]any{"agent_id": filter.AgentID, "anonymous": true})
		return nil, nil
	}
	leads, err := decodeInto[[]Lead](raw)
	s.observeOperation(ctx, startedAt, "lead.list", err, map[string]any{"agent_id": filter.AgentID, "count": len(leads)})
	if err != nil {
		return nil, s.mapError(err)
	}
	return leads, nil
}

func (s *Service) CreateLead(ctx context.Context, in CreateLeadInput) (Lead, error) {
	if s == nil {
		return Lead{}, serviceNilError()
	}
	startedAt := time.Now().UTC()
	if err := in.Validate(); err != nil {
		mapped := s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.create", mapped, map[string]any{"agent_id": in.AgentID})
		return Lead{}, mapped
	}

	res, err := s.doJSON(ctx, http.MethodPost, leadsPath, in)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.create", err, map[string]any{"agent_id": in.AgentID})
		return Lead{}, err
	}
	lead, err := decodeInto[Lead](res.Body)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.create", err, map[string]any{"agent_id": in.AgentID})
		return Lead{}, err
	}

	s.invalidate(ctx, QueryKey{leadsPath})
	s.observeOperation(ctx, startedAt, "lead.create", nil, map[string]any{"agent_id": in.AgentID, "lead_id": lead.ID})
	return lead, nil
}

func (s *Service) UpdateLeadStatus(ctx context.Context, leadID string, status LeadStatus) (Lead, error) {
	if s == nil {
		return Lead{}, serviceNilError()
	}
	startedAt := time.Now().UTC()
	id := strings.TrimSpace(leadID)
	if id == "" {
		err := s.mapError(goerrors.New("core: lead id is required", goerrors.CategoryBadInput))
		s.observeOperation(ctx, startedAt, "lead.update_status", err, nil)
		return Lead{}, err
	}
	if err := status.Validate(); err != nil {
		mapped := s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.update_status", mapped, map[string]any{"lead_id": id})
		return Lead{}, mapped
	}

	payload := map[string]string{"status": string(status)}
	res, err := s.doJSON(ctx, http.MethodPatch, leadsPath+"/"+id+"/status", payload)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.update_status", err, map[string]any{"lead_id": id})
		return Lead{}, err
	}
	lead, err := decodeInto[Lead](res.Body)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.update_status", err, map[string]any{"lead_id": id})
		return Lead{}, err
	}

	s.invalidate(ctx, QueryKey{leadsPath})
	s.observeOperation(ctx, startedAt, "lead.update_status", nil, map[string]any{"lead_id": id, "lead_status": string(status)})
	return lead, nil
}

// ExportLeadsCSV renders the filtered lead list as a CSV document, matching
// the export download the agent dashboard offers.
func (s *Service) ExportLeadsCSV(ctx context.Context, filter LeadFilter) ([]byte, error) {
	if s == nil {
		return nil, serviceNilError()
	}
	startedAt := time.Now().UTC()

	leads, err := s.ListLeads(ctx, filter)
	if err != nil {
		s.observeOperation(ctx, startedAt, "lead.export_csv", err, map[string]any{"agent_id": filter.AgentID})
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	header := []string{"id", "agent_id", "name", "email", "phone", "status", "notes", "created_at"}
	if err := writer.Write(header); err != nil {
		mapped := s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.export_csv", mapped, nil)
		return nil, mapped
	}
	for _, lead := range leads {
		createdAt := ""
		if lead.CreatedAt != nil {
			createdAt = lead.CreatedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			lead.ID,
			lead.AgentID,
			lead.Name,
			lead.Email,
			lead.Phone,
			string(lead.Status),
			lead.Notes,
			createdAt,
		}
		if err := writer.Write(record); err != nil {
			mapped := s.mapError(err)
			s.observeOperation(ctx, startedAt, "lead.export_csv", mapped, nil)
			return nil, mapped
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		mapped := s.mapError(err)
		s.observeOperation(ctx, startedAt, "lead.export_csv", mapped, nil)
		return nil, mapped
	}

	s.observeOperation(ctx, startedAt, "lead.export_csv", nil, map[string]any{
		"agent_id": filter.AgentID,
		"count":    len(leads),
	})
	return buf.Bytes(), nil
}

func (s *Service) SetPerformanceGoal(ctx context.Context, in SetPerformanceGoalInput) (PerformanceGoal, error) {
	if s == nil {
		return PerformanceGoal{}, serviceNilError()
	}
	startedAt := time.Now().UTC()
	if err := in.Validate(); err != nil {
		mapped := s.mapError(err)
		s.observeOperation(ctx, startedAt, "goal.set", mapped, map[string]any{"agent_id": in.AgentID})
		return PerformanceGoal{}, mapped
	}

	res, err := s.doJSON(ctx, http.MethodPut, goalsPath, in)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "goal.set", err, map[string]any{"agent_id": in.AgentID})
		return PerformanceGoal{}, err
	}
	goal, err := decodeInto[PerformanceGoal](res.Body)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "goal.set", err, map[string]any{"agent_id": in.AgentID})
		return PerformanceGoal{}, err
	}

	s.invalidate(ctx, QueryKey{goalsPath})
	s.invalidate(ctx, QueryKey{goalsQueryPath(in.AgentID)})
	s.observeOperation(ctx, startedAt, "goal.set", nil, map[string]any{"agent_id": in.AgentID, "goal_id": goal.ID})
	return goal, nil
}

func (s *Service) ListPerformanceGoals(ctx context.Context, agentID string) ([]PerformanceGoal, error) {
	if s == nil {
		return nil, serviceNilError()
	}
	startedAt := time.Now().UTC()
	id := strings.TrimSpace(agentID)
	if id == "" {
		err := s.mapError(goerrors.New("core: agent id is required", goerrors.CategoryBadInput))
		s.observeOperation(ctx, startedAt, "goal.list", err, nil)
		return nil, err
	}

	raw, err := s.fetcher.Fetch(ctx, QueryKey{goalsQueryPath(id)}, UnauthorizedError)
	if err != nil {
		err = s.mapError(err)
		s.observeOperation(ctx, startedAt, "goal.list", err, map[string]any{"agent_id": id})
		return nil, err
	}
	goals, err := decodeInto[[]PerformanceGoal](raw)
	s.observeOperation(ctx, startedAt, "goal.list", err, map[string]any{"agent_id": id, "count": len(goals)})
	if err != nil {
		return nil, s.mapError(err)
	}
	return goals, nil
}

func goalsQueryPath(agentID string) string {
	trimmed := strings.TrimSpace(agentID)
	if trimmed == "" {
		return goalsPath
	}
	return goalsPath + "?agentId=" + url.QueryEscape(trimmed)
}
