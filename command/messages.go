package command

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-memberapi/core"
)

const (
	TypeSubmitEnrollment   = "memberapi.command.enrollment.submit"
	TypeUpdateEnrollment   = "memberapi.command.enrollment.update"
	TypeCancelEnrollment   = "memberapi.command.enrollment.cancel"
	TypeCreateLead         = "memberapi.command.lead.create"
	TypeUpdateLeadStatus   = "memberapi.command.lead.update_status"
	TypeSetPerformanceGoal = "memberapi.command.goal.set"
	TypeRefreshSession     = "memberapi.command.session.refresh"
	TypeRevokeSession      = "memberapi.command.session.revoke"
)

type SubmitEnrollmentMessage struct {
	Input core.SubmitEnrollmentInput
}

func (SubmitEnrollmentMessage) Type() string { return TypeSubmitEnrollment }

func (m SubmitEnrollmentMessage) Validate() error {
	return m.Input.Validate()
}

type UpdateEnrollmentMessage struct {
	Input core.UpdateEnrollmentInput
}

func (UpdateEnrollmentMessage) Type() string { return TypeUpdateEnrollment }

func (m UpdateEnrollmentMessage) Validate() error {
	return m.Input.Validate()
}

type CancelEnrollmentMessage struct {
	EnrollmentID string
	Reason       string
}

func (CancelEnrollmentMessage) Type() string { return TypeCancelEnrollment }

func (m CancelEnrollmentMessage) Validate() error {
	if strings.TrimSpace(m.EnrollmentID) == "" {
		return fmt.Errorf("command: enrollment id is required")
	}
	return nil
}

type CreateLeadMessage struct {
	Input core.CreateLeadInput
}

func (CreateLeadMessage) Type() string { return TypeCreateLead }

func (m CreateLeadMessage) Validate() error {
	return m.Input.Validate()
}

type UpdateLeadStatusMessage struct {
	LeadID string
	Status core.LeadStatus
}

func (UpdateLeadStatusMessage) Type() string { return TypeUpdateLeadStatus }

func (m UpdateLeadStatusMessage) Validate() error {
	if strings.TrimSpace(m.LeadID) == "" {
		return fmt.Errorf("command: lead id is required")
	}
	return m.Status.Validate()
}

type SetPerformanceGoalMessage struct {
	Input core.SetPerformanceGoalInput
}

func (SetPerformanceGoalMessage) Type() string { return TypeSetPerformanceGoal }

func (m SetPerformanceGoalMessage) Validate() error {
	return m.Input.Validate()
}

type RefreshSessionMessage struct{}

func (RefreshSessionMessage) Type() string { return TypeRefreshSession }

func (RefreshSessionMessage) Validate() error { return nil }

type RevokeSessionMessage struct {
	Subject string
	Reason  string
}

func (RevokeSessionMessage) Type() string { return TypeRevokeSession }

func (m RevokeSessionMessage) Validate() error {
	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("command: session subject is required")
	}
	return nil
}
