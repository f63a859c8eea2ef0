package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-memberapi/core"
)

const (
	TypeGetMember            = "memberapi.query.member.get"
	TypeListMembers          = "memberapi.query.member.list"
	TypeGetEnrollment        = "memberapi.query.enrollment.get"
	TypeListLeads            = "memberapi.query.lead.list"
	TypeExportLeadsCSV       = "memberapi.query.lead.export_csv"
	TypeListPayments         = "memberapi.query.payment.list"
	TypePaymentSummary       = "memberapi.query.payment.summary"
	TypeEnrollmentStats      = "memberapi.query.analytics.enrollment_stats"
	TypeListPerformanceGoals = "memberapi.query.goal.list"
)

type GetMemberMessage struct {
	MemberID string
}

func (GetMemberMessage) Type() string { return TypeGetMember }

func (m GetMemberMessage) Validate() error {
	if strings.TrimSpace(m.MemberID) == "" {
		return fmt.Errorf("query: member id is required")
	}
	return nil
}

type ListMembersMessage struct {
	Filter core.MemberFilter
}

func (ListMembersMessage) Type() string { return TypeListMembers }

func (m ListMembersMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}

type GetEnrollmentMessage struct {
	EnrollmentID string
}

func (GetEnrollmentMessage) Type() string { return TypeGetEnrollment }

func (m GetEnrollmentMessage) Validate() error {
	if strings.TrimSpace(m.EnrollmentID) == "" {
		return fmt.Errorf("query: enrollment id is required")
	}
	return nil
}

type ListLeadsMessage struct {
	Filter core.LeadFilter
}

func (ListLeadsMessage) Type() string { return TypeListLeads }

func (m ListLeadsMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}

type ExportLeadsCSVMessage struct {
	Filter core.LeadFilter
}

func (ExportLeadsCSVMessage) Type() string { return TypeExportLeadsCSV }

func (m ExportLeadsCSVMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}

type ListPaymentsMessage struct {
	Filter core.PaymentFilter
}

func (ListPaymentsMessage) Type() string { return TypeListPayments }

func (m ListPaymentsMessage) Validate() error {
	if m.Filter.Page < 0 {
		return fmt.Errorf("query: page must be >= 0")
	}
	if m.Filter.PerPage < 0 {
		return fmt.Errorf("query: per_page must be >= 0")
	}
	return nil
}

type PaymentSummaryMessage struct {
	From time.Time
	To   time.Time
}

func (PaymentSummaryMessage) Type() string { return TypePaymentSummary }

func (m PaymentSummaryMessage) Validate() error {
	if !m.From.IsZero() && !m.To.IsZero() && m.To.Before(m.From) {
		return fmt.Errorf("query: summary period end must not precede its start")
	}
	return nil
}

type EnrollmentStatsMessage struct{}

func (EnrollmentStatsMessage) Type() string { return TypeEnrollmentStats }

func (EnrollmentStatsMessage) Validate() error { return nil }

type ListPerformanceGoalsMessage struct {
	AgentID string
}

func (ListPerformanceGoalsMessage) Type() string { return TypeListPerformanceGoals }

func (m ListPerformanceGoalsMessage) Validate() error {
	if strings.TrimSpace(m.AgentID) == "" {
		return fmt.Errorf("query: agent id is required")
	}
	return nil
}
