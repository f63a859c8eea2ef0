package query

import (
	"context"
	"time"

	"github.com/goliatone/go-memberapi/core"
)

type MemberReader interface {
	GetMember(ctx context.Context, memberID string) (core.Member, error)
	ListMembers(ctx context.Context, filter core.MemberFilter) ([]core.Member, error)
}

type EnrollmentReader interface {
	GetEnrollment(ctx context.Context, enrollmentID string) (core.Enrollment, error)
}

type LeadReader interface {
	ListLeads(ctx context.Context, filter core.LeadFilter) ([]core.Lead, error)
	ExportLeadsCSV(ctx context.Context, filter core.LeadFilter) ([]byte, error)
}

type PaymentReader interface {
	ListPayments(ctx context.Context, filter core.PaymentFilter) ([]core.Payment, error)
	PaymentSummary(ctx context.Context, from time.Time, to time.Time) (core.PaymentSummary, error)
}

type AnalyticsReader interface {
	EnrollmentStats(ctx context.Context) (core.EnrollmentStats, error)
}

type GoalReader interface {
	ListPerformanceGoals(ctx context.Context, agentID string) ([]core.PerformanceGoal, error)
}

type GetMemberQuery struct {
	reader MemberReader
}

func NewGetMemberQuery(reader MemberReader) *GetMemberQuery {
	return &GetMemberQuery{reader: reader}
}

func (q *GetMemberQuery) Query(ctx context.Context, msg GetMemberMessage) (core.Member, error) {
	if q == nil || q.reader == nil {
		return core.Member{}, queryDependencyError("query: member reader is required")
	}
	return q.reader.GetMember(ctx, msg.MemberID)
}

type ListMembersQuery struct {
	reader MemberReader
}

func NewListMembersQuery(reader MemberReader) *ListMembersQuery {
	return &ListMembersQuery{reader: reader}
}

func (q *ListMembersQuery) Query(ctx context.Context, msg ListMembersMessage) ([]core.Member, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: member reader is required")
	}
	return q.reader.ListMembers(ctx, msg.Filter)
}

type GetEnrollmentQuery struct {
	reader EnrollmentReader
}

func NewGetEnrollmentQuery(reader EnrollmentReader) *GetEnrollmentQuery {
	return &GetEnrollmentQuery{reader: reader}
}

func (q *GetEnrollmentQuery) Query(ctx context.Context, msg GetEnrollmentMessage) (core.Enrollment, error) {
	if q == nil || q.reader == nil {
		return core.Enrollment{}, queryDependencyError("query: enrollment reader is required")
	}
	return q.reader.GetEnrollment(ctx, msg.EnrollmentID)
}

type ListLeadsQuery struct {
	reader LeadReader
}

func NewListLeadsQuery(reader LeadReader) *ListLeadsQuery {
	return &ListLeadsQuery{reader: reader}
}

func (q *ListLeadsQuery) Query(ctx context.Context, msg ListLeadsMessage) ([]core.Lead, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: lead reader is required")
	}
	return q.reader.ListLeads(ctx, msg.Filter)
}

type ExportLeadsCSVQuery struct {
	reader LeadReader
}

func NewExportLeadsCSVQuery(reader LeadReader) *ExportLeadsCSVQuery {
	return &ExportLeadsCSVQuery{reader: reader}
}

func (q *ExportLeadsCSVQuery) Query(ctx context.Context, msg ExportLeadsCSVMessage) ([]byte, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: lead reader is required")
	}
	return q.reader.ExportLeadsCSV(ctx, msg.Filter)
}

type ListPaymentsQuery struct {
	reader PaymentReader
}

func NewListPaymentsQuery(reader PaymentReader) *ListPaymentsQuery {
	return &ListPaymentsQuery{reader: reader}
}

func (q *ListPaymentsQuery) Query(ctx context.Context, msg ListPaymentsMessage) ([]core.Payment, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: payment reader is required")
	}
	return q.reader.ListPayments(ctx, msg.Filter)
}

type PaymentSummaryQuery struct {
	reader PaymentReader
}

func NewPaymentSummaryQuery(reader PaymentReader) *PaymentSummaryQuery {
	return &PaymentSummaryQuery{reader: reader}
}

func (q *PaymentSummaryQuery) Query(ctx context.Context, msg PaymentSummaryMessage) (core.PaymentSummary, error) {
	if q == nil || q.reader == nil {
		return core.PaymentSummary{}, queryDependencyError("query: payment reader is required")
	}
	return q.reader.PaymentSummary(ctx, msg.From, msg.To)
}

type EnrollmentStatsQuery struct {
	reader AnalyticsReader
}

func NewEnrollmentStatsQuery(reader AnalyticsReader) *EnrollmentStatsQuery {
	return &EnrollmentStatsQuery{reader: reader}
}

func (q *EnrollmentStatsQuery) Query(ctx context.Context, msg EnrollmentStatsMessage) (core.EnrollmentStats, error) {
	if q == nil || q.reader == nil {
		return core.EnrollmentStats{}, queryDependencyError("query: analytics reader is required")
	}
	return q.reader.EnrollmentStats(ctx)
}

type ListPerformanceGoalsQuery struct {
	reader GoalReader
}

func NewListPerformanceGoalsQuery(reader GoalReader) *ListPerformanceGoalsQuery {
	return &ListPerformanceGoalsQuery{reader: reader}
}

func (q *ListPerformanceGoalsQuery) Query(
	ctx context.Context,
	msg ListPerformanceGoalsMessage,
) ([]core.PerformanceGoal, error) {
	if q == nil || q.reader == nil {
		return nil, queryDependencyError("query: goal reader is required")
	}
	return q.reader.ListPerformanceGoals(ctx, msg.AgentID)
}
