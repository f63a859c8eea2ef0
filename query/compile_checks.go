package query

import (
	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-memberapi/core"
)

var (
	_ gocmd.Querier[GetMemberMessage, core.Member]                       = (*GetMemberQuery)(nil)
	_ gocmd.Querier[ListMembersMessage, []core.Member]                   = (*ListMembersQuery)(nil)
	_ gocmd.Querier[GetEnrollmentMessage, core.Enrollment]               = (*GetEnrollmentQuery)(nil)
	_ gocmd.Querier[ListLeadsMessage, []core.Lead]                       = (*ListLeadsQuery)(nil)
	_ gocmd.Querier[ExportLeadsCSVMessage, []byte]                       = (*ExportLeadsCSVQuery)(nil)
	_ gocmd.Querier[ListPaymentsMessage, []core.Payment]                 = (*ListPaymentsQuery)(nil)
	_ gocmd.Querier[PaymentSummaryMessage, core.PaymentSummary]          = (*PaymentSummaryQuery)(nil)
	_ gocmd.Querier[EnrollmentStatsMessage, core.EnrollmentStats]        = (*EnrollmentStatsQuery)(nil)
	_ gocmd.Querier[ListPerformanceGoalsMessage, []core.PerformanceGoal] = (*ListPerformanceGoalsQuery)(nil)
)
