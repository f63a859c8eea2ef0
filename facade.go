package memberapi

import (
	"fmt"

	memberapicommand "github.com/goliatone/go-memberapi/command"
	"github.com/goliatone/go-memberapi/core"
	memberapiquery "github.com/goliatone/go-memberapi/query"
)

type CommandQueryService interface {
	memberapicommand.MutatingService
	memberapiquery.MemberReader
	memberapiquery.EnrollmentReader
	memberapiquery.LeadReader
	memberapiquery.PaymentReader
	memberapiquery.AnalyticsReader
	memberapiquery.GoalReader
}

var _ CommandQueryService = (*core.Service)(nil)

type Commands struct {
	SubmitEnrollment   *memberapicommand.SubmitEnrollmentCommand
	UpdateEnrollment   *memberapicommand.UpdateEnrollmentCommand
	CancelEnrollment   *memberapicommand.CancelEnrollmentCommand
	CreateLead         *memberapicommand.CreateLeadCommand
	UpdateLeadStatus   *memberapicommand.UpdateLeadStatusCommand
	SetPerformanceGoal *memberapicommand.SetPerformanceGoalCommand
	RefreshSession     *memberapicommand.RefreshSessionCommand
	RevokeSession      *memberapicommand.RevokeSessionCommand
}

type Queries struct {
	GetMember            *memberapiquery.GetMemberQuery
	ListMembers          *memberapiquery.ListMembersQuery
	GetEnrollment        *memberapiquery.GetEnrollmentQuery
	ListLeads            *memberapiquery.ListLeadsQuery
	ExportLeadsCSV       *memberapiquery.ExportLeadsCSVQuery
	ListPayments         *memberapiquery.ListPaymentsQuery
	PaymentSummary       *memberapiquery.PaymentSummaryQuery
	EnrollmentStats      *memberapiquery.EnrollmentStatsQuery
	ListPerformanceGoals *memberapiquery.ListPerformanceGoalsQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

type FacadeOption func(*facadeOptions)

type facadeOptions struct {
	refresher memberapicommand.SessionRefresher
	revoker   memberapicommand.SessionRevoker
}

// WithSessionRefresher wires the session refresh command to a provider
// capable of minting fresh access tokens.
func WithSessionRefresher(refresher memberapicommand.SessionRefresher) FacadeOption {
	return func(options *facadeOptions) {
		options.refresher = refresher
	}
}

// WithSessionRevoker wires the session revoke command to a session store
// or another component able to retire persisted sessions.
func WithSessionRevoker(revoker memberapicommand.SessionRevoker) FacadeOption {
	return func(options *facadeOptions) {
		options.revoker = revoker
	}
}

func NewFacade(service CommandQueryService, opts ...FacadeOption) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("memberapi: command/query service is required")
	}
	cfg := facadeOptions{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	refresher := cfg.refresher
	if refresher == nil {
		refresher = resolveSessionRefresher(service)
	}
	revoker := cfg.revoker
	if revoker == nil {
		revoker = resolveSessionRevoker(service)
	}

	facade := &Facade{service: service}
	facade.commands = Commands{
		SubmitEnrollment:   memberapicommand.NewSubmitEnrollmentCommand(service),
		UpdateEnrollment:   memberapicommand.NewUpdateEnrollmentCommand(service),
		CancelEnrollment:   memberapicommand.NewCancelEnrollmentCommand(service),
		CreateLead:         memberapicommand.NewCreateLeadCommand(service),
		UpdateLeadStatus:   memberapicommand.NewUpdateLeadStatusCommand(service),
		SetPerformanceGoal: memberapicommand.NewSetPerformanceGoalCommand(service),
	}
	if refresher != nil {
		facade.commands.RefreshSession = memberapicommand.NewRefreshSessionCommand(refresher)
	}
	if revoker != nil {
		facade.commands.RevokeSession = memberapicommand.NewRevokeSessionCommand(revoker)
	}
	facade.queries = Queries{
		GetMember:            memberapiquery.NewGetMemberQuery(service),
		ListMembers:          memberapiquery.NewListMembersQuery(service),
		GetEnrollment:        memberapiquery.NewGetEnrollmentQuery(service),
		ListLeads:            memberapiquery.NewListLeadsQuery(service),
		ExportLeadsCSV:       memberapiquery.NewExportLeadsCSVQuery(service),
		ListPayments:         memberapiquery.NewListPaymentsQuery(service),
		PaymentSummary:       memberapiquery.NewPaymentSummaryQuery(service),
		EnrollmentStats:      memberapiquery.NewEnrollmentStatsQuery(service),
		ListPerformanceGoals: memberapiquery.NewListPerformanceGoalsQuery(service),
	}

	return facade, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

func resolveSessionRefresher(service CommandQueryService) memberapicommand.SessionRefresher {
	if refresher, ok := service.(memberapicommand.SessionRefresher); ok {
		return refresher
	}
	return nil
}

func resolveSessionRevoker(service CommandQueryService) memberapicommand.SessionRevoker {
	if revoker, ok := service.(memberapicommand.SessionRevoker); ok {
		return revoker
	}
	provider, ok := service.(interface {
		SessionStore() core.SessionStore
	})
	if !ok {
		return nil
	}
	store := provider.SessionStore()
	if store == nil {
		return nil
	}
	return store
}
