package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[SubmitEnrollmentMessage]   = (*SubmitEnrollmentCommand)(nil)
	_ gocmd.Commander[UpdateEnrollmentMessage]   = (*UpdateEnrollmentCommand)(nil)
	_ gocmd.Commander[CancelEnrollmentMessage]   = (*CancelEnrollmentCommand)(nil)
	_ gocmd.Commander[CreateLeadMessage]         = (*CreateLeadCommand)(nil)
	_ gocmd.Commander[UpdateLeadStatusMessage]   = (*UpdateLeadStatusCommand)(nil)
	_ gocmd.Commander[SetPerformanceGoalMessage] = (*SetPerformanceGoalCommand)(nil)
	_ gocmd.Commander[RefreshSessionMessage]     = (*RefreshSessionCommand)(nil)
	_ gocmd.Commander[RevokeSessionMessage]      = (*RevokeSessionCommand)(nil)
)
