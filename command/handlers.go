package command

import (
	"context"

	gocmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-memberapi/core"
)

type MutatingService interface {
	SubmitEnrollment(ctx context.Context, in core.SubmitEnrollmentInput) (core.Enrollment, error)
	UpdateEnrollment(ctx context.Context, in core.UpdateEnrollmentInput) (core.Enrollment, error)
	CancelEnrollment(ctx context.Context, enrollmentID string, reason string) error
	CreateLead(ctx context.Context, in core.CreateLeadInput) (core.Lead, error)
	UpdateLeadStatus(ctx context.Context, leadID string, status core.LeadStatus) (core.Lead, error)
	SetPerformanceGoal(ctx context.Context, in core.SetPerformanceGoalInput) (core.PerformanceGoal, error)
}

type SessionRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

type SessionRevoker interface {
	Revoke(ctx context.Context, subject string, reason string) error
}

type SubmitEnrollmentCommand struct {
	service MutatingService
}

func NewSubmitEnrollmentCommand(service MutatingService) *SubmitEnrollmentCommand {
	return &SubmitEnrollmentCommand{service: service}
}

func (c *SubmitEnrollmentCommand) Execute(ctx context.Context, msg SubmitEnrollmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: enrollment service is required")
	}
	out, err := c.service.SubmitEnrollment(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateEnrollmentCommand struct {
	service MutatingService
}

func NewUpdateEnrollmentCommand(service MutatingService) *UpdateEnrollmentCommand {
	return &UpdateEnrollmentCommand{service: service}
}

func (c *UpdateEnrollmentCommand) Execute(ctx context.Context, msg UpdateEnrollmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: enrollment service is required")
	}
	out, err := c.service.UpdateEnrollment(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type CancelEnrollmentCommand struct {
	service MutatingService
}

func NewCancelEnrollmentCommand(service MutatingService) *CancelEnrollmentCommand {
	return &CancelEnrollmentCommand{service: service}
}

func (c *CancelEnrollmentCommand) Execute(ctx context.Context, msg CancelEnrollmentMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: enrollment service is required")
	}
	return c.service.CancelEnrollment(ctx, msg.EnrollmentID, msg.Reason)
}

type CreateLeadCommand struct {
	service MutatingService
}

func NewCreateLeadCommand(service MutatingService) *CreateLeadCommand {
	return &CreateLeadCommand{service: service}
}

func (c *CreateLeadCommand) Execute(ctx context.Context, msg CreateLeadMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: lead service is required")
	}
	out, err := c.service.CreateLead(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type UpdateLeadStatusCommand struct {
	service MutatingService
}

func NewUpdateLeadStatusCommand(service MutatingService) *UpdateLeadStatusCommand {
	return &UpdateLeadStatusCommand{service: service}
}

func (c *UpdateLeadStatusCommand) Execute(ctx context.Context, msg UpdateLeadStatusMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: lead service is required")
	}
	out, err := c.service.UpdateLeadStatus(ctx, msg.LeadID, msg.Status)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type SetPerformanceGoalCommand struct {
	service MutatingService
}

func NewSetPerformanceGoalCommand(service MutatingService) *SetPerformanceGoalCommand {
	return &SetPerformanceGoalCommand{service: service}
}

func (c *SetPerformanceGoalCommand) Execute(ctx context.Context, msg SetPerformanceGoalMessage) error {
	if c == nil || c.service == nil {
		return commandDependencyError("command: goal service is required")
	}
	out, err := c.service.SetPerformanceGoal(ctx, msg.Input)
	if err != nil {
		return err
	}
	storeResult(ctx, out)
	return nil
}

type RefreshSessionCommand struct {
	sessions SessionRefresher
}

func NewRefreshSessionCommand(sessions SessionRefresher) *RefreshSessionCommand {
	return &RefreshSessionCommand{sessions: sessions}
}

func (c *RefreshSessionCommand) Execute(ctx context.Context, _ RefreshSessionMessage) error {
	if c == nil || c.sessions == nil {
		return commandDependencyError("command: session provider is required")
	}
	token, err := c.sessions.Refresh(ctx)
	if err != nil {
		return err
	}
	storeResult(ctx, token)
	return nil
}

type RevokeSessionCommand struct {
	store SessionRevoker
}

func NewRevokeSessionCommand(store SessionRevoker) *RevokeSessionCommand {
	return &RevokeSessionCommand{store: store}
}

func (c *RevokeSessionCommand) Execute(ctx context.Context, msg RevokeSessionMessage) error {
	if c == nil || c.store == nil {
		return commandDependencyError("command: session store is required")
	}
	return c.store.Revoke(ctx, msg.Subject, msg.Reason)
}

func storeResult[T any](ctx context.Context, value T) {
	collector := gocmd.ResultFromContext[T](ctx)
	if collector == nil {
		return
	}
	collector.Store(value)
}
