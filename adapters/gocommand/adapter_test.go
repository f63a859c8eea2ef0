package gocommand

import (
	"context"
	"testing"

	"github.com/goliatone/go-command"
	jobqueuecommand "github.com/goliatone/go-job/queue/command"
	memberapicommand "github.com/goliatone/go-memberapi/command"
)

type unnamedMessage struct{}

func (unnamedMessage) Type() string { return "" }

func TestValidateMessageContract(t *testing.T) {
	ok := memberapicommand.CancelEnrollmentMessage{EnrollmentID: "enr_1", Reason: "member request"}
	if err := ValidateMessageContract(ok); err != nil {
		t.Fatalf("expected valid message, got %v", err)
	}
	if err := ValidateMessageContract(unnamedMessage{}); err == nil {
		t.Fatalf("expected empty type to fail contract validation")
	}
	// a blank enrollment id fails the message's own Validate
	if err := ValidateMessageContract(memberapicommand.CancelEnrollmentMessage{}); err == nil {
		t.Fatalf("expected Validate() failure to bubble")
	}
}

func TestRegistryAndDispatchWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	customResolverCalled := 0
	var revoked []memberapicommand.RevokeSessionMessage

	cmd := command.CommandFunc[memberapicommand.RevokeSessionMessage](func(_ context.Context, msg memberapicommand.RevokeSessionMessage) error {
		revoked = append(revoked, msg)
		return nil
	})

	if _, err := RegisterAndSubscribe(adapter, cmd); err != nil {
		t.Fatalf("register and subscribe: %v", err)
	}
	if err := adapter.AddResolver("custom", func(any, command.CommandMeta, *command.Registry) error {
		customResolverCalled++
		return nil
	}); err != nil {
		t.Fatalf("add resolver: %v", err)
	}
	if !adapter.HasResolver("custom") {
		t.Fatalf("expected custom resolver to be registered")
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}
	if customResolverCalled == 0 {
		t.Fatalf("expected resolver hook to run during initialization")
	}

	if err := Dispatch(context.Background(), memberapicommand.RevokeSessionMessage{
		Subject: "agent_1",
		Reason:  "signed out",
	}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(revoked) != 1 {
		t.Fatalf("expected one revoke execution, got %d", len(revoked))
	}
	if revoked[0].Subject != "agent_1" || revoked[0].Reason != "signed out" {
		t.Fatalf("unexpected dispatched payload: %#v", revoked[0])
	}
}

func TestQueueResolverHookWiring(t *testing.T) {
	adapter := NewRegistryAdapter(command.NewRegistry())
	queueRegistry := jobqueuecommand.NewRegistry()

	cmd := command.CommandFunc[memberapicommand.RefreshSessionMessage](func(context.Context, memberapicommand.RefreshSessionMessage) error {
		return nil
	})

	if err := adapter.AddQueueResolver("queue", queueRegistry); err != nil {
		t.Fatalf("add queue resolver: %v", err)
	}
	if err := adapter.RegisterCommand(cmd); err != nil {
		t.Fatalf("register command: %v", err)
	}
	if err := adapter.Initialize(); err != nil {
		t.Fatalf("initialize registry: %v", err)
	}

	if _, ok := queueRegistry.Get(memberapicommand.TypeRefreshSession); !ok {
		t.Fatalf("expected session refresh command to be mirrored into queue registry")
	}
}
