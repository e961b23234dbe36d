package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/segyhp/coop-billing/internal/domain"
	customError "github.com/segyhp/coop-billing/pkg/errors"
)

const (
	EventApprove  = "approve"
	EventReject   = "reject"
	EventDisburse = "disburse"
)

// ApplicationFSM wraps a loan application with its state machine
type ApplicationFSM struct {
	application *domain.Application
	fsm         *fsm.FSM
}

// NewApplicationFSM creates a new application state machine
func NewApplicationFSM(application *domain.Application) *ApplicationFSM {
	afsm := &ApplicationFSM{
		application: application,
	}

	afsm.fsm = fsm.NewFSM(
		application.Status,
		fsm.Events{
			// Pending → Approved (admin)
			{Name: EventApprove, Src: []string{domain.ApplicationStatusPending}, Dst: domain.ApplicationStatusApproved},

			// Pending → Rejected (admin)
			{Name: EventReject, Src: []string{domain.ApplicationStatusPending}, Dst: domain.ApplicationStatusRejected},

			// Approved → Disbursed (collector hands over the cash)
			{Name: EventDisburse, Src: []string{domain.ApplicationStatusApproved}, Dst: domain.ApplicationStatusDisbursed},
		},
		fsm.Callbacks{},
	)

	return afsm
}

// Approve transitions the application to Approved
func (a *ApplicationFSM) Approve(ctx context.Context) error {
	return a.fire(ctx, EventApprove)
}

// Reject transitions the application to Rejected
func (a *ApplicationFSM) Reject(ctx context.Context) error {
	return a.fire(ctx, EventReject)
}

// Disburse transitions the application to Disbursed
func (a *ApplicationFSM) Disburse(ctx context.Context) error {
	return a.fire(ctx, EventDisburse)
}

func (a *ApplicationFSM) fire(ctx context.Context, event string) error {
	if !a.fsm.Can(event) {
		return customError.WrapInvalidTransition("application "+a.application.ApplicationID, event, a.fsm.Current())
	}

	if err := a.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s application: %w", event, err)
	}

	a.application.Status = a.fsm.Current()
	return nil
}

// Current returns the current state
func (a *ApplicationFSM) Current() string {
	return a.fsm.Current()
}
