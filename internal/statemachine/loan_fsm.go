package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/segyhp/coop-billing/internal/domain"
	customError "github.com/segyhp/coop-billing/pkg/errors"
)

const (
	EventDefault = "default"
	EventCure    = "cure"
	EventPayOff  = "pay_off"
)

// LoanFSM wraps a loan with its state machine
type LoanFSM struct {
	loan *domain.Loan
	fsm  *fsm.FSM
}

// NewLoanFSM creates a new loan state machine
func NewLoanFSM(loan *domain.Loan) *LoanFSM {
	lfsm := &LoanFSM{
		loan: loan,
	}

	lfsm.fsm = fsm.NewFSM(
		loan.Status,
		fsm.Events{
			// Aktif → Macet when too many coupons are overdue
			{Name: EventDefault, Src: []string{domain.LoanStatusActive}, Dst: domain.LoanStatusDefault},

			// Macet → Aktif once the arrears are caught up
			{Name: EventCure, Src: []string{domain.LoanStatusDefault}, Dst: domain.LoanStatusActive},

			// Aktif/Macet → Lunas when the remaining debt reaches zero
			{Name: EventPayOff, Src: []string{domain.LoanStatusActive, domain.LoanStatusDefault}, Dst: domain.LoanStatusPaidOff},
		},
		fsm.Callbacks{},
	)

	return lfsm
}

// MarkDefault moves an active loan to Macet
func (l *LoanFSM) MarkDefault(ctx context.Context) error {
	return l.fire(ctx, EventDefault)
}

// Cure moves a defaulted loan back to Aktif
func (l *LoanFSM) Cure(ctx context.Context) error {
	return l.fire(ctx, EventCure)
}

// PayOff closes the loan
func (l *LoanFSM) PayOff(ctx context.Context) error {
	return l.fire(ctx, EventPayOff)
}

func (l *LoanFSM) fire(ctx context.Context, event string) error {
	if !l.fsm.Can(event) {
		return customError.WrapInvalidTransition("loan "+l.loan.LoanID, event, l.fsm.Current())
	}

	if err := l.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("failed to %s loan: %w", event, err)
	}

	l.loan.Status = l.fsm.Current()
	return nil
}

// Current returns the current state
func (l *LoanFSM) Current() string {
	return l.fsm.Current()
}

// Can checks if a transition is possible
func (l *LoanFSM) Can(event string) bool {
	return l.fsm.Can(event)
}
