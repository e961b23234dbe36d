package service

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/coop-billing/internal/config"
	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/internal/repository"
	"github.com/segyhp/coop-billing/internal/schedule"
	"github.com/segyhp/coop-billing/internal/statemachine"
	customError "github.com/segyhp/coop-billing/pkg/errors"
	"github.com/segyhp/coop-billing/pkg/utils"

	"github.com/rs/zerolog/log"
)

// SweepResult counts what a delinquency sweep changed
type SweepResult struct {
	Checked   int `json:"checked"`
	Defaulted int `json:"defaulted"`
	Cured     int `json:"cured"`
}

// ReminderService runs the scheduled jobs over every open loan
type ReminderService struct {
	LoanRepo    repository.LoanRepository
	ReminderLog repository.ReminderLog
	config      *config.Config
	location    *time.Location
}

func NewReminderService(
	loanRepo repository.LoanRepository,
	reminderLog repository.ReminderLog,
	config *config.Config,
) *ReminderService {
	return &ReminderService{
		LoanRepo:    loanRepo,
		ReminderLog: reminderLog,
		config:      config,
		location:    config.GetLocation(),
	}
}

// SweepDelinquency marks loans with too many overdue coupons as Macet and
// restores Macet loans that have caught up. A failure on one loan does not
// stop the sweep.
func (s *ReminderService) SweepDelinquency(ctx context.Context, today time.Time) (SweepResult, error) {
	var result SweepResult

	loans, err := s.LoanRepo.ListOpen(ctx)
	if err != nil {
		return result, wrapRepoError(err)
	}

	var errs []error
	for _, loan := range loans {
		result.Checked++

		coupons, err := couponsFor(loan, today, s.location)
		if err != nil {
			errs = append(errs, err)
			log.Error().Err(err).Str("loan_id", loan.LoanID).Msg("Failed to reconcile loan")
			continue
		}

		overdue := schedule.Summarize(coupons).Overdue
		delinquent := overdue >= s.config.Business.DelinquencyThreshold

		from := loan.Status
		machine := statemachine.NewLoanFSM(loan)
		switch {
		case delinquent && from == domain.LoanStatusActive:
			err = machine.MarkDefault(ctx)
		case !delinquent && from == domain.LoanStatusDefault:
			err = machine.Cure(ctx)
		default:
			continue
		}

		// Written only if no payment touched the loan since it was listed
		changed := false
		if err == nil {
			changed, err = s.LoanRepo.UpdateStatus(ctx, loan, from)
		}
		if err != nil {
			errs = append(errs, wrapRepoError(err))
			log.Error().Err(err).Str("loan_id", loan.LoanID).Msg("Failed to update loan status")
			continue
		}
		if !changed {
			log.Warn().Str("loan_id", loan.LoanID).Str("from", from).Msg("Loan changed during sweep, skipped")
			continue
		}

		if loan.Status == domain.LoanStatusDefault {
			result.Defaulted++
		} else {
			result.Cured++
		}

		log.Info().
			Str("loan_id", loan.LoanID).
			Str("member_id", loan.MemberID).
			Int("overdue_coupons", overdue).
			Str("status", loan.Status).
			Msg("Loan status changed")
	}

	log.Info().
		Int("checked", result.Checked).
		Int("defaulted", result.Defaulted).
		Int("cured", result.Cured).
		Msg("Delinquency sweep finished")

	return result, errors.Join(errs...)
}

// SendDueReminders emits one reminder per loan and due date for every open
// loan whose next obligation falls on or before the reminder window end.
// Returns the number of reminders sent.
func (s *ReminderService) SendDueReminders(ctx context.Context, today time.Time) (int, error) {
	loans, err := s.LoanRepo.ListOpen(ctx)
	if err != nil {
		return 0, wrapRepoError(err)
	}

	today = utils.TruncateToDate(today.In(s.location))
	windowEnd := utils.AddWorkingDays(today, s.config.Business.ReminderLeadDays)
	ttl := s.config.GetReminderTTL()

	sent := 0
	var errs []error
	for _, loan := range loans {
		coupons, err := couponsFor(loan, today, s.location)
		if err != nil {
			errs = append(errs, err)
			log.Error().Err(err).Str("loan_id", loan.LoanID).Msg("Failed to reconcile loan")
			continue
		}

		next := schedule.NextDue(coupons)
		if next == nil || utils.IsDateBefore(windowEnd, next.DueDate) {
			continue
		}

		isNew, err := s.ReminderLog.MarkSent(ctx, loan.LoanID, next.DueDate, ttl)
		if err != nil {
			errs = append(errs, customError.WrapCacheError(err))
			log.Error().Err(err).Str("loan_id", loan.LoanID).Msg("Failed to record reminder")
			continue
		}
		if !isNew {
			continue
		}

		sent++
		log.Info().
			Str("loan_id", loan.LoanID).
			Str("member_id", loan.MemberID).
			Str("member_name", loan.MemberName).
			Str("collector", loan.Collector).
			Int("period", next.Period).
			Str("due_date", next.DueDate.Format(utils.DateLayout)).
			Str("amount_due", next.AmountDue.String()).
			Str("status", next.Status.String()).
			Msg("Installment reminder")
	}

	return sent, errors.Join(errs...)
}
