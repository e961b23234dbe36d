package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/coop-billing/internal/config"
	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/internal/repository"
	"github.com/segyhp/coop-billing/internal/schedule"
	"github.com/segyhp/coop-billing/internal/statemachine"
	customError "github.com/segyhp/coop-billing/pkg/errors"
	"github.com/segyhp/coop-billing/pkg/utils"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type BillingService struct {
	LoanRepo    repository.LoanRepository
	PaymentRepo repository.PaymentRepository
	SavingsRepo repository.SavingsRepository
	txManager   repository.TxManager
	config      *config.Config
	location    *time.Location
	now         func() time.Time
}

func NewBillingService(
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	savingsRepo repository.SavingsRepository,
	txManager repository.TxManager,
	config *config.Config,
) *BillingService {
	return &BillingService{
		LoanRepo:    loanRepo,
		PaymentRepo: paymentRepo,
		SavingsRepo: savingsRepo,
		txManager:   txManager,
		config:      config,
		location:    config.GetLocation(),
		now:         time.Now,
	}
}

// Today is the current business date in the configured location
func (s *BillingService) Today() time.Time {
	return utils.TruncateToDate(s.now().In(s.location))
}

// Location is the business calendar location
func (s *BillingService) Location() *time.Location {
	return s.location
}

// GetLoanCoupons returns the loan with its reconciled coupon ledger as of today
func (s *BillingService) GetLoanCoupons(ctx context.Context, loanID string, today time.Time) (*domain.CouponLedgerResponse, error) {
	loan, err := s.LoanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	coupons, err := s.coupons(loan, today)
	if err != nil {
		return nil, err
	}

	// A closed loan owes nothing even when the rounded-up installments leave
	// a partial last coupon
	var next *domain.NextSchedule
	if loan.IsOpen() {
		next = schedule.NextDue(coupons)
		if next != nil {
			next.LoanID = loan.LoanID
		}
	}

	return &domain.CouponLedgerResponse{
		Loan:    loan,
		Coupons: coupons,
		Summary: schedule.Summarize(coupons),
		Next:    next,
	}, nil
}

// GetNextSchedule returns what the member owes on their first active loan.
// A nil result means there is nothing to pay.
func (s *BillingService) GetNextSchedule(ctx context.Context, memberID string, today time.Time) (*domain.NextSchedule, error) {
	loans, err := s.LoanRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	for _, loan := range loans {
		if loan.Status != domain.LoanStatusActive {
			continue
		}

		coupons, err := s.coupons(loan, today)
		if err != nil {
			return nil, err
		}

		next := schedule.NextDue(coupons)
		if next != nil {
			next.LoanID = loan.LoanID
		}
		return next, nil
	}

	return nil, nil
}

// GetOutstanding returns the remaining debt recorded on the loan
func (s *BillingService) GetOutstanding(ctx context.Context, loanID string) (decimal.Decimal, error) {
	loan, err := s.LoanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return decimal.Zero, wrapRepoError(err)
	}

	return loan.RemainingDebt, nil
}

// IsDelinquent reports whether the loan has at least the configured number
// of overdue coupons
func (s *BillingService) IsDelinquent(ctx context.Context, loanID string, today time.Time) (*domain.DelinquentResponse, error) {
	loan, err := s.LoanRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	result := &domain.DelinquentResponse{LoanID: loanID}
	if !loan.IsOpen() {
		return result, nil
	}

	coupons, err := s.coupons(loan, today)
	if err != nil {
		return nil, err
	}

	result.OverdueCoupons = schedule.Summarize(coupons).Overdue
	result.IsDelinquent = result.OverdueCoupons >= s.config.Business.DelinquencyThreshold
	return result, nil
}

// MakePayment records an installment and reduces the loan's remaining debt.
// With UseSavings, up to the member's savings balance is withdrawn towards
// the payment.
func (s *BillingService) MakePayment(ctx context.Context, request *domain.MakePaymentRequest) (*domain.MakePaymentResponse, error) {
	if !isWholeAmount(request.Amount) {
		return nil, customError.WrapInvalidPaymentAmount(request.Amount.String())
	}

	var (
		loan    *domain.Loan
		payment *domain.Installment
	)
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		loan, err = s.LoanRepo.GetByLoanIDForUpdate(ctx, request.LoanID)
		if err != nil {
			return wrapRepoError(err)
		}

		if !loan.IsOpen() {
			return customError.WrapLoanAlreadyClosed(loan.LoanID)
		}

		paidAt := s.now()
		savingsApplied := decimal.Zero
		if request.UseSavings {
			savingsApplied, err = s.withdrawSavings(ctx, loan, request, paidAt)
			if err != nil {
				return err
			}
		}

		remaining := loan.RemainingDebt.Sub(request.Amount)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		loan.RemainingDebt = remaining

		if remaining.IsZero() {
			if err := statemachine.NewLoanFSM(loan).PayOff(ctx); err != nil {
				return err
			}
		}

		payment = &domain.Installment{
			ID:             uuid.New(),
			LoanID:         loan.LoanID,
			MemberID:       loan.MemberID,
			Amount:         request.Amount,
			SavingsApplied: savingsApplied,
			RemainingDebt:  remaining,
			Collector:      request.Collector,
			PaidAt:         paidAt,
		}
		if err := s.PaymentRepo.Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return wrapRepoError(s.LoanRepo.Update(ctx, loan))
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", loan.LoanID).
		Str("amount", payment.Amount.String()).
		Str("savings_applied", payment.SavingsApplied.String()).
		Str("remaining_debt", loan.RemainingDebt.String()).
		Str("status", loan.Status).
		Msg("Installment recorded")

	// The payment is committed; a failure here must not look like a failed
	// payment to the caller
	result := &domain.MakePaymentResponse{Payment: payment, Loan: loan}
	if loan.IsOpen() {
		coupons, err := s.coupons(loan, s.Today())
		if err != nil {
			log.Error().Err(err).Str("loan_id", loan.LoanID).Msg("Failed to compute next schedule after payment")
			return result, nil
		}
		result.Next = schedule.NextDue(coupons)
		if result.Next != nil {
			result.Next.LoanID = loan.LoanID
		}
	}

	return result, nil
}

func (s *BillingService) withdrawSavings(ctx context.Context, loan *domain.Loan, request *domain.MakePaymentRequest, at time.Time) (decimal.Decimal, error) {
	balance, err := s.SavingsRepo.GetBalanceForUpdate(ctx, loan.MemberID)
	if err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	applied := decimal.Min(balance, request.Amount)
	if !applied.IsPositive() {
		return decimal.Zero, nil
	}

	entry := &domain.SavingsEntry{
		ID:         uuid.New(),
		MemberID:   loan.MemberID,
		Deposit:    decimal.Zero,
		Withdrawal: applied,
		Officer:    request.Collector,
		Note:       fmt.Sprintf("Installment payment %s", loan.LoanID),
		CreatedAt:  at,
	}
	if err := s.SavingsRepo.Create(ctx, entry); err != nil {
		return decimal.Zero, customError.WrapDatabaseError(err)
	}

	return applied, nil
}

// WithdrawSavings pays out part of a member's savings (pencairan simpanan).
// The balance may not go negative.
func (s *BillingService) WithdrawSavings(ctx context.Context, request *domain.WithdrawSavingsRequest) (*domain.WithdrawSavingsResponse, error) {
	if !isWholeAmount(request.Amount) {
		return nil, customError.WrapInvalidInput("amount must be a positive whole number, got %s", request.Amount.String())
	}

	var result *domain.WithdrawSavingsResponse
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		balance, err := s.SavingsRepo.GetBalanceForUpdate(ctx, request.MemberID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if balance.LessThan(request.Amount) {
			return customError.WrapInsufficientSavings(request.MemberID, balance.String(), request.Amount.String())
		}

		entry := &domain.SavingsEntry{
			ID:         uuid.New(),
			MemberID:   request.MemberID,
			Deposit:    decimal.Zero,
			Withdrawal: request.Amount,
			Officer:    request.Officer,
			Note:       noteOr(request.Note, "Savings withdrawal"),
			CreatedAt:  s.now(),
		}
		if err := s.SavingsRepo.Create(ctx, entry); err != nil {
			return customError.WrapDatabaseError(err)
		}

		result = &domain.WithdrawSavingsResponse{Entry: entry, Balance: balance.Sub(request.Amount)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("member_id", request.MemberID).
		Str("amount", request.Amount.String()).
		Str("officer", request.Officer).
		Str("balance", result.Balance.String()).
		Msg("Savings withdrawn")

	return result, nil
}

// GetMemberBalance returns total savings deposits minus withdrawals
func (s *BillingService) GetMemberBalance(ctx context.Context, memberID string) (*domain.BalanceResponse, error) {
	balance, err := s.SavingsRepo.GetBalance(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.BalanceResponse{MemberID: memberID, Balance: balance}, nil
}

// GetMutations merges the member's savings book, loan disbursements, admin
// fees and installments into one history, newest first
func (s *BillingService) GetMutations(ctx context.Context, memberID string) ([]domain.Mutation, error) {
	entries, err := s.SavingsRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	loans, err := s.LoanRepo.GetByMemberID(ctx, memberID)
	if err != nil {
		return nil, wrapRepoError(err)
	}

	mutations := make([]domain.Mutation, 0, len(entries)+3*len(loans))
	for _, e := range entries {
		if e.Deposit.IsPositive() {
			mutations = append(mutations, domain.Mutation{
				ID:          "SAV_IN_" + e.ID.String(),
				Date:        e.CreatedAt,
				Type:        domain.MutationIn,
				Amount:      e.Deposit,
				Description: noteOr(e.Note, "Savings deposit"),
				Category:    domain.MutationCategorySavings,
			})
		}
		if e.Withdrawal.IsPositive() {
			mutations = append(mutations, domain.Mutation{
				ID:          "SAV_OUT_" + e.ID.String(),
				Date:        e.CreatedAt,
				Type:        domain.MutationOut,
				Amount:      e.Withdrawal,
				Description: noteOr(e.Note, "Savings withdrawal"),
				Category:    domain.MutationCategorySavings,
			})
		}
	}

	for _, loan := range loans {
		disbursed := loan.ScheduleAnchor()
		mutations = append(mutations,
			domain.Mutation{
				ID:          "LOAN_IN_" + loan.LoanID,
				Date:        disbursed,
				Type:        domain.MutationIn,
				Amount:      loan.Principal,
				Description: "Disbursement " + loan.LoanID,
				Category:    domain.MutationCategoryLoan,
			},
			domain.Mutation{
				ID:          "ADM_OUT_" + loan.LoanID,
				Date:        disbursed,
				Type:        domain.MutationOut,
				Amount:      utils.PercentOf(loan.Principal, decimal.NewFromInt(domain.AdminFeePercent)),
				Description: fmt.Sprintf("Admin fee (%d%%)", domain.AdminFeePercent),
				Category:    domain.MutationCategoryAdmin,
			},
		)

		payments, err := s.PaymentRepo.GetByLoanID(ctx, loan.LoanID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		for _, p := range payments {
			mutations = append(mutations, domain.Mutation{
				ID:          "PAY_" + p.ID.String(),
				Date:        p.PaidAt,
				Type:        domain.MutationOut,
				Amount:      p.Amount,
				Description: "Installment " + loan.LoanID,
				Category:    domain.MutationCategoryInstallment,
			})
		}
	}

	sort.SliceStable(mutations, func(i, j int) bool {
		return mutations[i].Date.After(mutations[j].Date)
	})

	return mutations, nil
}

// PreviewSchedule lists the due dates a loan disbursed on date would get
func (s *BillingService) PreviewSchedule(disbursement time.Time, tenor int) (*domain.SchedulePreviewResponse, error) {
	entries, err := schedule.Generate(disbursement, tenor)
	if err != nil {
		return nil, err
	}

	return &domain.SchedulePreviewResponse{
		DisbursementDate: utils.TruncateToDate(disbursement),
		Tenor:            tenor,
		Interval:         schedule.StepInterval(tenor),
		Schedule:         entries,
	}, nil
}

// coupons reconciles the loan in the business location
func (s *BillingService) coupons(loan *domain.Loan, today time.Time) ([]domain.Coupon, error) {
	return couponsFor(loan, today, s.location)
}

func couponsFor(loan *domain.Loan, today time.Time, loc *time.Location) ([]domain.Coupon, error) {
	terms := loan.Terms()
	terms.DisbursementDate = terms.DisbursementDate.In(loc)
	return schedule.Build(terms, today.In(loc))
}

// wrapRepoError keeps business errors such as not-found as they are and
// wraps everything else as a database error
func wrapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if customError.CodeOf(err) != "" {
		return err
	}
	return customError.WrapDatabaseError(err)
}

// isWholeAmount reports whether amount is a positive number of whole
// currency units
func isWholeAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.IsInteger()
}

func noteOr(note, fallback string) string {
	if note != "" {
		return note
	}
	return fallback
}
