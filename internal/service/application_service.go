package service

import (
	"context"
	"slices"
	"strings"
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

// ApplicationService moves loan applications from request to disbursement
type ApplicationService struct {
	ApplicationRepo repository.ApplicationRepository
	LoanRepo        repository.LoanRepository
	SavingsRepo     repository.SavingsRepository
	txManager       repository.TxManager
	location        *time.Location
	now             func() time.Time
}

func NewApplicationService(
	applicationRepo repository.ApplicationRepository,
	loanRepo repository.LoanRepository,
	savingsRepo repository.SavingsRepository,
	txManager repository.TxManager,
	config *config.Config,
) *ApplicationService {
	return &ApplicationService{
		ApplicationRepo: applicationRepo,
		LoanRepo:        loanRepo,
		SavingsRepo:     savingsRepo,
		txManager:       txManager,
		location:        config.GetLocation(),
		now:             time.Now,
	}
}

// LoanIDFor is the loan created when an application is approved
func LoanIDFor(applicationID string) string {
	return "LOAN-" + strings.TrimPrefix(applicationID, "APP-")
}

func newApplicationID() string {
	return "APP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// IsAllowedAmount reports whether amount is one of the loan products
func IsAllowedAmount(amount decimal.Decimal) bool {
	if !amount.IsInteger() {
		return false
	}
	return slices.Contains(domain.LoanAmounts, amount.IntPart())
}

// IsAllowedTenor reports whether tenor is one of the offered tenors
func IsAllowedTenor(tenor int) bool {
	return slices.Contains(domain.TenorOptions, tenor)
}

// Apply files a pending application
func (s *ApplicationService) Apply(ctx context.Context, request *domain.ApplyLoanRequest) (*domain.Application, error) {
	if !IsAllowedAmount(request.Amount) {
		return nil, customError.WrapInvalidInput("amount %s is not an offered loan amount", request.Amount.String())
	}
	if !IsAllowedTenor(request.Tenor) {
		return nil, customError.WrapInvalidInput("tenor %d is not an offered tenor", request.Tenor)
	}

	now := s.now()
	application := &domain.Application{
		ID:            uuid.New(),
		ApplicationID: newApplicationID(),
		MemberID:      request.MemberID,
		MemberName:    request.MemberName,
		Amount:        request.Amount,
		Tenor:         request.Tenor,
		Collector:     request.Collector,
		Status:        domain.ApplicationStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.ApplicationRepo.Create(ctx, application); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Info().
		Str("application_id", application.ApplicationID).
		Str("member_id", application.MemberID).
		Str("amount", application.Amount.String()).
		Int("tenor", application.Tenor).
		Msg("Loan application filed")

	return application, nil
}

// Approve accepts a pending application and opens its loan. Until it is
// disbursed the loan is billed from the approval date.
func (s *ApplicationService) Approve(ctx context.Context, applicationID string) (*domain.Loan, error) {
	var loan *domain.Loan
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		application, err := s.ApplicationRepo.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			return wrapRepoError(err)
		}

		if err := statemachine.NewApplicationFSM(application).Approve(ctx); err != nil {
			return err
		}

		loan = newLoan(application, s.now())
		if err := s.LoanRepo.Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return wrapRepoError(s.ApplicationRepo.UpdateStatus(ctx, application.ApplicationID, application.Status))
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("application_id", applicationID).
		Str("loan_id", loan.LoanID).
		Str("total_debt", loan.TotalDebt.String()).
		Str("installment", loan.Installment.String()).
		Msg("Loan application approved")

	return loan, nil
}

// Reject declines a pending application
func (s *ApplicationService) Reject(ctx context.Context, applicationID string) (*domain.Application, error) {
	var application *domain.Application
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		application, err = s.ApplicationRepo.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			return wrapRepoError(err)
		}

		if err := statemachine.NewApplicationFSM(application).Reject(ctx); err != nil {
			return err
		}

		if err := s.ApplicationRepo.UpdateStatus(ctx, application.ApplicationID, application.Status); err != nil {
			return customError.WrapDatabaseError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("application_id", applicationID).Msg("Loan application rejected")
	return application, nil
}

// Disburse pays out an approved loan. The admin fee and, when requested, the
// mandatory savings cut are deducted from the principal; the cut is deposited
// into the member's savings.
func (s *ApplicationService) Disburse(ctx context.Context, applicationID string, request *domain.DisburseLoanRequest) (*domain.DisburseLoanResponse, error) {
	disbursedOn := utils.TruncateToDate(s.now().In(s.location))
	if request.DisbursedOn != "" {
		parsed, err := utils.ParseDate(request.DisbursedOn, s.location)
		if err != nil {
			return nil, customError.WrapInvalidInput("disbursed_on must be YYYY-MM-DD, got %q", request.DisbursedOn)
		}
		disbursedOn = parsed
	}

	var result *domain.DisburseLoanResponse
	err := s.txManager.WithinTx(ctx, func(ctx context.Context) error {
		application, err := s.ApplicationRepo.GetByApplicationIDForUpdate(ctx, applicationID)
		if err != nil {
			return wrapRepoError(err)
		}

		if err := statemachine.NewApplicationFSM(application).Disburse(ctx); err != nil {
			return err
		}

		loan, err := s.LoanRepo.GetByLoanIDForUpdate(ctx, LoanIDFor(application.ApplicationID))
		if err != nil {
			return wrapRepoError(err)
		}
		loan.DisbursedAt = &disbursedOn

		adminFee := utils.PercentOf(loan.Principal, decimal.NewFromInt(domain.AdminFeePercent))
		savingsCut := decimal.Zero
		if request.DeductSavings {
			savingsCut = utils.PercentOf(loan.Principal, decimal.NewFromInt(domain.SavingsCutPercent))
			entry := &domain.SavingsEntry{
				ID:         uuid.New(),
				MemberID:   loan.MemberID,
				Deposit:    savingsCut,
				Withdrawal: decimal.Zero,
				Officer:    request.Officer,
				Note:       "Mandatory savings " + loan.LoanID,
				CreatedAt:  disbursedOn,
			}
			if err := s.SavingsRepo.Create(ctx, entry); err != nil {
				return customError.WrapDatabaseError(err)
			}
		}

		entries, err := schedule.Generate(disbursedOn, loan.Tenor)
		if err != nil {
			return err
		}

		if err := s.LoanRepo.Update(ctx, loan); err != nil {
			return wrapRepoError(err)
		}
		if err := s.ApplicationRepo.UpdateStatus(ctx, application.ApplicationID, application.Status); err != nil {
			return customError.WrapDatabaseError(err)
		}

		result = &domain.DisburseLoanResponse{
			Loan:         loan,
			AdminFee:     adminFee,
			SavingsCut:   savingsCut,
			NetDisbursed: loan.Principal.Sub(adminFee).Sub(savingsCut),
			Schedule:     entries,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", result.Loan.LoanID).
		Str("officer", request.Officer).
		Str("net_disbursed", result.NetDisbursed.String()).
		Time("disbursed_on", disbursedOn).
		Msg("Loan disbursed")

	return result, nil
}

func newLoan(application *domain.Application, approvedAt time.Time) *domain.Loan {
	rate := utils.CalculateInterestRate(application.Amount)
	totalDebt := utils.CalculateTotalDebt(application.Amount, rate)

	return &domain.Loan{
		ID:            uuid.New(),
		LoanID:        LoanIDFor(application.ApplicationID),
		MemberID:      application.MemberID,
		MemberName:    application.MemberName,
		ApplicationID: application.ApplicationID,
		Principal:     application.Amount,
		InterestRate:  rate,
		TotalDebt:     totalDebt,
		Tenor:         application.Tenor,
		Installment:   utils.CalculateInstallment(totalDebt, application.Tenor),
		RemainingDebt: totalDebt,
		Status:        domain.LoanStatusActive,
		Collector:     application.Collector,
		ApprovedAt:    approvedAt,
		CreatedAt:     approvedAt,
		UpdatedAt:     approvedAt,
	}
}
