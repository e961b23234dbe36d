package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/internal/testutil"
	customError "github.com/segyhp/coop-billing/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type applicationFixture struct {
	applications *testutil.MockApplicationRepository
	loans        *testutil.MockLoanRepository
	savings      *testutil.MockSavingsRepository
	tx           *testutil.FakeTxManager
	service      *ApplicationService
}

func newApplicationFixture(now time.Time) *applicationFixture {
	f := &applicationFixture{
		applications: new(testutil.MockApplicationRepository),
		loans:        new(testutil.MockLoanRepository),
		savings:      new(testutil.MockSavingsRepository),
		tx:           new(testutil.FakeTxManager),
	}
	f.service = NewApplicationService(f.applications, f.loans, f.savings, f.tx, testConfig())
	f.service.now = func() time.Time { return now }
	return f
}

func testApplication(amount int64, tenor int, status string) *domain.Application {
	return &domain.Application{
		ApplicationID: "APP-ABC",
		MemberID:      "MBR-001",
		MemberName:    "Siti",
		Amount:        decimal.NewFromInt(amount),
		Tenor:         tenor,
		Collector:     "Budi",
		Status:        status,
	}
}

func TestLoanIDFor(t *testing.T) {
	assert.Equal(t, "LOAN-ABC", LoanIDFor("APP-ABC"))
}

func TestIsAllowedAmount(t *testing.T) {
	tests := []struct {
		amount   decimal.Decimal
		expected bool
	}{
		{decimal.NewFromInt(300000), true},
		{decimal.NewFromInt(1000000), true},
		{decimal.NewFromInt(1500000), true},
		{decimal.NewFromInt(3000000), true},
		{decimal.NewFromInt(200000), false},
		{decimal.NewFromInt(1100000), false},
		{decimal.NewFromInt(3500000), false},
		{decimal.RequireFromString("300000.5"), false},
	}

	for _, tt := range tests {
		t.Run(tt.amount.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAllowedAmount(tt.amount))
		})
	}
}

func TestIsAllowedTenor(t *testing.T) {
	for _, tenor := range domain.TenorOptions {
		assert.True(t, IsAllowedTenor(tenor), "tenor %d", tenor)
	}
	assert.False(t, IsAllowedTenor(0))
	assert.False(t, IsAllowedTenor(10))
}

func TestApply(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, jakarta)

	t.Run("Success - Pending application", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Application) bool {
			return a.Status == domain.ApplicationStatusPending && a.MemberID == "MBR-001"
		})).Return(nil)

		application, err := f.service.Apply(context.Background(), &domain.ApplyLoanRequest{
			MemberID:   "MBR-001",
			MemberName: "Siti",
			Amount:     decimal.NewFromInt(500000),
			Tenor:      20,
			Collector:  "Budi",
		})

		require.NoError(t, err)
		assert.Regexp(t, `^APP-[0-9A-F]{10}$`, application.ApplicationID)
		assert.Equal(t, now, application.CreatedAt)
		f.applications.AssertExpectations(t)
	})

	t.Run("Failure - Amount not offered", func(t *testing.T) {
		f := newApplicationFixture(now)

		_, err := f.service.Apply(context.Background(), &domain.ApplyLoanRequest{
			MemberID: "MBR-001",
			Amount:   decimal.NewFromInt(1200000),
			Tenor:    20,
		})

		assert.ErrorIs(t, err, customError.ErrInvalidInput)
		f.applications.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Tenor not offered", func(t *testing.T) {
		f := newApplicationFixture(now)

		_, err := f.service.Apply(context.Background(), &domain.ApplyLoanRequest{
			MemberID: "MBR-001",
			Amount:   decimal.NewFromInt(500000),
			Tenor:    10,
		})

		assert.ErrorIs(t, err, customError.ErrInvalidInput)
	})
}

func TestApprove(t *testing.T) {
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, jakarta)

	t.Run("Success - Opens the loan", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-ABC").
			Return(testApplication(1500000, 14, domain.ApplicationStatusPending), nil)
		f.loans.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.applications.On("UpdateStatus", mock.Anything, "APP-ABC", domain.ApplicationStatusApproved).Return(nil)

		loan, err := f.service.Approve(context.Background(), "APP-ABC")

		require.NoError(t, err)
		assert.Equal(t, "LOAN-ABC", loan.LoanID)
		assert.Equal(t, domain.LoanStatusActive, loan.Status)
		assert.True(t, loan.InterestRate.Equal(decimal.NewFromInt(20)))
		assert.True(t, loan.TotalDebt.Equal(decimal.NewFromInt(1800000)))
		assert.True(t, loan.RemainingDebt.Equal(loan.TotalDebt))
		assert.True(t, loan.Installment.Equal(decimal.NewFromInt(128572)))
		assert.Nil(t, loan.DisbursedAt)
		assert.Equal(t, now, loan.ApprovedAt)
		assert.Equal(t, now, loan.ScheduleAnchor())
		f.applications.AssertExpectations(t)
		f.loans.AssertExpectations(t)
	})

	t.Run("Failure - Already approved", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-ABC").
			Return(testApplication(1500000, 14, domain.ApplicationStatusApproved), nil)

		_, err := f.service.Approve(context.Background(), "APP-ABC")

		assert.ErrorIs(t, err, customError.ErrInvalidTransition)
		f.loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown application", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-NONE").
			Return(nil, customError.WrapApplicationNotFound("APP-NONE"))

		_, err := f.service.Approve(context.Background(), "APP-NONE")

		assert.ErrorIs(t, err, customError.ErrApplicationNotFound)
	})
}

func TestReject(t *testing.T) {
	f := newApplicationFixture(time.Now())
	f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-ABC").
		Return(testApplication(500000, 20, domain.ApplicationStatusPending), nil)
	f.applications.On("UpdateStatus", mock.Anything, "APP-ABC", domain.ApplicationStatusRejected).Return(nil)

	application, err := f.service.Reject(context.Background(), "APP-ABC")

	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusRejected, application.Status)
	assert.Equal(t, 1, f.tx.Calls)
	f.applications.AssertExpectations(t)
}

func TestDisburse(t *testing.T) {
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, jakarta)

	approvedLoan := func() *domain.Loan {
		return newLoan(testApplication(1000000, 12, domain.ApplicationStatusApproved), now.AddDate(0, 0, -1))
	}

	t.Run("Success - With mandatory savings", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-ABC").
			Return(testApplication(1000000, 12, domain.ApplicationStatusApproved), nil)
		f.loans.On("GetByLoanIDForUpdate", mock.Anything, "LOAN-ABC").Return(approvedLoan(), nil)
		f.savings.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.SavingsEntry) bool {
			return e.Deposit.Equal(decimal.NewFromInt(50000)) && e.Officer == "Admin"
		})).Return(nil)
		f.loans.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
			return l.DisbursedAt != nil
		})).Return(nil)
		f.applications.On("UpdateStatus", mock.Anything, "APP-ABC", domain.ApplicationStatusDisbursed).Return(nil)

		result, err := f.service.Disburse(context.Background(), "APP-ABC", &domain.DisburseLoanRequest{
			Officer:       "Admin",
			DeductSavings: true,
			DisbursedOn:   "2024-01-05",
		})

		require.NoError(t, err)
		assert.True(t, result.AdminFee.Equal(decimal.NewFromInt(50000)))
		assert.True(t, result.SavingsCut.Equal(decimal.NewFromInt(50000)))
		assert.True(t, result.NetDisbursed.Equal(decimal.NewFromInt(900000)))
		require.Len(t, result.Schedule, 12)
		// Friday disbursement, first due the following Monday
		assertSameInstant(t, jakartaDate(time.January, 8), result.Schedule[0].DueDate)
		assertSameInstant(t, jakartaDate(time.January, 5), *result.Loan.DisbursedAt)
		f.applications.AssertExpectations(t)
		f.loans.AssertExpectations(t)
		f.savings.AssertExpectations(t)
	})

	t.Run("Success - Defaults to today without savings", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-ABC").
			Return(testApplication(1000000, 12, domain.ApplicationStatusApproved), nil)
		f.loans.On("GetByLoanIDForUpdate", mock.Anything, "LOAN-ABC").Return(approvedLoan(), nil)
		f.loans.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.applications.On("UpdateStatus", mock.Anything, "APP-ABC", domain.ApplicationStatusDisbursed).Return(nil)

		result, err := f.service.Disburse(context.Background(), "APP-ABC", &domain.DisburseLoanRequest{Officer: "Admin"})

		require.NoError(t, err)
		assert.True(t, result.SavingsCut.IsZero())
		assert.True(t, result.NetDisbursed.Equal(decimal.NewFromInt(950000)))
		assertSameInstant(t, jakartaDate(time.January, 3), *result.Loan.DisbursedAt)
		f.savings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Pending application", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-ABC").
			Return(testApplication(1000000, 12, domain.ApplicationStatusPending), nil)

		_, err := f.service.Disburse(context.Background(), "APP-ABC", &domain.DisburseLoanRequest{Officer: "Admin"})

		assert.ErrorIs(t, err, customError.ErrInvalidTransition)
	})

	t.Run("Failure - Bad disbursement date", func(t *testing.T) {
		f := newApplicationFixture(now)

		_, err := f.service.Disburse(context.Background(), "APP-ABC", &domain.DisburseLoanRequest{
			Officer:     "Admin",
			DisbursedOn: "05/01/2024",
		})

		assert.ErrorIs(t, err, customError.ErrInvalidInput)
		assert.Equal(t, 0, f.tx.Calls)
	})

	t.Run("Failure - Savings insert fails", func(t *testing.T) {
		f := newApplicationFixture(now)
		f.applications.On("GetByApplicationIDForUpdate", mock.Anything, "APP-ABC").
			Return(testApplication(1000000, 12, domain.ApplicationStatusApproved), nil)
		f.loans.On("GetByLoanIDForUpdate", mock.Anything, "LOAN-ABC").Return(approvedLoan(), nil)
		f.savings.On("Create", mock.Anything, mock.Anything).Return(errors.New("constraint violation"))

		_, err := f.service.Disburse(context.Background(), "APP-ABC", &domain.DisburseLoanRequest{
			Officer:       "Admin",
			DeductSavings: true,
		})

		assert.Equal(t, customError.ErrCodeDatabaseError, customError.CodeOf(err))
		f.loans.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
