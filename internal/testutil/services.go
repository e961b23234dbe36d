package testutil

import (
	"context"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) Today() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockBillingService) Location() *time.Location {
	args := m.Called()
	return args.Get(0).(*time.Location)
}

func (m *MockBillingService) GetLoanCoupons(ctx context.Context, loanID string, today time.Time) (*domain.CouponLedgerResponse, error) {
	args := m.Called(ctx, loanID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CouponLedgerResponse), args.Error(1)
}

func (m *MockBillingService) GetNextSchedule(ctx context.Context, memberID string, today time.Time) (*domain.NextSchedule, error) {
	args := m.Called(ctx, memberID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NextSchedule), args.Error(1)
}

func (m *MockBillingService) GetOutstanding(ctx context.Context, loanID string) (decimal.Decimal, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockBillingService) IsDelinquent(ctx context.Context, loanID string, today time.Time) (*domain.DelinquentResponse, error) {
	args := m.Called(ctx, loanID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DelinquentResponse), args.Error(1)
}

func (m *MockBillingService) MakePayment(ctx context.Context, request *domain.MakePaymentRequest) (*domain.MakePaymentResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MakePaymentResponse), args.Error(1)
}

func (m *MockBillingService) WithdrawSavings(ctx context.Context, request *domain.WithdrawSavingsRequest) (*domain.WithdrawSavingsResponse, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawSavingsResponse), args.Error(1)
}

func (m *MockBillingService) GetMemberBalance(ctx context.Context, memberID string) (*domain.BalanceResponse, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceResponse), args.Error(1)
}

func (m *MockBillingService) GetMutations(ctx context.Context, memberID string) ([]domain.Mutation, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Mutation), args.Error(1)
}

func (m *MockBillingService) PreviewSchedule(disbursement time.Time, tenor int) (*domain.SchedulePreviewResponse, error) {
	args := m.Called(disbursement, tenor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SchedulePreviewResponse), args.Error(1)
}

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Apply(ctx context.Context, request *domain.ApplyLoanRequest) (*domain.Application, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) Approve(ctx context.Context, applicationID string) (*domain.Loan, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockApplicationService) Reject(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationService) Disburse(ctx context.Context, applicationID string, request *domain.DisburseLoanRequest) (*domain.DisburseLoanResponse, error) {
	args := m.Called(ctx, applicationID, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisburseLoanResponse), args.Error(1)
}

type MockCashBookService struct {
	mock.Mock
}

func (m *MockCashBookService) Today() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

func (m *MockCashBookService) Location() *time.Location {
	args := m.Called()
	return args.Get(0).(*time.Location)
}

func (m *MockCashBookService) RecordCapital(ctx context.Context, request *domain.RecordCapitalRequest) (*domain.CashEntry, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashEntry), args.Error(1)
}

func (m *MockCashBookService) RecordExpense(ctx context.Context, request *domain.RecordExpenseRequest) (*domain.CashEntry, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashEntry), args.Error(1)
}

func (m *MockCashBookService) TakeTransport(ctx context.Context, request *domain.TakeTransportRequest) (*domain.CashEntry, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashEntry), args.Error(1)
}

func (m *MockCashBookService) GetCashBook(ctx context.Context, from, to time.Time) (*domain.CashBookResponse, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashBookResponse), args.Error(1)
}
