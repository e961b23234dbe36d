// Package testutil holds testify mocks shared by the service and handler tests.
package testutil

import (
	"context"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListOpen(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateStatus(ctx context.Context, loan *domain.Loan, from string) (bool, error) {
	args := m.Called(ctx, loan, from)
	return args.Bool(0), args.Error(1)
}

type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *domain.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepository) UpdateStatus(ctx context.Context, applicationID string, status string) error {
	args := m.Called(ctx, applicationID, status)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Installment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

type MockSavingsRepository struct {
	mock.Mock
}

func (m *MockSavingsRepository) Create(ctx context.Context, entry *domain.SavingsEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSavingsRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.SavingsEntry, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SavingsEntry), args.Error(1)
}

func (m *MockSavingsRepository) GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSavingsRepository) GetBalanceForUpdate(ctx context.Context, memberID string) (decimal.Decimal, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

type MockCashBookRepository struct {
	mock.Mock
}

func (m *MockCashBookRepository) Create(ctx context.Context, entry *domain.CashEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCashBookRepository) List(ctx context.Context, from, to time.Time) ([]*domain.CashEntry, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CashEntry), args.Error(1)
}

func (m *MockCashBookRepository) GetTotals(ctx context.Context) ([]domain.CashTotal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashTotal), args.Error(1)
}

type MockReminderLog struct {
	mock.Mock
}

func (m *MockReminderLog) MarkSent(ctx context.Context, loanID string, dueDate time.Time, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, loanID, dueDate, ttl)
	return args.Bool(0), args.Error(1)
}

type MockTransportLog struct {
	mock.Mock
}

func (m *MockTransportLog) Claim(ctx context.Context, officer string, day time.Time, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, officer, day, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransportLog) Release(ctx context.Context, officer string, day time.Time) error {
	args := m.Called(ctx, officer, day)
	return args.Error(0)
}

// FakeTxManager runs fn directly, without a transaction
type FakeTxManager struct {
	Calls int
}

func (f *FakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.Calls++
	return fn(ctx)
}
