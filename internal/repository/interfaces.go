package repository

import (
	"context"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"

	"github.com/shopspring/decimal"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanID retrieves a loan by its loan ID
	GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error)

	// GetByLoanIDForUpdate retrieves a loan and row-locks it until the
	// surrounding transaction ends. Only meaningful inside WithinTx.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error)

	// GetByMemberID retrieves a member's loans, oldest approval first
	GetByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error)

	// ListOpen retrieves every loan still being billed (Aktif or Macet)
	ListOpen(ctx context.Context) ([]*domain.Loan, error)

	// Update persists remaining debt and status
	Update(ctx context.Context, loan *domain.Loan) error

	// UpdateStatus writes loan.Status if the stored row still has status from
	// and loan.RemainingDebt. It reports false when the row had moved on.
	UpdateStatus(ctx context.Context, loan *domain.Loan, from string) (bool, error)
}

// ApplicationRepository defines the interface for loan application operations
type ApplicationRepository interface {
	Create(ctx context.Context, application *domain.Application) error
	GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error)
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error)
	UpdateStatus(ctx context.Context, applicationID string, status string) error
}

// PaymentRepository defines the interface for installment payment operations
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *domain.Installment) error

	// GetByLoanID retrieves all payments for a loan
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error)
}

// SavingsRepository defines the interface for the member savings book
type SavingsRepository interface {
	Create(ctx context.Context, entry *domain.SavingsEntry) error
	GetByMemberID(ctx context.Context, memberID string) ([]*domain.SavingsEntry, error)

	// GetBalance returns total deposits minus total withdrawals
	GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error)

	// GetBalanceForUpdate locks the member's savings rows before summing them,
	// so concurrent withdrawals inside WithinTx see each other
	GetBalanceForUpdate(ctx context.Context, memberID string) (decimal.Decimal, error)
}

// CashBookRepository defines the interface for the cooperative's cash book
type CashBookRepository interface {
	Create(ctx context.Context, entry *domain.CashEntry) error
	List(ctx context.Context, from, to time.Time) ([]*domain.CashEntry, error)

	// GetTotals sums cash in and cash out per kind
	GetTotals(ctx context.Context) ([]domain.CashTotal, error)
}

// ReminderLog remembers which due-date reminders were already sent
type ReminderLog interface {
	// MarkSent records a reminder and reports whether it was new
	MarkSent(ctx context.Context, loanID string, dueDate time.Time, ttl time.Duration) (bool, error)
}

// TransportLog remembers which collectors already took their daily
// transport allowance
type TransportLog interface {
	// Claim records the allowance for officer on day and reports whether it
	// was still available
	Claim(ctx context.Context, officer string, day time.Time, ttl time.Duration) (bool, error)

	// Release undoes a claim whose cash entry could not be written
	Release(ctx context.Context, officer string, day time.Time) error
}

// TxManager runs fn inside one database transaction. Repositories called
// with the ctx passed to fn join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
