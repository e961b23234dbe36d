package repository

import (
	"context"

	"github.com/segyhp/coop-billing/internal/domain"

	"github.com/jmoiron/sqlx"
)

type paymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Installment) error {
	query := `
		INSERT INTO installments (id, loan_id, member_id, amount, savings_applied, remaining_debt, collector, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		payment.ID,
		payment.LoanID,
		payment.MemberID,
		payment.Amount,
		payment.SavingsApplied,
		payment.RemainingDebt,
		payment.Collector,
		payment.PaidAt,
	)

	return err
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Installment, error) {
	query := `
		SELECT id, loan_id, member_id, amount, savings_applied, remaining_debt, collector, paid_at
		FROM installments
		WHERE loan_id = $1
		ORDER BY paid_at
	`

	var payments []*domain.Installment
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &payments, query, loanID)
	if err != nil {
		return nil, err
	}

	return payments, nil
}
