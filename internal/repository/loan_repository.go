package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"
	customError "github.com/segyhp/coop-billing/pkg/errors"

	"github.com/jmoiron/sqlx"
)

const loanColumns = `id, loan_id, member_id, member_name, application_id, principal, interest_rate, total_debt,
		tenor, installment, remaining_debt, status, collector, approved_at, disbursed_at, created_at, updated_at`

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		loan.ID,
		loan.LoanID,
		loan.MemberID,
		loan.MemberName,
		loan.ApplicationID,
		loan.Principal,
		loan.InterestRate,
		loan.TotalDebt,
		loan.Tenor,
		loan.Installment,
		loan.RemainingDebt,
		loan.Status,
		loan.Collector,
		loan.ApprovedAt,
		loan.DisbursedAt,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.getByLoanID(ctx, loanID, "")
}

func (r *loanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	return r.getByLoanID(ctx, loanID, "FOR UPDATE")
}

func (r *loanRepository) getByLoanID(ctx context.Context, loanID, lock string) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE loan_id = $1
		` + lock

	var loan domain.Loan
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &loan, query, loanID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapLoanNotFound(loanID)
	}
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE member_id = $1
		ORDER BY approved_at, loan_id
	`

	var loans []*domain.Loan
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &loans, query, memberID)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListOpen(ctx context.Context) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE status IN ($1, $2)
		ORDER BY loan_id
	`

	var loans []*domain.Loan
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &loans, query, domain.LoanStatusActive, domain.LoanStatusDefault)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET remaining_debt = $2, status = $3, disbursed_at = $4, updated_at = $5
		WHERE loan_id = $1
	`

	loan.UpdatedAt = time.Now()
	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		loan.LoanID,
		loan.RemainingDebt,
		loan.Status,
		loan.DisbursedAt,
		loan.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return customError.WrapLoanNotFound(loan.LoanID)
	}

	return nil
}

func (r *loanRepository) UpdateStatus(ctx context.Context, loan *domain.Loan, from string) (bool, error) {
	query := `
		UPDATE loans
		SET status = $4, updated_at = $5
		WHERE loan_id = $1 AND status = $2 AND remaining_debt = $3
	`

	loan.UpdatedAt = time.Now()
	result, err := executor(ctx, r.db).ExecContext(ctx, query,
		loan.LoanID,
		from,
		loan.RemainingDebt,
		loan.Status,
		loan.UpdatedAt,
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows == 1, nil
}
