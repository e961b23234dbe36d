package repository

import (
	"context"

	"github.com/segyhp/coop-billing/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type savingsRepository struct {
	db *sqlx.DB
}

func NewSavingsRepository(db *sqlx.DB) SavingsRepository {
	return &savingsRepository{db: db}
}

func (r *savingsRepository) Create(ctx context.Context, entry *domain.SavingsEntry) error {
	query := `
		INSERT INTO savings (id, member_id, deposit, withdrawal, officer, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		entry.ID,
		entry.MemberID,
		entry.Deposit,
		entry.Withdrawal,
		entry.Officer,
		entry.Note,
		entry.CreatedAt,
	)

	return err
}

func (r *savingsRepository) GetByMemberID(ctx context.Context, memberID string) ([]*domain.SavingsEntry, error) {
	query := `
		SELECT id, member_id, deposit, withdrawal, officer, note, created_at
		FROM savings
		WHERE member_id = $1
		ORDER BY created_at
	`

	var entries []*domain.SavingsEntry
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &entries, query, memberID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *savingsRepository) GetBalance(ctx context.Context, memberID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(deposit - withdrawal), 0)
		FROM savings
		WHERE member_id = $1
	`

	var balance decimal.Decimal
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &balance, query, memberID)
	if err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

func (r *savingsRepository) GetBalanceForUpdate(ctx context.Context, memberID string) (decimal.Decimal, error) {
	// Aggregates cannot take row locks, so lock first and sum in a second
	// statement that sees whatever the previous holder committed
	lock := `
		SELECT id
		FROM savings
		WHERE member_id = $1
		FOR UPDATE
	`

	var ids []string
	if err := sqlx.SelectContext(ctx, executor(ctx, r.db), &ids, lock, memberID); err != nil {
		return decimal.Zero, err
	}

	return r.GetBalance(ctx, memberID)
}
