package repository

import (
	"context"
	"time"

	"github.com/segyhp/coop-billing/internal/domain"

	"github.com/jmoiron/sqlx"
)

type cashBookRepository struct {
	db *sqlx.DB
}

func NewCashBookRepository(db *sqlx.DB) CashBookRepository {
	return &cashBookRepository{db: db}
}

func (r *cashBookRepository) Create(ctx context.Context, entry *domain.CashEntry) error {
	query := `
		INSERT INTO cash_book (id, kind, category, description, amount, officer, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		entry.ID,
		entry.Kind,
		entry.Category,
		entry.Description,
		entry.Amount,
		entry.Officer,
		entry.CreatedAt,
	)

	return err
}

// List returns entries created in [from, to), newest first
func (r *cashBookRepository) List(ctx context.Context, from, to time.Time) ([]*domain.CashEntry, error) {
	query := `
		SELECT id, kind, category, description, amount, officer, created_at
		FROM cash_book
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC
	`

	var entries []*domain.CashEntry
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &entries, query, from, to)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *cashBookRepository) GetTotals(ctx context.Context) ([]domain.CashTotal, error) {
	query := `
		SELECT kind, COALESCE(SUM(amount), 0) AS total
		FROM cash_book
		GROUP BY kind
		ORDER BY kind
	`

	var totals []domain.CashTotal
	err := sqlx.SelectContext(ctx, executor(ctx, r.db), &totals, query)
	if err != nil {
		return nil, err
	}

	return totals, nil
}
