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

type applicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.Application) error {
	query := `
		INSERT INTO loan_applications (id, application_id, member_id, member_name, amount, tenor, collector, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query,
		application.ID,
		application.ApplicationID,
		application.MemberID,
		application.MemberName,
		application.Amount,
		application.Tenor,
		application.Collector,
		application.Status,
		application.CreatedAt,
		application.UpdatedAt,
	)

	return err
}

func (r *applicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	return r.getByApplicationID(ctx, applicationID, "")
}

func (r *applicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error) {
	return r.getByApplicationID(ctx, applicationID, "FOR UPDATE")
}

func (r *applicationRepository) getByApplicationID(ctx context.Context, applicationID, lock string) (*domain.Application, error) {
	query := `
		SELECT id, application_id, member_id, member_name, amount, tenor, collector, status, created_at, updated_at
		FROM loan_applications
		WHERE application_id = $1
		` + lock

	var application domain.Application
	err := sqlx.GetContext(ctx, executor(ctx, r.db), &application, query, applicationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, customError.WrapApplicationNotFound(applicationID)
	}
	if err != nil {
		return nil, err
	}

	return &application, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, applicationID string, status string) error {
	query := `
		UPDATE loan_applications
		SET status = $2, updated_at = $3
		WHERE application_id = $1
	`

	_, err := executor(ctx, r.db).ExecContext(ctx, query, applicationID, status, time.Now())
	return err
}
