package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/coop-billing/internal/config"
	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/internal/repository"
	customError "github.com/segyhp/coop-billing/pkg/errors"
	"github.com/segyhp/coop-billing/pkg/utils"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// transportClaimTTL outlives the business day the claim is keyed on
const transportClaimTTL = 48 * time.Hour

// CashBookService keeps the cooperative's central cash book: capital paid in
// by admins, operating expenses and the collectors' daily transport money
type CashBookService struct {
	CashRepo     repository.CashBookRepository
	TransportLog repository.TransportLog
	config       *config.Config
	location     *time.Location
	now          func() time.Time
}

func NewCashBookService(
	cashRepo repository.CashBookRepository,
	transportLog repository.TransportLog,
	config *config.Config,
) *CashBookService {
	return &CashBookService{
		CashRepo:     cashRepo,
		TransportLog: transportLog,
		config:       config,
		location:     config.GetLocation(),
		now:          time.Now,
	}
}

// Today is the current business date in the configured location
func (s *CashBookService) Today() time.Time {
	return utils.TruncateToDate(s.now().In(s.location))
}

// Location is the business calendar location
func (s *CashBookService) Location() *time.Location {
	return s.location
}

// RecordCapital books capital paid into the cash book (modal awal)
func (s *CashBookService) RecordCapital(ctx context.Context, request *domain.RecordCapitalRequest) (*domain.CashEntry, error) {
	if !isWholeAmount(request.Amount) {
		return nil, customError.WrapInvalidInput("amount must be a positive whole number, got %s", request.Amount.String())
	}

	return s.record(ctx, &domain.CashEntry{
		Kind:        domain.CashKindCapital,
		Description: request.Description,
		Amount:      request.Amount,
		Officer:     request.Admin,
	})
}

// RecordExpense books an operating expense (pengeluaran)
func (s *CashBookService) RecordExpense(ctx context.Context, request *domain.RecordExpenseRequest) (*domain.CashEntry, error) {
	if !isWholeAmount(request.Amount) {
		return nil, customError.WrapInvalidInput("amount must be a positive whole number, got %s", request.Amount.String())
	}

	return s.record(ctx, &domain.CashEntry{
		Kind:        domain.CashKindExpense,
		Category:    request.Category,
		Description: request.Description,
		Amount:      request.Amount,
		Officer:     request.Officer,
	})
}

// TakeTransport pays a collector the configured transport allowance, at most
// once per business day
func (s *CashBookService) TakeTransport(ctx context.Context, request *domain.TakeTransportRequest) (*domain.CashEntry, error) {
	today := s.Today()

	claimed, err := s.TransportLog.Claim(ctx, request.Officer, today, transportClaimTTL)
	if err != nil {
		return nil, customError.WrapCacheError(err)
	}
	if !claimed {
		return nil, customError.WrapTransportTaken(request.Officer, today.Format(utils.DateLayout))
	}

	entry, err := s.record(ctx, &domain.CashEntry{
		Kind:        domain.CashKindTransport,
		Category:    "Transport",
		Description: "Transport allowance " + today.Format(utils.DateLayout),
		Amount:      decimal.NewFromInt(s.config.Business.TransportAllowance),
		Officer:     request.Officer,
	})
	if err != nil {
		if releaseErr := s.TransportLog.Release(ctx, request.Officer, today); releaseErr != nil {
			log.Error().Err(releaseErr).Str("officer", request.Officer).Msg("Failed to release transport claim")
		}
		return nil, err
	}

	return entry, nil
}

func (s *CashBookService) record(ctx context.Context, entry *domain.CashEntry) (*domain.CashEntry, error) {
	entry.ID = uuid.New()
	entry.CreatedAt = s.now()

	if err := s.CashRepo.Create(ctx, entry); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	log.Info().
		Str("kind", entry.Kind).
		Str("category", entry.Category).
		Str("amount", entry.Amount.String()).
		Str("officer", entry.Officer).
		Msg("Cash book entry recorded")

	return entry, nil
}

// GetCashBook returns the all-time totals and the entries dated from..to,
// both days inclusive
func (s *CashBookService) GetCashBook(ctx context.Context, from, to time.Time) (*domain.CashBookResponse, error) {
	from = utils.TruncateToDate(from.In(s.location))
	to = utils.TruncateToDate(to.In(s.location))
	if to.Before(from) {
		return nil, customError.WrapInvalidInput("from %s is after to %s", from.Format(utils.DateLayout), to.Format(utils.DateLayout))
	}

	totals, err := s.CashRepo.GetTotals(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	entries, err := s.CashRepo.List(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.CashBookResponse{
		Summary: summarizeCash(totals),
		Entries: entries,
	}, nil
}

func summarizeCash(totals []domain.CashTotal) domain.CashBookSummary {
	summary := domain.CashBookSummary{
		Capital:   decimal.Zero,
		Expenses:  decimal.Zero,
		Transport: decimal.Zero,
	}
	for _, t := range totals {
		switch t.Kind {
		case domain.CashKindCapital:
			summary.Capital = summary.Capital.Add(t.Total)
		case domain.CashKindExpense:
			summary.Expenses = summary.Expenses.Add(t.Total)
		case domain.CashKindTransport:
			summary.Transport = summary.Transport.Add(t.Total)
		}
	}
	summary.Balance = summary.Capital.Sub(summary.Expenses).Sub(summary.Transport)
	return summary
}
