package schedule

import (
	"time"

	"github.com/segyhp/coop-billing/internal/domain"
	customError "github.com/segyhp/coop-billing/pkg/errors"
	"github.com/segyhp/coop-billing/pkg/utils"

	"github.com/shopspring/decimal"
)

// ledger is the state carried through the reconciliation fold
type ledger struct {
	pool    decimal.Decimal
	coupons []domain.Coupon
}

// Reconcile classifies every schedule entry against a single pool of repaid
// money, oldest period first. A negative amountRepaid is treated as nothing
// repaid.
func Reconcile(entries []domain.ScheduleEntry, nominalDue, amountRepaid decimal.Decimal, today time.Time) ([]domain.Coupon, error) {
	if !nominalDue.IsPositive() {
		return nil, customError.WrapInvalidInput("nominal due must be positive, got %s", nominalDue.String())
	}
	if amountRepaid.IsNegative() {
		amountRepaid = decimal.Zero
	}

	today = utils.TruncateToDate(today)
	state := ledger{
		pool:    amountRepaid,
		coupons: make([]domain.Coupon, 0, len(entries)),
	}
	for _, entry := range entries {
		state = allocate(state, entry, nominalDue, today)
	}

	return state.coupons, nil
}

func allocate(state ledger, entry domain.ScheduleEntry, nominalDue decimal.Decimal, today time.Time) ledger {
	coupon := domain.Coupon{
		Period:     entry.Period,
		DueDate:    entry.DueDate,
		NominalDue: nominalDue,
	}

	switch {
	case state.pool.GreaterThanOrEqual(nominalDue):
		coupon.RemainingOwed = decimal.Zero
		coupon.Status = domain.CouponFullyPaid
		state.pool = state.pool.Sub(nominalDue)
	case state.pool.IsPositive():
		coupon.RemainingOwed = nominalDue.Sub(state.pool)
		coupon.Status = domain.CouponPartiallyPaid
		state.pool = decimal.Zero
	default:
		coupon.RemainingOwed = nominalDue
		coupon.Status = domain.CouponUpcoming
		if utils.IsDateBefore(entry.DueDate, today) {
			coupon.Status = domain.CouponOverdue
		}
	}

	state.coupons = append(state.coupons, coupon)
	return state
}

// NextDue returns the member's current obligation, or nil when every coupon
// is paid.
//
// Overdue coupons are summed into one figure reported against the earliest
// overdue date. Otherwise the first coupon that is not fully paid is
// returned unchanged.
func NextDue(coupons []domain.Coupon) *domain.NextSchedule {
	var next *domain.NextSchedule
	for _, c := range coupons {
		if c.Status != domain.CouponOverdue {
			continue
		}
		if next == nil {
			next = &domain.NextSchedule{
				Period:    c.Period,
				DueDate:   c.DueDate,
				AmountDue: decimal.Zero,
				Status:    domain.CouponOverdue,
			}
		}
		next.AmountDue = next.AmountDue.Add(c.RemainingOwed)
		next.OverdueCount++
	}
	if next != nil {
		return next
	}

	for _, c := range coupons {
		if c.Status != domain.CouponFullyPaid {
			return &domain.NextSchedule{
				Period:    c.Period,
				DueDate:   c.DueDate,
				AmountDue: c.RemainingOwed,
				Status:    c.Status,
			}
		}
	}

	return nil
}

// Summarize totals a coupon ledger by status
func Summarize(coupons []domain.Coupon) domain.LedgerSummary {
	summary := domain.LedgerSummary{
		Periods:       len(coupons),
		OverdueAmount: decimal.Zero,
		Outstanding:   decimal.Zero,
		Allocated:     decimal.Zero,
	}

	for _, c := range coupons {
		switch c.Status {
		case domain.CouponFullyPaid:
			summary.Paid++
		case domain.CouponPartiallyPaid:
			summary.PartiallyPaid++
		case domain.CouponOverdue:
			summary.Overdue++
			summary.OverdueAmount = summary.OverdueAmount.Add(c.RemainingOwed)
		case domain.CouponUpcoming:
			summary.Upcoming++
		}
		summary.Outstanding = summary.Outstanding.Add(c.RemainingOwed)
		summary.Allocated = summary.Allocated.Add(c.NominalDue.Sub(c.RemainingOwed))
	}

	return summary
}

// Build generates and reconciles the coupon ledger for a loan's terms
func Build(terms domain.LoanTerms, today time.Time) ([]domain.Coupon, error) {
	entries, err := Generate(terms.DisbursementDate, terms.Tenor)
	if err != nil {
		return nil, err
	}
	return Reconcile(entries, terms.InstallmentAmount, terms.AmountRepaid(), today)
}
