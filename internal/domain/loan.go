package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	LoanStatusActive  = "Aktif"
	LoanStatusPaidOff = "Lunas"
	LoanStatusDefault = "Macet"
)

// Loan is a disbursed loan (pinjaman aktif)
type Loan struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	LoanID        string          `json:"loan_id" db:"loan_id"`
	MemberID      string          `json:"member_id" db:"member_id"`
	MemberName    string          `json:"member_name" db:"member_name"`
	ApplicationID string          `json:"application_id" db:"application_id"`
	Principal     decimal.Decimal `json:"principal" db:"principal"`
	InterestRate  decimal.Decimal `json:"interest_rate" db:"interest_rate"` // percent
	TotalDebt     decimal.Decimal `json:"total_debt" db:"total_debt"`
	Tenor         int             `json:"tenor" db:"tenor"`
	Installment   decimal.Decimal `json:"installment" db:"installment"`
	RemainingDebt decimal.Decimal `json:"remaining_debt" db:"remaining_debt"`
	Status        string          `json:"status" db:"status"`
	Collector     string          `json:"collector" db:"collector"`
	ApprovedAt    time.Time       `json:"approved_at" db:"approved_at"`
	DisbursedAt   *time.Time      `json:"disbursed_at,omitempty" db:"disbursed_at"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

// ScheduleAnchor is the date billing counts from. Loans approved but not yet
// recorded as disbursed fall back to the approval date.
func (l *Loan) ScheduleAnchor() time.Time {
	if l.DisbursedAt != nil && !l.DisbursedAt.IsZero() {
		return *l.DisbursedAt
	}
	return l.ApprovedAt
}

// Terms projects the loan onto the inputs of the schedule engine
func (l *Loan) Terms() LoanTerms {
	return LoanTerms{
		DisbursementDate:  l.ScheduleAnchor(),
		Tenor:             l.Tenor,
		InstallmentAmount: l.Installment,
		TotalDebt:         l.TotalDebt,
		RemainingDebt:     l.RemainingDebt,
	}
}

func (l *Loan) IsOpen() bool {
	return l.Status == LoanStatusActive || l.Status == LoanStatusDefault
}

// LoanTerms is everything the schedule engine needs to know about a loan
type LoanTerms struct {
	DisbursementDate  time.Time       `json:"disbursement_date"`
	Tenor             int             `json:"tenor"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	TotalDebt         decimal.Decimal `json:"total_debt"`
	RemainingDebt     decimal.Decimal `json:"remaining_debt"`
}

// AmountRepaid is TotalDebt - RemainingDebt, kept within [0, TotalDebt]
func (t LoanTerms) AmountRepaid() decimal.Decimal {
	repaid := t.TotalDebt.Sub(t.RemainingDebt)
	if repaid.IsNegative() {
		return decimal.Zero
	}
	if repaid.GreaterThan(t.TotalDebt) && t.TotalDebt.IsPositive() {
		return t.TotalDebt
	}
	return repaid
}

// DTOs for requests and responses

type OutstandingResponse struct {
	LoanID      string          `json:"loan_id"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type DelinquentResponse struct {
	LoanID         string `json:"loan_id"`
	IsDelinquent   bool   `json:"is_delinquent"`
	OverdueCoupons int    `json:"overdue_coupons"`
}
