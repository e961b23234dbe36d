package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is one repayment (angsuran) collected against a loan
type Installment struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	LoanID         string          `json:"loan_id" db:"loan_id"`
	MemberID       string          `json:"member_id" db:"member_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	SavingsApplied decimal.Decimal `json:"savings_applied" db:"savings_applied"`
	RemainingDebt  decimal.Decimal `json:"remaining_debt" db:"remaining_debt"`
	Collector      string          `json:"collector" db:"collector"`
	PaidAt         time.Time       `json:"paid_at" db:"paid_at"`
}

type MakePaymentRequest struct {
	LoanID    string          `json:"-"`
	Amount    decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Collector string          `json:"collector" validate:"required"`
	// UseSavings pays up to Amount out of the member's savings balance
	UseSavings bool `json:"use_savings"`
}

type MakePaymentResponse struct {
	Payment *Installment  `json:"payment"`
	Loan    *Loan         `json:"loan"`
	Next    *NextSchedule `json:"next,omitempty"`
}
