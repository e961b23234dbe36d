package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsEntry is one row of a member's savings book (simpanan)
type SavingsEntry struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	MemberID   string          `json:"member_id" db:"member_id"`
	Deposit    decimal.Decimal `json:"deposit" db:"deposit"`
	Withdrawal decimal.Decimal `json:"withdrawal" db:"withdrawal"`
	Officer    string          `json:"officer" db:"officer"`
	Note       string          `json:"note" db:"note"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

const (
	MutationIn  = "in"
	MutationOut = "out"
)

const (
	MutationCategorySavings     = "savings"
	MutationCategoryLoan        = "loan"
	MutationCategoryAdmin       = "admin"
	MutationCategoryInstallment = "installment"
)

// Mutation is a line in the member's account history
type Mutation struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

type BalanceResponse struct {
	MemberID string          `json:"member_id"`
	Balance  decimal.Decimal `json:"balance"`
}

type WithdrawSavingsRequest struct {
	MemberID string          `json:"-"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Officer  string          `json:"officer" validate:"required"`
	Note     string          `json:"note,omitempty"`
}

type WithdrawSavingsResponse struct {
	Entry   *SavingsEntry   `json:"entry"`
	Balance decimal.Decimal `json:"balance"`
}
