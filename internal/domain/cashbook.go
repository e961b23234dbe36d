package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash book entry kinds. Capital brings cash in; expenses and transport
// allowances take it out.
const (
	CashKindCapital   = "capital"
	CashKindExpense   = "expense"
	CashKindTransport = "transport"
)

// CashEntry is one line of the cooperative's central cash book (kas)
type CashEntry struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Kind        string          `json:"kind" db:"kind"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Officer     string          `json:"officer" db:"officer"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// CashTotal is the summed amount of one entry kind
type CashTotal struct {
	Kind  string          `json:"kind" db:"kind"`
	Total decimal.Decimal `json:"total" db:"total"`
}

type CashBookSummary struct {
	Capital   decimal.Decimal `json:"capital"`
	Expenses  decimal.Decimal `json:"expenses"`
	Transport decimal.Decimal `json:"transport"`
	Balance   decimal.Decimal `json:"balance"`
}

type CashBookResponse struct {
	Summary CashBookSummary `json:"summary"`
	Entries []*CashEntry    `json:"entries"`
}

type RecordCapitalRequest struct {
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Admin       string          `json:"admin" validate:"required"`
}

type RecordExpenseRequest struct {
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Officer     string          `json:"officer" validate:"required"`
}

type TakeTransportRequest struct {
	Officer string `json:"officer" validate:"required"`
}
