package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CouponStatus classifies one installment after reconciliation
type CouponStatus int

const (
	CouponFullyPaid CouponStatus = iota
	CouponPartiallyPaid
	CouponOverdue
	CouponUpcoming
)

var couponStatusNames = map[CouponStatus]string{
	CouponFullyPaid:     "paid",
	CouponPartiallyPaid: "partial",
	CouponOverdue:       "overdue",
	CouponUpcoming:      "upcoming",
}

func (s CouponStatus) String() string {
	if name, ok := couponStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("CouponStatus(%d)", int(s))
}

func (s CouponStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CouponStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for status, n := range couponStatusNames {
		if n == name {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("unknown coupon status %q", name)
}

// ScheduleEntry is one due date in a loan's billing schedule
type ScheduleEntry struct {
	Period  int       `json:"period"`
	DueDate time.Time `json:"due_date"`
}

// Coupon is a schedule entry reconciled against the amount repaid
type Coupon struct {
	Period        int             `json:"period"`
	DueDate       time.Time       `json:"due_date"`
	NominalDue    decimal.Decimal `json:"nominal_due"`
	RemainingOwed decimal.Decimal `json:"remaining_owed"`
	Status        CouponStatus    `json:"status"`
}

// NextSchedule is what the member owes right now. When anything is overdue it
// aggregates every overdue coupon against the earliest overdue date.
type NextSchedule struct {
	LoanID       string          `json:"loan_id,omitempty"`
	Period       int             `json:"period"`
	DueDate      time.Time       `json:"due_date"`
	AmountDue    decimal.Decimal `json:"amount_due"`
	Status       CouponStatus    `json:"status"`
	OverdueCount int             `json:"overdue_count"`
}

// LedgerSummary totals a coupon ledger by status
type LedgerSummary struct {
	Periods       int             `json:"periods"`
	Paid          int             `json:"paid"`
	PartiallyPaid int             `json:"partially_paid"`
	Overdue       int             `json:"overdue"`
	Upcoming      int             `json:"upcoming"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	Allocated     decimal.Decimal `json:"allocated"`
}

type SchedulePreviewResponse struct {
	DisbursementDate time.Time       `json:"disbursement_date"`
	Tenor            int             `json:"tenor"`
	Interval         int             `json:"interval"`
	Schedule         []ScheduleEntry `json:"schedule"`
}

// CouponLedgerResponse is the detailed loan view
type CouponLedgerResponse struct {
	Loan    *Loan         `json:"loan"`
	Coupons []Coupon      `json:"coupons"`
	Summary LedgerSummary `json:"summary"`
	Next    *NextSchedule `json:"next,omitempty"`
}
