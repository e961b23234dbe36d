package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ApplicationStatusPending   = "Pending"
	ApplicationStatusApproved  = "Approved"
	ApplicationStatusRejected  = "Rejected"
	ApplicationStatusDisbursed = "Disbursed"
)

// Loan products offered by the cooperative
var (
	LoanAmounts  = []int64{300000, 400000, 500000, 600000, 700000, 800000, 900000, 1000000, 1500000, 2000000, 2500000, 3000000}
	TenorOptions = []int{4, 12, 14, 16, 18, 20, 24}
)

// Disbursement deductions, in percent of principal
const (
	AdminFeePercent   = 5
	SavingsCutPercent = 5
)

// Application is a loan request (pengajuan) filed by a collector for a member
type Application struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	ApplicationID string          `json:"application_id" db:"application_id"`
	MemberID      string          `json:"member_id" db:"member_id"`
	MemberName    string          `json:"member_name" db:"member_name"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Tenor         int             `json:"tenor" db:"tenor"`
	Collector     string          `json:"collector" db:"collector"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type ApplyLoanRequest struct {
	MemberID   string          `json:"member_id" validate:"required"`
	MemberName string          `json:"member_name" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"required,loan_amount"`
	Tenor      int             `json:"tenor" validate:"required,tenor_option"`
	Collector  string          `json:"collector" validate:"required"`
}

type DisburseLoanRequest struct {
	Officer string `json:"officer" validate:"required"`
	// DeductSavings moves the mandatory 5% savings cut into the member's savings
	DeductSavings bool `json:"deduct_savings"`
	// DisbursedOn overrides the disbursement date (YYYY-MM-DD); defaults to today
	DisbursedOn string `json:"disbursed_on,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type DisburseLoanResponse struct {
	Loan         *Loan           `json:"loan"`
	AdminFee     decimal.Decimal `json:"admin_fee"`
	SavingsCut   decimal.Decimal `json:"savings_cut"`
	NetDisbursed decimal.Decimal `json:"net_disbursed"`
	Schedule     []ScheduleEntry `json:"schedule"`
}
