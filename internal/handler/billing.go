package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/internal/export"
	"github.com/segyhp/coop-billing/pkg/response"
	"github.com/segyhp/coop-billing/pkg/utils"

	"github.com/shopspring/decimal"
)

// BillingService is what the billing endpoints need from the service layer
type BillingService interface {
	Today() time.Time
	Location() *time.Location
	GetLoanCoupons(ctx context.Context, loanID string, today time.Time) (*domain.CouponLedgerResponse, error)
	GetNextSchedule(ctx context.Context, memberID string, today time.Time) (*domain.NextSchedule, error)
	GetOutstanding(ctx context.Context, loanID string) (decimal.Decimal, error)
	IsDelinquent(ctx context.Context, loanID string, today time.Time) (*domain.DelinquentResponse, error)
	MakePayment(ctx context.Context, request *domain.MakePaymentRequest) (*domain.MakePaymentResponse, error)
	WithdrawSavings(ctx context.Context, request *domain.WithdrawSavingsRequest) (*domain.WithdrawSavingsResponse, error)
	GetMemberBalance(ctx context.Context, memberID string) (*domain.BalanceResponse, error)
	GetMutations(ctx context.Context, memberID string) ([]domain.Mutation, error)
	PreviewSchedule(disbursement time.Time, tenor int) (*domain.SchedulePreviewResponse, error)
}

type BillingHandler struct {
	service   BillingService
	validator *validator.Validate
}

func NewBillingHandler(service BillingService) *BillingHandler {
	return &BillingHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// today reads the optional ?today=YYYY-MM-DD override, defaulting to the
// service's business date
func (h *BillingHandler) today(r *http.Request) (time.Time, error) {
	value := r.URL.Query().Get("today")
	if value == "" {
		return h.service.Today(), nil
	}
	return utils.ParseDate(value, h.service.Location())
}

// GetLoanCoupons handles GET /api/v1/loans/{loanId}/coupons
func (h *BillingHandler) GetLoanCoupons(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		response.BadRequest(w, "today must be YYYY-MM-DD", err)
		return
	}

	ledger, err := h.service.GetLoanCoupons(r.Context(), mux.Vars(r)["loanId"], today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, ledger)
}

// ExportLoanCoupons handles GET /api/v1/loans/{loanId}/coupons.xlsx
func (h *BillingHandler) ExportLoanCoupons(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		response.BadRequest(w, "today must be YYYY-MM-DD", err)
		return
	}

	ledger, err := h.service.GetLoanCoupons(r.Context(), mux.Vars(r)["loanId"], today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	data, filename, err := export.CouponLedgerXLSX(ledger, today)
	if err != nil {
		response.InternalServerError(w, "Failed to build spreadsheet", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// GetOutstanding handles GET /api/v1/loans/{loanId}/outstanding
func (h *BillingHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	loanID := mux.Vars(r)["loanId"]

	outstanding, err := h.service.GetOutstanding(r.Context(), loanID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, domain.OutstandingResponse{
		LoanID:      loanID,
		Outstanding: outstanding,
	})
}

// IsDelinquent handles GET /api/v1/loans/{loanId}/delinquent
func (h *BillingHandler) IsDelinquent(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		response.BadRequest(w, "today must be YYYY-MM-DD", err)
		return
	}

	result, err := h.service.IsDelinquent(r.Context(), mux.Vars(r)["loanId"], today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, result)
}

// MakePayment handles POST /api/v1/loans/{loanId}/payments
func (h *BillingHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	var request domain.MakePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	request.LoanID = mux.Vars(r)["loanId"]

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.MakePayment(r.Context(), &request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, result)
}

// GetNextSchedule handles GET /api/v1/members/{memberId}/next-schedule.
// A member with nothing to pay gets a null data field.
func (h *BillingHandler) GetNextSchedule(w http.ResponseWriter, r *http.Request) {
	today, err := h.today(r)
	if err != nil {
		response.BadRequest(w, "today must be YYYY-MM-DD", err)
		return
	}

	next, err := h.service.GetNextSchedule(r.Context(), mux.Vars(r)["memberId"], today)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, next)
}

// WithdrawSavings handles POST /api/v1/members/{memberId}/savings/withdrawals
func (h *BillingHandler) WithdrawSavings(w http.ResponseWriter, r *http.Request) {
	var request domain.WithdrawSavingsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	request.MemberID = mux.Vars(r)["memberId"]

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.WithdrawSavings(r.Context(), &request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, result)
}

// GetMemberBalance handles GET /api/v1/members/{memberId}/balance
func (h *BillingHandler) GetMemberBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.GetMemberBalance(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, balance)
}

// GetMutations handles GET /api/v1/members/{memberId}/mutations
func (h *BillingHandler) GetMutations(w http.ResponseWriter, r *http.Request) {
	mutations, err := h.service.GetMutations(r.Context(), mux.Vars(r)["memberId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, mutations)
}

// PreviewSchedule handles GET /api/v1/schedule/preview?date=YYYY-MM-DD&tenor=N
func (h *BillingHandler) PreviewSchedule(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := utils.ParseDate(query.Get("date"), h.service.Location())
	if err != nil {
		response.BadRequest(w, "date must be YYYY-MM-DD", err)
		return
	}

	tenor, err := strconv.Atoi(query.Get("tenor"))
	if err != nil {
		response.BadRequest(w, "tenor must be a number", err)
		return
	}

	preview, err := h.service.PreviewSchedule(date, tenor)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, preview)
}
