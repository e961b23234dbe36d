package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/pkg/response"
	"github.com/segyhp/coop-billing/pkg/utils"
)

// CashBookService is what the cash book endpoints need from the service layer
type CashBookService interface {
	Today() time.Time
	Location() *time.Location
	RecordCapital(ctx context.Context, request *domain.RecordCapitalRequest) (*domain.CashEntry, error)
	RecordExpense(ctx context.Context, request *domain.RecordExpenseRequest) (*domain.CashEntry, error)
	TakeTransport(ctx context.Context, request *domain.TakeTransportRequest) (*domain.CashEntry, error)
	GetCashBook(ctx context.Context, from, to time.Time) (*domain.CashBookResponse, error)
}

type CashBookHandler struct {
	service   CashBookService
	validator *validator.Validate
}

func NewCashBookHandler(service CashBookService) *CashBookHandler {
	return &CashBookHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// decode reads and validates a JSON body, writing a 400 on failure
func (h *CashBookHandler) decode(w http.ResponseWriter, r *http.Request, request any) bool {
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}
	return true
}

// RecordCapital handles POST /api/v1/cashbook/capital
func (h *CashBookHandler) RecordCapital(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordCapitalRequest
	if !h.decode(w, r, &request) {
		return
	}

	entry, err := h.service.RecordCapital(r.Context(), &request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, entry)
}

// RecordExpense handles POST /api/v1/cashbook/expenses
func (h *CashBookHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordExpenseRequest
	if !h.decode(w, r, &request) {
		return
	}

	entry, err := h.service.RecordExpense(r.Context(), &request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, entry)
}

// TakeTransport handles POST /api/v1/cashbook/transport
func (h *CashBookHandler) TakeTransport(w http.ResponseWriter, r *http.Request) {
	var request domain.TakeTransportRequest
	if !h.decode(w, r, &request) {
		return
	}

	entry, err := h.service.TakeTransport(r.Context(), &request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, entry)
}

// GetCashBook handles GET /api/v1/cashbook?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both bounds default to the business date.
func (h *CashBookHandler) GetCashBook(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	today := h.service.Today()

	from, to := today, today
	var err error
	if value := query.Get("from"); value != "" {
		if from, err = utils.ParseDate(value, h.service.Location()); err != nil {
			response.BadRequest(w, "from must be YYYY-MM-DD", err)
			return
		}
	}
	if value := query.Get("to"); value != "" {
		if to, err = utils.ParseDate(value, h.service.Location()); err != nil {
			response.BadRequest(w, "to must be YYYY-MM-DD", err)
			return
		}
	}

	book, err := h.service.GetCashBook(r.Context(), from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, book)
}
