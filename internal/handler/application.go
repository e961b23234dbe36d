package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/segyhp/coop-billing/internal/domain"
	"github.com/segyhp/coop-billing/pkg/response"
)

// ApplicationService is what the application endpoints need from the service layer
type ApplicationService interface {
	Apply(ctx context.Context, request *domain.ApplyLoanRequest) (*domain.Application, error)
	Approve(ctx context.Context, applicationID string) (*domain.Loan, error)
	Reject(ctx context.Context, applicationID string) (*domain.Application, error)
	Disburse(ctx context.Context, applicationID string, request *domain.DisburseLoanRequest) (*domain.DisburseLoanResponse, error)
}

type ApplicationHandler struct {
	service   ApplicationService
	validator *validator.Validate
}

func NewApplicationHandler(service ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		service:   service,
		validator: NewValidator(),
	}
}

// Apply handles POST /api/v1/applications
func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var request domain.ApplyLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	application, err := h.service.Apply(r.Context(), &request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Created(w, application)
}

// Approve handles POST /api/v1/applications/{applicationId}/approve
func (h *ApplicationHandler) Approve(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Approve(r.Context(), mux.Vars(r)["applicationId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, loan)
}

// Reject handles POST /api/v1/applications/{applicationId}/reject
func (h *ApplicationHandler) Reject(w http.ResponseWriter, r *http.Request) {
	application, err := h.service.Reject(r.Context(), mux.Vars(r)["applicationId"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, application)
}

// Disburse handles POST /api/v1/applications/{applicationId}/disburse
func (h *ApplicationHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	var request domain.DisburseLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	if err := h.validator.Struct(request); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	result, err := h.service.Disburse(r.Context(), mux.Vars(r)["applicationId"], &request)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.Success(w, result)
}
