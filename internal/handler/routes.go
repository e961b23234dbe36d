package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/segyhp/coop-billing/pkg/response"
)

// NewRouter wires every endpoint behind the request logger
func NewRouter(billing *BillingHandler, applications *ApplicationHandler, cash *CashBookHandler, health *HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	// Health check
	router.HandleFunc("/health", health.Health).Methods("GET")
	router.HandleFunc("/health/ready", health.Ready).Methods("GET")

	// API routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans/{loanId}/coupons.xlsx", billing.ExportLoanCoupons).Methods("GET")
	api.HandleFunc("/loans/{loanId}/coupons", billing.GetLoanCoupons).Methods("GET")
	api.HandleFunc("/loans/{loanId}/outstanding", billing.GetOutstanding).Methods("GET")
	api.HandleFunc("/loans/{loanId}/delinquent", billing.IsDelinquent).Methods("GET")
	api.HandleFunc("/loans/{loanId}/payments", billing.MakePayment).Methods("POST")

	api.HandleFunc("/members/{memberId}/next-schedule", billing.GetNextSchedule).Methods("GET")
	api.HandleFunc("/members/{memberId}/balance", billing.GetMemberBalance).Methods("GET")
	api.HandleFunc("/members/{memberId}/mutations", billing.GetMutations).Methods("GET")
	api.HandleFunc("/members/{memberId}/savings/withdrawals", billing.WithdrawSavings).Methods("POST")

	api.HandleFunc("/schedule/preview", billing.PreviewSchedule).Methods("GET")

	api.HandleFunc("/applications", applications.Apply).Methods("POST")
	api.HandleFunc("/applications/{applicationId}/approve", applications.Approve).Methods("POST")
	api.HandleFunc("/applications/{applicationId}/reject", applications.Reject).Methods("POST")
	api.HandleFunc("/applications/{applicationId}/disburse", applications.Disburse).Methods("POST")

	api.HandleFunc("/cashbook", cash.GetCashBook).Methods("GET")
	api.HandleFunc("/cashbook/capital", cash.RecordCapital).Methods("POST")
	api.HandleFunc("/cashbook/expenses", cash.RecordExpense).Methods("POST")
	api.HandleFunc("/cashbook/transport", cash.TakeTransport).Methods("POST")

	return router
}
