package handler

import (
	"errors"
	"net/http"

	customError "github.com/segyhp/coop-billing/pkg/errors"
	"github.com/segyhp/coop-billing/pkg/response"

	"github.com/rs/zerolog/log"
)

var statusByCode = map[string]int{
	customError.ErrCodeInvalidInput:         http.StatusBadRequest,
	customError.ErrCodeInvalidPaymentAmount: http.StatusBadRequest,
	customError.ErrCodeLoanNotFound:         http.StatusNotFound,
	customError.ErrCodeApplicationNotFound:  http.StatusNotFound,
	customError.ErrCodeLoanAlreadyClosed:    http.StatusConflict,
	customError.ErrCodeInvalidTransition:    http.StatusConflict,
	customError.ErrCodeInsufficientSavings:  http.StatusConflict,
	customError.ErrCodeTransportTaken:       http.StatusConflict,
}

// writeError maps a service error onto an HTTP status and writes it
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var be *customError.BusinessError
	if !errors.As(err, &be) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		response.InternalServerError(w, "Internal server error", nil)
		return
	}

	status, ok := statusByCode[be.Code]
	if !ok {
		log.Error().Err(err).Str("code", be.Code).Str("path", r.URL.Path).Msg("Request failed")
		response.InternalServerError(w, be.Message, nil)
		return
	}

	response.Error(w, status, be.Message, errors.New(be.Code))
}
