package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrInvalidPaymentAmount = errors.New("invalid payment amount")
	ErrLoanAlreadyClosed    = errors.New("loan is already closed")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInsufficientSavings  = errors.New("insufficient savings balance")
	ErrTransportTaken       = errors.New("transport allowance already taken")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodeApplicationNotFound  = "APPLICATION_NOT_FOUND"
	ErrCodeInvalidPaymentAmount = "INVALID_PAYMENT_AMOUNT"
	ErrCodeLoanAlreadyClosed    = "LOAN_ALREADY_CLOSED"
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeInsufficientSavings  = "INSUFFICIENT_SAVINGS"
	ErrCodeTransportTaken       = "TRANSPORT_ALREADY_TAKEN"
	ErrCodeDatabaseError        = "DATABASE_ERROR"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// WrapInvalidInput rejects a value at the boundary. The result matches
// ErrInvalidInput under errors.Is.
func WrapInvalidInput(format string, args ...any) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidInput,
		fmt.Sprintf(format, args...),
		ErrInvalidInput,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapApplicationNotFound(applicationID string) *BusinessError {
	return NewBusinessError(
		ErrCodeApplicationNotFound,
		fmt.Sprintf("Application with ID %s not found", applicationID),
		ErrApplicationNotFound,
	)
}

func WrapLoanAlreadyClosed(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyClosed,
		fmt.Sprintf("Loan with ID %s is already closed", loanID),
		ErrLoanAlreadyClosed,
	)
}

func WrapInvalidTransition(entity, event, current string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("cannot %s %s in status %s", event, entity, current),
		ErrInvalidTransition,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapInsufficientSavings(memberID string, balance, requested string) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientSavings,
		fmt.Sprintf("Member %s has %s in savings, cannot withdraw %s", memberID, balance, requested),
		ErrInsufficientSavings,
	)
}

func WrapTransportTaken(officer, day string) *BusinessError {
	return NewBusinessError(
		ErrCodeTransportTaken,
		fmt.Sprintf("%s already took the transport allowance on %s", officer, day),
		ErrTransportTaken,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// CodeOf returns the code of the first BusinessError in err's chain, or an
// empty string.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
