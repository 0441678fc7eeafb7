package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound                      = errors.New("resource not found")
	ErrAlreadyExists                 = errors.New("resource already exists")
	ErrInvalidInput                  = errors.New("invalid input")
	ErrBadRequest                    = errors.New("bad request")
	ErrUnauthorized                  = errors.New("unauthorized")
	ErrInvalidCredentials            = errors.New("invalid credentials")
	ErrOwnershipMismatch             = errors.New("wallet not owned by acting user")
	ErrInsufficientFunds             = errors.New("insufficient funds")
	ErrInsufficientReservedFunds     = errors.New("insufficient reserved funds")
	ErrInsufficientExternalLiquidity = errors.New("insufficient external liquidity")
	ErrExchangeRateNotFound          = errors.New("exchange rate not found")
	ErrInvalidStatusTransition       = errors.New("invalid status transition")
	ErrInvalidTransactionType        = errors.New("invalid transaction type")
	ErrPersistence                   = errors.New("persistence failure")
)

// AppError represents an application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    status,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, ErrUnauthorized)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, message, ErrAlreadyExists)
}

func UnprocessableEntity(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "internal server error", err)
}

// Persistence wraps a transient store error. It is the only error class a
// caller may retry: no partial effect remains after rollback.
func Persistence(err error) error {
	return &AppError{
		Status:  http.StatusServiceUnavailable,
		Code:    http.StatusServiceUnavailable,
		Message: "persistence failure",
		Err:     errors.Join(ErrPersistence, err),
	}
}
