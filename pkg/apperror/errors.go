package apperror

import (
	"fmt"
	"net/http"
)

// AppError is the single application-level error type. It maps to an HTTP
// response and keeps the domain error reachable through Unwrap.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same request may succeed if sent again
// unchanged. Only the SYS_002 and SYS_003 conditions qualify.
func (e *AppError) Retryable() bool {
	return e.HTTPStatus == http.StatusServiceUnavailable
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Account operations (ACC) ----

// ErrAmountNotPositive reports a deposit or withdrawal of zero or less.
// action is the failed operation, e.g. "deposit".
func ErrAmountNotPositive(action string, err error) *AppError {
	return Wrap("ACC_001", fmt.Sprintf("Failed to %s: amount must be positive", action), http.StatusBadRequest, err)
}

func ErrInsufficientFunds(action string, err error) *AppError {
	return Wrap("ACC_002", fmt.Sprintf("Failed to %s: insufficient funds", action), http.StatusUnprocessableEntity, err)
}

func ErrBalanceLimit(action string, err error) *AppError {
	return Wrap("ACC_005", fmt.Sprintf("Failed to %s: balance limit exceeded", action), http.StatusUnprocessableEntity, err)
}

func ErrAccountNotFound(action string, id string, err error) *AppError {
	return Wrap("ACC_003", fmt.Sprintf("Failed to %s: account not found: %s", action, id), http.StatusNotFound, err)
}

func ErrAccountExists(id string, err error) *AppError {
	return Wrap("ACC_004", fmt.Sprintf("Account already exists: %s", id), http.StatusConflict, err)
}

// ---- Validation (VAL) ----

// Validation returns a VAL_001 error for malformed input.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// ValidationWrap is Validation with the underlying parse error attached.
func ValidationWrap(message string, err error) *AppError {
	return Wrap("VAL_001", message, http.StatusBadRequest, err)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrConcurrentUpdate(err error) *AppError {
	return Wrap("SYS_002", "Account is busy, retry the operation", http.StatusServiceUnavailable, err)
}

func ErrStorageUnavailable(err error) *AppError {
	return Wrap("SYS_003", "Storage backend unavailable", http.StatusServiceUnavailable, err)
}
