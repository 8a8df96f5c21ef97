// Package errors provides the typed failures returned by the portfolio core.
// Every service-layer error is an AppError so handlers can render a stable
// code and message without leaking internal details or other owners' data.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError carrying the same code, so a
// wrapped or re-messaged error still matches its sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// As extracts the AppError from err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Authentication errors.
var (
	ErrUnauthorized  = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken  = &AppError{Code: "INVALID_TOKEN", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrInvalidAPIKey = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}

	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Position errors. A position owned by someone else is reported exactly like
// a missing one.
var (
	ErrPositionNotFound       = &AppError{Code: "POSITION_NOT_FOUND", Message: "Position not found", StatusCode: http.StatusNotFound}
	ErrInsufficientQuantity   = &AppError{Code: "INSUFFICIENT_QUANTITY", Message: "Requested quantity exceeds the quantity held", StatusCode: http.StatusBadRequest}
	ErrUnsupportedOperation   = &AppError{Code: "UNSUPPORTED_OPERATION", Message: "Operation is not supported for this asset class", StatusCode: http.StatusBadRequest}
	ErrActiveStake            = &AppError{Code: "POSITION_HAS_ACTIVE_STAKE", Message: "Position has an active staking record", StatusCode: http.StatusConflict}
	ErrConcurrentModification = &AppError{Code: "CONCURRENT_MODIFICATION", Message: "Position was modified concurrently, please retry", StatusCode: http.StatusConflict}
	ErrInvariantViolation     = &AppError{Code: "INVARIANT_VIOLATION", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Staking errors.
var (
	ErrStakeNotFound  = &AppError{Code: "STAKE_NOT_FOUND", Message: "Staking record not found", StatusCode: http.StatusNotFound}
	ErrStakeNotActive = &AppError{Code: "STAKE_NOT_ACTIVE", Message: "Staking record is no longer active", StatusCode: http.StatusBadRequest}
)

// Ledger errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
)

// Price source errors. ErrPriceUnavailable only travels inside price lookup
// results; valuation falls back instead of returning it.
var (
	ErrPriceUnavailable = &AppError{Code: "EXTERNAL_SOURCE_UNAVAILABLE", Message: "Price source unavailable", StatusCode: http.StatusServiceUnavailable}
)
