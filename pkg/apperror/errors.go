package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind groups error codes by the part of the system that rejected the action.
type Kind string

const (
	KindValidation    Kind = "VALIDATION"
	KindAuthorization Kind = "AUTHORIZATION"
	KindState         Kind = "STATE"
	KindSystem        Kind = "SYSTEM"
)

// AppError is a structured error that maps to HTTP responses.
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

// Is matches any AppError with the same code, so
// errors.Is(err, ErrOverdrawn()) works across fresh values.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// Kind derives the error kind from the code prefix.
func (e *AppError) Kind() Kind {
	switch {
	case strings.HasPrefix(e.Code, "VAL_"):
		return KindValidation
	case strings.HasPrefix(e.Code, "AUTH_"):
		return KindAuthorization
	case strings.HasPrefix(e.Code, "STATE_"):
		return KindState
	default:
		return KindSystem
	}
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

// KindOf returns the kind of err, or KindSystem for errors that are not AppErrors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindSystem
}

// CodeOf returns the code of err, or SYS_000 for errors that are not AppErrors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "SYS_000"
}

// ---- Validation (VAL) ----

func ErrInvalidSymbol() *AppError {
	return New("VAL_001", "Invalid symbol name", http.StatusBadRequest)
}

func ErrInvalidQuantity(message string) *AppError {
	return New("VAL_002", message, http.StatusBadRequest)
}

func ErrMemoTooLong() *AppError {
	return New("VAL_003", "Memo has more than 256 bytes", http.StatusBadRequest)
}

func ErrSelfTransfer() *AppError {
	return New("VAL_004", "Cannot transfer to self", http.StatusBadRequest)
}

func ErrSymbolMismatch() *AppError {
	return New("VAL_005", "Symbol precision mismatch", http.StatusBadRequest)
}

func ErrInvalidSupply(message string) *AppError {
	return New("VAL_006", message, http.StatusBadRequest)
}

func ErrInvalidAccountName() *AppError {
	return New("VAL_007", "Invalid account name", http.StatusBadRequest)
}

func ErrInvalidDelay() *AppError {
	return New("VAL_008", "Invalid delay", http.StatusBadRequest)
}

// Validation returns a generic request validation error.
func Validation(message string) *AppError {
	return New("VAL_000", message, http.StatusBadRequest)
}

// ---- Authorization (AUTH) ----

func ErrMissingAuthority(account string) *AppError {
	return New("AUTH_001", fmt.Sprintf("Missing authority of %s", account), http.StatusForbidden)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_002", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Ledger state (STATE) ----

func ErrAlreadyExists(entity string) *AppError {
	return New("STATE_001", fmt.Sprintf("%s already exists", entity), http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("STATE_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrUnknownAccount() *AppError {
	return New("STATE_003", "To account does not exist", http.StatusUnprocessableEntity)
}

func ErrNoBalance() *AppError {
	return New("STATE_004", "No balance object found", http.StatusUnprocessableEntity)
}

func ErrOverdrawn() *AppError {
	return New("STATE_005", "Overdrawn balance", http.StatusUnprocessableEntity)
}

func ErrSupplyExceeded() *AppError {
	return New("STATE_006", "Quantity exceeds available supply", http.StatusUnprocessableEntity)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrSchedulerUnavailable(err error) *AppError {
	return Wrap("SYS_002", "Scheduler unavailable", http.StatusServiceUnavailable, err)
}

// ErrUnreadableAction reports a queued deferred action whose body cannot be decoded.
func ErrUnreadableAction(err error) *AppError {
	return Wrap("SYS_003", "Deferred action unreadable", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}
