package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid or expired token"}
)

// Cash-desk validation failures. These indicate caller logic or state errors
// rather than transient faults, so none of them are retried automatically.
var (
	// ErrSessionConflict is returned when a cashier who already has an
	// active session attempts to open a second one.
	ErrSessionConflict = &AppError{Code: http.StatusConflict, Message: "Cashier already has an active session"}
	// ErrSessionClosed is returned when a mutation is attempted against a
	// session that is not active. A closed session is read-only.
	ErrSessionClosed = &AppError{Code: http.StatusUnprocessableEntity, Message: "Session is closed"}
	// ErrInsufficientStock is returned when a cart quantity exceeds the
	// available stock snapshot.
	ErrInsufficientStock = &AppError{Code: http.StatusBadRequest, Message: "Requested quantity exceeds available stock"}
	// ErrIncompletePayment is returned when tendered payments do not cover
	// the sale total.
	ErrIncompletePayment = &AppError{Code: http.StatusBadRequest, Message: "Tendered payments do not cover the sale total"}
	// ErrPaymentMismatch is returned when a non-cash payment amount differs
	// from its allocated share of the total.
	ErrPaymentMismatch = &AppError{Code: http.StatusBadRequest, Message: "Non-cash payment amount does not match its allocation"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewInternalError wraps an unexpected failure as an internal server error
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
