package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError so callers can branch on the failure type
// without depending on HTTP status codes.
type Kind string

const (
	KindGeneric           Kind = ""
	KindValidation        Kind = "validation"
	KindCustomerNotFound  Kind = "customer_not_found"
	KindPersistence       Kind = "persistence"
	KindRender            Kind = "render"
	KindDispatch          Kind = "dispatch"
	KindInvalidTransition Kind = "invalid_transition"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Kind for kinded errors so errors.Is(err, ErrPersistence)
// holds for any persistence failure, whatever its message.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e == t {
		return true
	}
	return e.Kind != KindGeneric && e.Kind == t.Kind
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
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Domain error kinds
var (
	ErrValidation        = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindValidation, Message: "Validation failed"}
	ErrCustomerNotFound  = &AppError{Code: http.StatusNotFound, Kind: KindCustomerNotFound, Message: "Customer not found"}
	ErrPersistence       = &AppError{Code: http.StatusInternalServerError, Kind: KindPersistence, Message: "Failed to persist record"}
	ErrRender            = &AppError{Code: http.StatusInternalServerError, Kind: KindRender, Message: "Failed to generate document"}
	ErrDispatch          = &AppError{Code: http.StatusBadGateway, Kind: KindDispatch, Message: "Failed to dispatch email"}
	ErrInvalidTransition = &AppError{Code: http.StatusConflict, Kind: KindInvalidTransition, Message: "Invalid status transition"}
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
		Kind:    KindValidation,
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

// NewCustomerNotFoundError reports an identifier that resolved to no customer.
func NewCustomerNotFoundError(identifier string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Kind:    KindCustomerNotFound,
		Message: "Customer not found: " + identifier,
	}
}

// NewPersistenceError wraps a storage failure.
func NewPersistenceError(op string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindPersistence,
		Message: "Failed to " + op,
		Err:     err,
	}
}

// NewRenderError wraps a document generation failure.
func NewRenderError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindRender,
		Message: message,
		Err:     err,
	}
}

// NewDispatchError wraps an email delivery failure.
func NewDispatchError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Kind:    KindDispatch,
		Message: message,
		Err:     err,
	}
}

// NewInvalidTransitionError reports a status change the lifecycle forbids.
func NewInvalidTransitionError(from, to string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: "Cannot change status from " + from + " to " + to,
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
