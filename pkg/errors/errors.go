package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrNotFound      = NewNotFoundError("resource", "resource not found")
	ErrAlreadyExists = NewAlreadyExistsError("resource", "resource already exists")
	ErrForbidden     = NewForbiddenError("permission denied")
	ErrUnauthorized  = NewUnauthorizedError("invalid credentials")
	ErrInternal      = NewInternalError("internal server error", nil)
)

// HTTPStatuser interface for errors that can provide an HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

// Code extracts a machine-readable error code for an error, falling back
// to "internal_error" for untyped errors.
func Code(err error) string {
	var (
		nf *NotFoundError
		ae *AlreadyExistsError
		os *OutOfStockError
		is *InvalidStatusError
		fb *ForbiddenError
		ua *UnauthorizedError
		ve *ValidationError
	)
	switch {
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &ae):
		return "already_exists"
	case errors.As(err, &os):
		return "out_of_stock"
	case errors.As(err, &is):
		return "invalid_status"
	case errors.As(err, &fb):
		return "forbidden"
	case errors.As(err, &ua):
		return "unauthorized"
	case errors.As(err, &ve):
		return "validation_error"
	default:
		return "internal_error"
	}
}

// Status extracts the HTTP status for an error, falling back to 500.
func Status(err error) int {
	var st HTTPStatuser
	if errors.As(err, &st) {
		return st.HTTPStatus()
	}
	return http.StatusInternalServerError
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{Resource: resource, Message: message}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{Resource: resource, Message: message}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *AlreadyExistsError) HTTPStatus() int {
	return http.StatusConflict
}

// OutOfStockError signals that a loan tried to enter the borrowed state
// while the referenced book had no available copies.
type OutOfStockError struct {
	BookID int64
}

// NewOutOfStockError creates a new out of stock error
func NewOutOfStockError(bookID int64) *OutOfStockError {
	return &OutOfStockError{BookID: bookID}
}

// Error implements the error interface
func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("book %d is out of stock", e.BookID)
}

// HTTPStatus returns the HTTP status for this error
func (e *OutOfStockError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InvalidStatusError signals a loan status value outside the known enum.
type InvalidStatusError struct {
	Status string
}

// NewInvalidStatusError creates a new invalid status error
func NewInvalidStatusError(status string) *InvalidStatusError {
	return &InvalidStatusError{Status: status}
}

// Error implements the error interface
func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid loan status %q", e.Status)
}

// HTTPStatus returns the HTTP status for this error
func (e *InvalidStatusError) HTTPStatus() int {
	return http.StatusBadRequest
}

// ForbiddenError represents an access-policy violation
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Error implements the error interface
func (e *ForbiddenError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "permission denied"
}

// HTTPStatus returns the HTTP status for this error
func (e *ForbiddenError) HTTPStatus() int {
	return http.StatusForbidden
}

// UnauthorizedError represents a failed or missing authentication
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// HTTPStatus returns the HTTP status for this error
func (e *UnauthorizedError) HTTPStatus() int {
	return http.StatusUnauthorized
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int {
	return http.StatusInternalServerError
}
