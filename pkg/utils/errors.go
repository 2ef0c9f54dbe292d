package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// CustomError represents a custom application error
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Common error constructors
func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Message: message,
	}
}

func NewTimeoutError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusRequestTimeout,
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Message: "Validation failed",
		Detail:  detail,
	}
}

func NewUnauthorizedError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnauthorized,
		Message: "Authentication required",
		Detail:  detail,
	}
}

// NewPermissionError returns the error surfaced when an actor acts outside
// its authorized scope, e.g. a coordinator reviewing another department's
// listing.
func NewPermissionError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusForbidden,
		Message: "Permission denied",
		Detail:  detail,
	}
}

func NewNotFoundError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Message: "Not found",
		Detail:  detail,
	}
}

// NewConflictError returns the error surfaced when a record's current status
// does not allow the attempted transition.
func NewConflictError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusConflict,
		Message: "Status conflict",
		Detail:  detail,
	}
}

// NewUpstreamError returns the error surfaced when the job-board backend
// fails with a server-side status.
func NewUpstreamError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Message: "Backend request failed",
		Detail:  detail,
	}
}

// ErrorCode extracts the HTTP status carried by a CustomError anywhere in the
// chain, defaulting to 500 for plain errors.
func ErrorCode(err error) int {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return http.StatusInternalServerError
}

// IsStatus checks if err carries the given HTTP status code
func IsStatus(err error, code int) bool {
	var ce *CustomError
	return errors.As(err, &ce) && ce.Code == code
}

// IsNotFound checks if err is a 404 error
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// IsConflict checks if err is a 409 error
func IsConflict(err error) bool {
	return IsStatus(err, http.StatusConflict)
}

// IsPermission checks if err is a 403 error
func IsPermission(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}
