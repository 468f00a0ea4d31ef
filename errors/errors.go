// Package errors defines the structured application error rendered by the
// HTTP error middleware.
package errors

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/NomadCrew/portfolio-backend/logger"
)

type ErrorType string

const (
	ValidationError   ErrorType = "VALIDATION_ERROR"
	NotFoundError     ErrorType = "NOT_FOUND"
	AuthError         ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError     ErrorType = "DATABASE_ERROR"
	ServerError       ErrorType = "SERVER_ERROR"
	ConflictError     ErrorType = "CONFLICT"
	RateLimitError    ErrorType = "RATE_LIMIT_EXCEEDED"
	DeliveryError     ErrorType = "DELIVERY_FAILED"
	UnprocessableForm ErrorType = "FORM_INVALID"
	UnavailableError  ErrorType = "SERVICE_UNAVAILABLE"
)

// AppError is an error with a type, a user-facing message and an HTTP status.
// Raw carries the underlying cause and is never serialized.
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code,omitempty"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the response status, falling back to the type's default.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates an AppError whose status is derived from errType.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap attaches AppError context to err. Returns nil for a nil err.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewDatabaseError logs the cause and returns a sanitized error.
func NewDatabaseError(err error) *AppError {
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func Conflict(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// RateLimitExceeded reports a throttled client; retryAfter is in seconds.
func RateLimitExceeded(message string, retryAfter int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     "retry after " + strconv.Itoa(retryAfter) + "s",
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// DeliveryFailed hides the delivery collaborator's error behind message.
func DeliveryFailed(message string, err error) *AppError {
	return &AppError{
		Type:       DeliveryError,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

// Unavailable reports a temporarily exhausted resource.
func Unavailable(message string, err error) *AppError {
	return &AppError{
		Type:       UnavailableError,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Raw:        err,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case ConflictError:
		return http.StatusConflict
	case RateLimitError:
		return http.StatusTooManyRequests
	case DeliveryError:
		return http.StatusBadGateway
	case UnprocessableForm:
		return http.StatusUnprocessableEntity
	case UnavailableError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
