// Package errors defines the error taxonomy returned by the HTTP service.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/R3E-Network/rainwater/pkg/rainwater"
)

// ErrorCode identifies a class of failure in API responses.
type ErrorCode string

const (
	CodeInvalidInput      ErrorCode = "invalid_input"
	CodeNegativeHeight    ErrorCode = "negative_height"
	CodeHeightTooLarge    ErrorCode = "height_too_large"
	CodeTooManyHeights    ErrorCode = "too_many_heights"
	CodeBatchTooLarge     ErrorCode = "batch_too_large"
	CodeInvalidMethod     ErrorCode = "invalid_method"
	CodeRateLimitExceeded ErrorCode = "rate_limit_exceeded"
	CodeNotFound          ErrorCode = "not_found"
	CodeInternal          ErrorCode = "internal_error"
)

// ServiceError is an error with an API code and HTTP status.
type ServiceError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	Err        error          `json:"-"`
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail entry and returns e.
func (e *ServiceError) WithDetail(key string, value any) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func newError(code ErrorCode, status int, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// =============================================================================
// Constructors
// =============================================================================

// InvalidInput reports a malformed request.
func InvalidInput(message string, err error) *ServiceError {
	return newError(CodeInvalidInput, http.StatusBadRequest, message, err)
}

// NegativeHeight reports a profile with a bar below zero.
func NegativeHeight(index, value int) *ServiceError {
	return newError(CodeNegativeHeight, http.StatusBadRequest, "heights must be non-negative", rainwater.ErrNegativeHeight).
		WithDetail("index", index).
		WithDetail("value", value)
}

// HeightTooLarge reports a bar above the configured ceiling.
func HeightTooLarge(index, value, limit int) *ServiceError {
	return newError(CodeHeightTooLarge, http.StatusBadRequest, "height exceeds the maximum", nil).
		WithDetail("index", index).
		WithDetail("value", value).
		WithDetail("limit", limit)
}

// TooManyHeights reports a profile longer than the configured limit.
func TooManyHeights(length, limit int) *ServiceError {
	return newError(CodeTooManyHeights, http.StatusRequestEntityTooLarge, "profile exceeds the maximum length", nil).
		WithDetail("length", length).
		WithDetail("limit", limit)
}

// BatchTooLarge reports a batch with more profiles than allowed.
func BatchTooLarge(size, limit int) *ServiceError {
	return newError(CodeBatchTooLarge, http.StatusRequestEntityTooLarge, "batch exceeds the maximum size", nil).
		WithDetail("size", size).
		WithDetail("limit", limit)
}

// InvalidMethod reports an unknown computation method.
func InvalidMethod(name string) *ServiceError {
	return newError(CodeInvalidMethod, http.StatusBadRequest, fmt.Sprintf("unknown method %q", name), rainwater.ErrUnknownMethod)
}

// RateLimitExceeded reports a throttled client.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return newError(CodeRateLimitExceeded, http.StatusTooManyRequests, "rate limit exceeded", nil).
		WithDetail("limit", limit).
		WithDetail("window", window)
}

// NotFound reports an unknown route.
func NotFound(path string) *ServiceError {
	return newError(CodeNotFound, http.StatusNotFound, "resource not found", nil).WithDetail("path", path)
}

// Internal wraps an unexpected failure.
func Internal(message string, err error) *ServiceError {
	return newError(CodeInternal, http.StatusInternalServerError, message, err)
}

// =============================================================================
// Conversion
// =============================================================================

// As returns the ServiceError in err's chain, if any.
func As(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// FromError maps err to a ServiceError. Library errors from the rainwater
// package get their dedicated codes; anything else becomes an internal error.
func FromError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	if se, ok := As(err); ok {
		return se
	}

	var herr *rainwater.HeightError
	switch {
	case errors.As(err, &herr) && errors.Is(herr.Err, rainwater.ErrNegativeHeight):
		return NegativeHeight(herr.Index, herr.Value)
	case errors.Is(err, rainwater.ErrOverflow):
		return newError(CodeHeightTooLarge, http.StatusBadRequest, "trapped water does not fit in an integer", err)
	case errors.Is(err, rainwater.ErrInvalidHeight):
		return InvalidInput("invalid heights", err)
	case errors.Is(err, rainwater.ErrUnknownMethod):
		return newError(CodeInvalidMethod, http.StatusBadRequest, err.Error(), err)
	default:
		return Internal("internal error", err)
	}
}
