// Package errors provides standardized error types for the API.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/soapbox/bible-verses/internal/canon"
	"github.com/soapbox/bible-verses/internal/database"
	"github.com/soapbox/bible-verses/internal/lookup"
	"github.com/soapbox/bible-verses/internal/translation"
)

// Code represents an API error code.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidReference   Code = "INVALID_REFERENCE"
	CodeInvalidTranslation Code = "INVALID_TRANSLATION"
	CodeInvalidRequest     Code = "INVALID_REQUEST"
	CodeInternal           Code = "INTERNAL_ERROR"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeUnavailable        Code = "SERVICE_UNAVAILABLE"
)

// APIError represents a structured API error.
type APIError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &APIError{Code: CodeNotFound, Message: "Resource not found", HTTPStatus: http.StatusNotFound}
	ErrInternal       = &APIError{Code: CodeInternal, Message: "Internal server error", HTTPStatus: http.StatusInternalServerError}
	ErrInvalidRequest = &APIError{Code: CodeInvalidRequest, Message: "Invalid request", HTTPStatus: http.StatusBadRequest}
	ErrRateLimited    = &APIError{Code: CodeRateLimited, Message: "Rate limit exceeded", HTTPStatus: http.StatusTooManyRequests}
	ErrUnavailable    = &APIError{Code: CodeUnavailable, Message: "Database unavailable", HTTPStatus: http.StatusServiceUnavailable}
)

// NotFound creates a not found error with a custom message.
func NotFound(resource string) *APIError {
	return &APIError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// InvalidNumber creates an error for a path or query parameter that must be
// a positive integer.
func InvalidNumber(paramName string) *APIError {
	return &APIError{
		Code:       CodeInvalidReference,
		Message:    fmt.Sprintf("Invalid %s: must be a positive integer", paramName),
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidRequest creates a bad request error with a custom message.
func InvalidRequest(message string) *APIError {
	return &APIError{
		Code:       CodeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal creates an internal error with a client-safe message.
func Internal(message string) *APIError {
	if message == "" {
		message = "Internal server error"
	}
	return &APIError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// FromError maps domain errors onto API errors. Unrecognized errors become
// ErrInternal so their text never reaches clients.
func FromError(err error) *APIError {
	var apiErr *APIError
	switch {
	case err == nil:
		return nil
	case stderrors.As(err, &apiErr):
		return apiErr
	case stderrors.Is(err, canon.ErrUnknownBook),
		stderrors.Is(err, canon.ErrChapterOutOfRange),
		stderrors.Is(err, canon.ErrVerseOutOfRange),
		stderrors.Is(err, canon.ErrInvalidReference):
		return &APIError{Code: CodeInvalidReference, Message: err.Error(), HTTPStatus: http.StatusBadRequest}
	case stderrors.Is(err, translation.ErrUnknownTranslation):
		return &APIError{Code: CodeInvalidTranslation, Message: err.Error(), HTTPStatus: http.StatusBadRequest}
	case stderrors.Is(err, lookup.ErrEmptyQuery):
		return InvalidRequest("Query parameter 'q' is required")
	case stderrors.Is(err, database.ErrNotFound):
		return NotFound("Verse")
	case stderrors.Is(err, database.ErrUnavailable):
		return ErrUnavailable
	default:
		return ErrInternal
	}
}
