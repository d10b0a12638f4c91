package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound   = New(ErrCodeNotFound, "resource not found")
	ErrValidation = New(ErrCodeValidation, "validation error")
	ErrHTTPClient = New(ErrCodeHTTPClient, "http client error")
	ErrUpstream   = New(ErrCodeUpstream, "upstream service error")
	ErrParse      = New(ErrCodeParse, "parse error")
	ErrSystem     = New(ErrCodeSystemError, "system error")
	// maps errors to http status codes
	statusCodeMap = map[error]int{
		ErrHTTPClient: http.StatusInternalServerError,
		ErrUpstream:   http.StatusInternalServerError,
		ErrParse:      http.StatusInternalServerError,
		ErrNotFound:   http.StatusNotFound,
		ErrValidation: http.StatusBadRequest,
		ErrSystem:     http.StatusInternalServerError,
	}
)

const (
	ErrCodeHTTPClient  = "http_client_error"
	ErrCodeUpstream    = "upstream_error"
	ErrCodeParse       = "parse_error"
	ErrCodeSystemError = "system_error"
	ErrCodeNotFound    = "not_found"
	ErrCodeValidation  = "validation_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// New creates a new InternalError
func New(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func Is(err, reference error) bool {
	return errors.Is(err, reference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}

// IsUpstream checks if an error came from the billing, exchange-rate or mail service
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsParse checks if an error is a parse error
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

func HTTPStatusFromErr(err error) int {
	for e, status := range statusCodeMap {
		if errors.Is(err, e) {
			return status
		}
	}
	return http.StatusInternalServerError
}
