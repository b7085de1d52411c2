// Package errors provides standardized error handling for the assistant's request path.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidRequest ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"

	ErrCodeClassifierUnavailable ErrorCode = "CLASSIFIER_UNAVAILABLE"
	ErrCodeClassifierTimeout     ErrorCode = "CLASSIFIER_TIMEOUT"

	ErrCodeLLMExtractionFailed ErrorCode = "LLM_EXTRACTION_FAILED"
	ErrCodeLLMTimeout          ErrorCode = "LLM_TIMEOUT"

	ErrCodeParameterValidationFailed ErrorCode = "PARAMETER_VALIDATION_FAILED"

	ErrCodeExternalAPIFailed ErrorCode = "EXTERNAL_API_FAILED"
	ErrCodeWebSearchFailed   ErrorCode = "WEB_SEARCH_FAILED"
	ErrCodeSheetSyncFailed   ErrorCode = "SHEET_SYNC_FAILED"

	ErrCodePreferenceStoreFailed ErrorCode = "PREFERENCE_STORE_FAILED"
	ErrCodeOAuthTokenInvalid     ErrorCode = "OAUTH_TOKEN_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewInvalidRequestError(details string) *StandardError {
	e := newError(ErrCodeInvalidRequest, "Invalid request", nil, false)
	e.Details = details
	return e
}

func NewNotFoundError(what string) *StandardError {
	e := newError(ErrCodeNotFound, "Resource not found", nil, false)
	e.Details = what
	return e
}

func NewClassifierUnavailableError(err error) *StandardError {
	return newError(ErrCodeClassifierUnavailable, "Intent classifier unavailable", err, true)
}

func NewClassifierTimeoutError(err error) *StandardError {
	return newError(ErrCodeClassifierTimeout, "Intent classifier timeout", err, true)
}

func NewLLMExtractionFailedError(err error) *StandardError {
	return newError(ErrCodeLLMExtractionFailed, "Parameter extraction failed", err, false)
}

func NewLLMTimeoutError(err error) *StandardError {
	return newError(ErrCodeLLMTimeout, "Parameter extraction timeout", err, true)
}

func NewParameterValidationError(details string) *StandardError {
	e := newError(ErrCodeParameterValidationFailed, "Invalid parameters", nil, false)
	e.Details = details
	return e
}

func NewExternalAPIError(service string, err error) *StandardError {
	return newError(ErrCodeExternalAPIFailed, fmt.Sprintf("External API '%s' error", service), err, true).
		WithMetadata("service", service)
}

func NewWebSearchFailedError(err error) *StandardError {
	return newError(ErrCodeWebSearchFailed, "Web search failed", err, true)
}

func NewSheetSyncFailedError(err error) *StandardError {
	return newError(ErrCodeSheetSyncFailed, "Spreadsheet sync failed", err, true)
}

func NewPreferenceStoreError(err error) *StandardError {
	return newError(ErrCodePreferenceStoreFailed, "Preference store error", err, true)
}

func NewOAuthTokenInvalidError(api string, err error) *StandardError {
	return newError(ErrCodeOAuthTokenInvalid, fmt.Sprintf("OAuth token for '%s' is missing or unusable", api), err, false).
		WithMetadata("api", api)
}

// AsStandardError unwraps err looking for a *StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// GetHTTPStatus maps an error code to the HTTP status returned to callers.
func GetHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeParameterValidationFailed:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeOAuthTokenInvalid:
		return http.StatusUnauthorized
	case ErrCodeClassifierUnavailable, ErrCodeLLMExtractionFailed,
		ErrCodeExternalAPIFailed, ErrCodeWebSearchFailed, ErrCodeSheetSyncFailed:
		return http.StatusBadGateway
	case ErrCodeClassifierTimeout, ErrCodeLLMTimeout:
		return http.StatusGatewayTimeout
	case ErrCodePreferenceStoreFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeClassifierUnavailable,
		ErrCodeExternalAPIFailed,
		ErrCodeWebSearchFailed,
		ErrCodePreferenceStoreFailed,
		ErrCodeSheetSyncFailed:
		return 3
	case ErrCodeClassifierTimeout, ErrCodeLLMTimeout:
		return 1
	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CLASSIFIER"), strings.Contains(codeStr, "LLM"):
		return "AI"
	case strings.Contains(codeStr, "PREFERENCE"):
		return "STORAGE"
	case strings.Contains(codeStr, "OAUTH"):
		return "AUTH"
	case strings.Contains(codeStr, "API"), strings.Contains(codeStr, "SEARCH"), strings.Contains(codeStr, "SHEET"):
		return "EXTERNAL"
	case strings.Contains(codeStr, "INVALID"), strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
