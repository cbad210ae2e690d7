package dto

import (
	"net/http"
	"time"

	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
)

// ErrorCode identifies an error class in responses
type ErrorCode string

// Error codes. Each maps to exactly one HTTP status.
const (
	ErrorCodeUnauthorized     ErrorCode = "AUTH_008"
	ErrorCodeResourceNotFound ErrorCode = "RES_001"
	ErrorCodeResourceInvalid  ErrorCode = "RES_003"
	ErrorCodeConflict         ErrorCode = "RES_004"
	ErrorCodeValidationFailed ErrorCode = "VAL_001"
	ErrorCodeInternalServer   ErrorCode = "SRV_001"
)

// Status returns the HTTP status an error code is reported with
func (c ErrorCode) Status() int {
	switch c {
	case ErrorCodeValidationFailed, ErrorCodeResourceInvalid:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeResourceNotFound:
		return http.StatusNotFound
	case ErrorCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorSeverity grades an error for clients and logs
type ErrorSeverity string

const (
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// severityOf: server faults are critical, authentication failures warnings
func severityOf(code ErrorCode) ErrorSeverity {
	switch code.Status() {
	case http.StatusInternalServerError:
		return ErrorSeverityCritical
	case http.StatusUnauthorized:
		return ErrorSeverityWarning
	default:
		return ErrorSeverityError
	}
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Code     ErrorCode              `json:"code" example:"VAL_001"`
	Message  string                 `json:"message" example:"validation failed: subjects[0].mark must be less than or equal to 100"`
	Field    string                 `json:"field,omitempty" example:"subjects[0].mark"`
	Severity ErrorSeverity          `json:"severity" example:"ERROR"`
	Details  []apperrors.FieldError `json:"details,omitempty"`
}

// ErrorResponse is the envelope of every failed request
type ErrorResponse struct {
	Success   bool         `json:"success" example:"false"`
	Error     *ErrorDetail `json:"error"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewErrorDetail creates an error detail graded by its code
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: severityOf(code),
	}
}

// WithFields attaches rejected fields. A single field is also named at the top level.
func (e *ErrorDetail) WithFields(fields []apperrors.FieldError) *ErrorDetail {
	if len(fields) == 0 {
		return e
	}
	if len(fields) == 1 {
		e.Field = fields[0].Field
	}
	e.Details = fields
	return e
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(errorDetail *ErrorDetail) *ErrorResponse {
	return &ErrorResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// HandleValidationError converts a validation failure into an error detail
// carrying one entry per rejected field
func HandleValidationError(err error) *ErrorDetail {
	return NewErrorDetail(ErrorCodeValidationFailed, apperrors.MessageOf(err, "Validation failed")).
		WithFields(apperrors.FieldsOf(err))
}
