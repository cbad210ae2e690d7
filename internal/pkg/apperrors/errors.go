package apperrors

import (
	"errors"
	"fmt"
)

// Taxonomy roots. Every error returned by the services wraps exactly one of these.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidID        = errors.New("invalid identifier")
)

// Authentication errors. Both collapse to ErrUnauthorized so callers never
// learn which part of the credential was wrong.
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrTokenInvalid       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
)

// Student errors
var (
	ErrStudentNotFound      = fmt.Errorf("%w: student not found", ErrResourceNotFound)
	ErrStudentAlreadyExists = fmt.Errorf("%w: student ID already allocated", ErrConflict)
)

// Marks errors
var (
	ErrMarksNotFound     = fmt.Errorf("%w: marks record not found", ErrResourceNotFound)
	ErrSubjectNotFound   = fmt.Errorf("%w: subject not found", ErrResourceNotFound)
	ErrMarksAlreadyExist = fmt.Errorf("%w: marks already exist for this term and year", ErrConflict)
	ErrInvalidMarksID    = fmt.Errorf("%w: invalid marks ID format", ErrInvalidID)
)

// User errors
var (
	ErrUsernameTaken = fmt.Errorf("%w: username already exists", ErrConflict)
)

// FieldError describes one rejected input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Fields  []FieldError
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewValidationError reports one or more field constraint violations
func NewValidationError(fields ...FieldError) *CustomError {
	msg := "validation failed"
	if len(fields) == 1 {
		msg = fmt.Sprintf("validation failed: %s %s", fields[0].Field, fields[0].Message)
	}
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: msg,
		Fields:  fields,
	}
}

// NewResourceNotFoundError wraps a not-found sentinel with a caller-facing message
func NewResourceNotFoundError(err error, message string) error {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewConflictError wraps a conflict sentinel with a caller-facing message
func NewConflictError(err error, message string) error {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// FieldsOf returns the field details carried by err, if any
func FieldsOf(err error) []FieldError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Fields
	}
	return nil
}

// MessageOf returns the caller-facing message of a CustomError, or fallback
func MessageOf(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}
