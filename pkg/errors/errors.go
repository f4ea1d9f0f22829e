package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeAuth indicates a failed authentication attempt
	ErrorTypeAuth ErrorType = "AUTH"

	// ErrorTypeSession indicates a session lifecycle violation
	ErrorTypeSession ErrorType = "SESSION"

	// ErrorTypePermission indicates an operation denied by the authorization policy
	ErrorTypePermission ErrorType = "PERMISSION"

	// ErrorTypeField indicates an invalid field name or malformed field input
	ErrorTypeField ErrorType = "FIELD"

	// ErrorTypeAggregation indicates a trend aggregation failure
	ErrorTypeAggregation ErrorType = "AGGREGATION"

	// ErrorTypeAudit indicates a failure writing to the audit trail
	ErrorTypeAudit ErrorType = "AUDIT"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// Error codes carried alongside the type so callers can react to the precise
// condition without string matching.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeAlreadyActive      = "already_active"
	CodeNotAuthenticated   = "not_authenticated"
	CodeUnknownField       = "unknown_field"
	CodeInvalidDate        = "invalid_date"
	CodeEmptyDataset       = "empty_dataset"
	CodeWriteFailed        = "write_failed"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// CodeOf returns the error code of an AppError, or "" for other errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// NewInvalidCredentialsError creates the single error returned for every failed
// login. Unknown usernames and wrong passwords are deliberately not
// distinguished.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Type:    ErrorTypeAuth,
		Code:    CodeInvalidCredentials,
		Message: "invalid credentials",
	}
}

// NewSessionAlreadyActiveError creates the error for starting a session while
// one is live.
func NewSessionAlreadyActiveError(username string) *AppError {
	return &AppError{
		Type:    ErrorTypeSession,
		Code:    CodeAlreadyActive,
		Message: fmt.Sprintf("a session for %q is already active; end it before logging in again", username),
	}
}

// NewNotAuthenticatedError creates the error for core calls made without an
// active session.
func NewNotAuthenticatedError() *AppError {
	return &AppError{
		Type:    ErrorTypeSession,
		Code:    CodeNotAuthenticated,
		Message: "no active session",
	}
}

// NewPermissionError creates the error for an operation denied by policy.
func NewPermissionError(operation, role string) *AppError {
	return &AppError{
		Type:    ErrorTypePermission,
		Code:    operation,
		Message: fmt.Sprintf("role %s is not permitted to perform %s", role, operation),
	}
}

// NewUnknownFieldError creates the error for a field name with no registered
// mapping.
func NewUnknownFieldError(field string) *AppError {
	return &AppError{
		Type:    ErrorTypeField,
		Code:    CodeUnknownField,
		Message: fmt.Sprintf("unknown field %q", field),
	}
}

// NewInvalidDateError creates the error for date input not in MM/DD/YYYY form.
func NewInvalidDateError(input string) *AppError {
	return &AppError{
		Type:    ErrorTypeField,
		Code:    CodeInvalidDate,
		Message: fmt.Sprintf("invalid date %q, expected MM/DD/YYYY", input),
	}
}

// NewEmptyDatasetError creates the error for aggregating over a store with no
// records at all.
func NewEmptyDatasetError() *AppError {
	return &AppError{
		Type:    ErrorTypeAggregation,
		Code:    CodeEmptyDataset,
		Message: "no visit records loaded",
	}
}

// NewAuditWriteError creates the error surfaced when an audit append fails.
func NewAuditWriteError(err error) *AppError {
	return &AppError{
		Type:    ErrorTypeAudit,
		Code:    CodeWriteFailed,
		Message: "failed to append audit record",
		Err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}
