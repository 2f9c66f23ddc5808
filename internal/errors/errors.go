package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a referenced thread, message, email, group or
	// user does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the acting user lacks the required admin or
	// ownership privilege
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition indicates a folder move or state change from a
	// state that does not permit it
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrInvariantViolation indicates an operation would corrupt a required
	// invariant, such as leaving a non-empty group without admins
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrValidation indicates a missing or malformed required field
	ErrValidation = errors.New("validation failed")

	// ErrConfirmationRequired indicates a destructive operation was requested
	// without the second phase of the confirmation protocol
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound             = "NOT_FOUND"
	CodeForbidden            = "FORBIDDEN"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeInvariantViolation   = "INVARIANT_VIOLATION"
	CodeValidation           = "VALIDATION_ERROR"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeDuplicateEntry       = "DUPLICATE_ENTRY"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// NotFoundf returns an ErrNotFound wrapped with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Forbiddenf returns an ErrForbidden wrapped with a formatted message.
func Forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}

// InvalidTransitionf returns an ErrInvalidTransition wrapped with a formatted message.
func InvalidTransitionf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidTransition)...)
}

// InvariantViolationf returns an ErrInvariantViolation wrapped with a formatted message.
func InvariantViolationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvariantViolation)...)
}

// Validationf returns an ErrValidation wrapped with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden checks if the error is a forbidden error
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsInvalidTransition checks if the error is an invalid transition error
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsInvariantViolation checks if the error is an invariant violation error
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConfirmationRequired checks if the error is a confirmation required error
func IsConfirmationRequired(err error) bool {
	return errors.Is(err, ErrConfirmationRequired)
}

// IsDuplicateEntry checks if the error is a duplicate entry error
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	switch {
	case IsNotFound(err):
		return CodeNotFound
	case IsForbidden(err):
		return CodeForbidden
	case IsInvalidTransition(err):
		return CodeInvalidTransition
	case IsInvariantViolation(err):
		return CodeInvariantViolation
	case IsValidation(err):
		return CodeValidation
	case IsConfirmationRequired(err):
		return CodeConfirmationRequired
	case IsDuplicateEntry(err):
		return CodeDuplicateEntry
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternalError
	}
}
