package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Tagged failures. Every pipeline stage either returns a validated result or
// one of these wrapped in an AppError; no stage substitutes a default.
var (
	ErrNotFound           = errors.New("not found")
	ErrTooLarge           = errors.New("file too large")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrEmpty              = errors.New("empty artifact")
	ErrTooShort           = errors.New("extracted text too short")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrGenerationFailed   = errors.New("generation failed")
	ErrMalformedJSON      = errors.New("malformed json output")
	ErrSchemaInvalid      = errors.New("output failed schema validation")
)

// NewAppError builds an AppError wrapping one of the tagged failures above.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// ExitCode maps a terminal pipeline failure to a process exit code so the
// originating failure class survives into the exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTooLarge),
		errors.Is(err, ErrUnsupportedType),
		errors.Is(err, ErrEmpty),
		errors.Is(err, ErrTooShort):
		return 2
	case errors.Is(err, ErrBackendUnavailable):
		return 3
	case errors.Is(err, ErrGenerationFailed):
		return 4
	case errors.Is(err, ErrMalformedJSON), errors.Is(err, ErrSchemaInvalid):
		return 5
	default:
		return 1
	}
}
