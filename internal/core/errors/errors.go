package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent rejected input or business rule violations
var (
	// Ingestion
	ErrFileRequired          = errors.New("a spreadsheet file is required")
	ErrFileTooLarge          = errors.New("spreadsheet exceeds maximum upload size")
	ErrUnsupportedFormat     = errors.New("unsupported spreadsheet format")
	ErrUnreadableSpreadsheet = errors.New("spreadsheet could not be read")
	ErrEmptySpreadsheet      = errors.New("spreadsheet has no sheets")
	ErrSheetNotFound         = errors.New("sheet not found")
	ErrInvalidTicketID       = errors.New("ticket ID is not numeric")

	// Analytics parameters
	ErrInvalidSLATarget = errors.New("SLA target hours out of range")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrInvalidField     = errors.New("unknown ticket field")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewPayloadTooLargeError(limit int64) *AppError {
	return &AppError{
		Err:        ErrFileTooLarge,
		Message:    fmt.Sprintf("Spreadsheet exceeds the %d byte upload limit", limit),
		Code:       "FILE_TOO_LARGE",
		StatusCode: 413,
		Details:    map[string]interface{}{"limitBytes": limit},
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
	causes []error
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

// AddCause records a field error together with the sentinel behind it,
// so callers can still match it with errors.Is.
func (v *ValidationErrors) AddCause(field string, cause error, message string) {
	v.Add(field, message)
	v.causes = append(v.causes, cause)
}

func (v *ValidationErrors) Unwrap() []error {
	return v.causes
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
