package validation

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
)

// DateLayout is the accepted format for day-granularity query parameters.
const DateLayout = "2006-01-02"

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Err returns the collected errors, or nil when there are none.
func (v *Validator) Err() error {
	if v.errors.HasErrors() {
		return v.errors
	}
	return nil
}

// RequiredIf validates that a string is not empty if condition is true
func (v *Validator) RequiredIf(field, value string, condition bool, message string) *Validator {
	if condition && strings.TrimSpace(value) == "" {
		v.errors.Add(field, message)
	}
	return v
}

// MaxLength validates maximum string length
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors.Add(field, "Must be at most "+strconv.Itoa(max)+" characters")
	}
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// CustomCause adds a custom validation that keeps a sentinel error.
func (v *Validator) CustomCause(field string, valid bool, cause error, message string) *Validator {
	if !valid {
		v.errors.AddCause(field, cause, message)
	}
	return v
}

// Query reads typed query parameters. Malformed values are recorded on
// the validator and the zero value is returned.
type Query struct {
	values url.Values
	v      *Validator
}

// NewQuery wraps the query of r.
func NewQuery(r *http.Request, v *Validator) *Query {
	return &Query{values: r.URL.Query(), v: v}
}

// String returns the trimmed value of key.
func (q *Query) String(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

// Date parses a YYYY-MM-DD value as midnight in loc. Absent yields nil.
func (q *Query) Date(key string, loc *time.Location, cause error) *time.Time {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		q.v.errors.AddCause(key, cause, "Must be a date in YYYY-MM-DD format")
		return nil
	}
	return &t
}

// Time parses an RFC3339 timestamp. Absent yields the zero time.
func (q *Query) Time(key string) time.Time {
	raw := q.String(key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		q.v.Custom(key, false, "Must be an RFC3339 timestamp")
		return time.Time{}
	}
	return t
}

// Float parses a decimal value. Absent yields def.
func (q *Query) Float(key string, def float64, cause error) float64 {
	raw := q.String(key)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.v.errors.AddCause(key, cause, "Must be a number")
		return def
	}
	return f
}

// Bool parses a boolean value. Absent yields def.
func (q *Query) Bool(key string, def bool) bool {
	raw := q.String(key)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.v.Custom(key, false, "Must be true or false")
		return def
	}
	return b
}
