package validation

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/lorrc/service-desk-analytics/internal/core/errors"
)

func newQuery(target string) (*Query, *Validator) {
	v := NewValidator()
	return NewQuery(httptest.NewRequest("GET", target, nil), v), v
}

func TestQuery_Valid(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	q, v := newQuery("/?from=2024-03-01&client=+ACME+&slaHours=12.5&includeTickets=1&now=2024-03-02T10:00:00-03:00")

	from := q.Date("from", loc, apperrors.ErrInvalidDateRange)
	require.NotNil(t, from)
	assert.True(t, from.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, loc)))
	assert.Nil(t, q.Date("to", loc, apperrors.ErrInvalidDateRange))

	assert.Equal(t, "ACME", q.String("client"))
	assert.Equal(t, 12.5, q.Float("slaHours", 24, apperrors.ErrInvalidSLATarget))
	assert.Equal(t, 24.0, q.Float("missing", 24, apperrors.ErrInvalidSLATarget))
	assert.True(t, q.Bool("includeTickets", false))
	assert.True(t, q.Time("now").Equal(time.Date(2024, 3, 2, 13, 0, 0, 0, time.UTC)))
	assert.True(t, q.Time("absent").IsZero())

	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Err())
}

func TestQuery_Invalid(t *testing.T) {
	q, v := newQuery("/?from=2024/03/01&slaHours=ten&includeTickets=maybe&now=yesterday")

	assert.Nil(t, q.Date("from", time.UTC, apperrors.ErrInvalidDateRange))
	assert.Equal(t, 24.0, q.Float("slaHours", 24, apperrors.ErrInvalidSLATarget))
	assert.False(t, q.Bool("includeTickets", false))
	assert.True(t, q.Time("now").IsZero())

	err := v.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidDateRange))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidSLATarget))
	assert.Len(t, v.Errors().Errors, 4)
}

func TestValidator_Rules(t *testing.T) {
	v := NewValidator()

	v.MaxLength("client", "abcdef", 3).
		RequiredIf("segmentField", "", true, "Required when segmentValue is set").
		RequiredIf("other", "", false, "never").
		Custom("ok", true, "never").
		CustomCause("segmentField", false, apperrors.ErrInvalidField, "Unknown ticket field")

	errs := v.Errors().Errors
	assert.Len(t, errs, 2)
	assert.Len(t, errs["segmentField"], 2)
	assert.ErrorIs(t, v.Err(), apperrors.ErrInvalidField)
}
